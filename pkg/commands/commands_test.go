package commands_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/deplink/pkg/commands"
	"github.com/arthur-debert/deplink/pkg/config"
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workspace lays out a consumer project and one package source next to it
func workspace(t *testing.T, consumer string) (proj, src string) {
	t.Helper()
	root := t.TempDir()
	proj = filepath.Join(root, "app")
	src = filepath.Join(root, "left-pad")

	testutil.WriteTree(t, src, map[string]string{
		"package.json": `{"name": "left-pad"}`,
		"index.js":     "module.exports = pad",
		".git/HEAD":    "ref",
	})
	tree := map[string]string{
		"deplink.config.json": `{"manifest": {"left-pad": "../left-pad"}}`,
	}
	if consumer != "" {
		tree["package.json"] = consumer
	}
	testutil.WriteTree(t, proj, tree)
	return proj, src
}

func TestPrepare(t *testing.T) {
	proj, src := workspace(t, `{"name": "app", "devDependencies": {"left-pad": "^1.0.0"}}`)

	plan, err := commands.Prepare(commands.Options{ProjectDir: proj})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(proj, "deplink.config.json"), plan.Config.Path)
	assert.Empty(t, plan.Warnings)
	require.Len(t, plan.Targets, 1)
	assert.Equal(t, src, plan.Targets[0].Source)
	assert.Equal(t, filepath.Join(proj, "node_modules", "left-pad"), plan.Targets[0].Destination)
}

func TestPrepareMissingConsumerDescriptor(t *testing.T) {
	proj, _ := workspace(t, "")

	plan, err := commands.Prepare(commands.Options{ProjectDir: proj})
	require.NoError(t, err)

	require.Len(t, plan.Targets, 1)
	var codes []errors.ErrorCode
	for _, w := range plan.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []errors.ErrorCode{errors.ErrProjectRead, errors.ErrUndeclaredDependency}, codes)
}

func TestPrepareConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		code errors.ErrorCode
	}{
		{"missing file", "", "", errors.ErrConfigNotFound},
		{"empty manifest", "deplink.config.json", `{"manifest": {}}`, errors.ErrManifestEmpty},
		{"bad syntax", "deplink.config.json", `{"manifest": `, errors.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "deplink.config.json")
			if tt.file != "" {
				testutil.WriteTree(t, dir, map[string]string{tt.file: tt.body})
			}

			_, err := commands.Prepare(commands.Options{ConfigPath: path, ProjectDir: dir})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.True(t, errors.IsConfigurationError(err))
		})
	}
}

func TestList(t *testing.T) {
	proj, _ := workspace(t, `{"name": "app", "dependencies": {"express": "*"}}`)

	result, err := commands.List(commands.Options{ProjectDir: proj})
	require.NoError(t, err)

	require.Len(t, result.Targets, 1)
	assert.Equal(t, "left-pad", result.Targets[0].Name)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, []errors.ErrorCode{errors.ErrUndeclaredDependency}, result.WarningCodes())
}

func TestSync(t *testing.T) {
	proj, _ := workspace(t, `{"name": "app", "dependencies": {"left-pad": "*"}}`)

	var lines []string
	result, err := commands.Sync(context.Background(), commands.SyncOptions{
		Options:  commands.Options{ProjectDir: proj},
		Reporter: reporterFunc(func(s string) { lines = append(lines, s) }),
	})
	require.NoError(t, err)

	assert.Empty(t, result.Failed)
	assert.Len(t, lines, 1)
	assert.Equal(t, []string{"index.js", "package.json"},
		testutil.ListTree(t, filepath.Join(proj, "node_modules", "left-pad")))
}

func TestWatchStopsOnCancel(t *testing.T) {
	proj, _ := workspace(t, `{"name": "app", "dependencies": {"left-pad": "*"}}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := commands.Watch(ctx, commands.WatchOptions{Options: commands.Options{ProjectDir: proj}})
	assert.NoError(t, err)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	result, err := commands.Init(commands.InitOptions{
		Dir:     dir,
		Entries: []string{"left-pad=~/dev/left-pad", "@scope/util = ../util"},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.DefaultFileName), result.Path)

	cfg, err := config.Load(result.Path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"left-pad":    "~/dev/left-pad",
		"@scope/util": "../util",
	}, cfg.Manifest)

	_, err = commands.Init(commands.InitOptions{Dir: dir, Entries: []string{"a=b"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = commands.Init(commands.InitOptions{Dir: dir, Entries: []string{"a=b"}, Force: true})
	require.NoError(t, err)
	cfg, err = config.Load(result.Path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "b"}, cfg.Manifest)
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"pairs", []string{"a=./a", "b = ../b"}, map[string]string{"a": "./a", "b": "../b"}, false},
		{"missing separator", []string{"a"}, nil, true},
		{"missing path", []string{"a="}, nil, true},
		{"duplicate", []string{"a=1", "a=2"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := commands.ParseEntries(tt.entries)
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type reporterFunc func(string)

func (f reporterFunc) Report(s string) { f(s) }
