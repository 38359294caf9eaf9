package manifest_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/deplink/pkg/config"
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/manifest"
	"github.com/arthur-debert/deplink/pkg/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolver(home string) *manifest.Resolver {
	return &manifest.Resolver{HomeDir: func() (string, error) { return home, nil }}
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	configDir := t.TempDir()
	projectRoot := t.TempDir()

	cfg := &config.Config{
		Manifest: map[string]string{
			"left-pad":  "~/dev/left-pad",
			"@scope/ui": "../ui",
			"tilde":     "~tilde",
		},
		InstallDir: "node_modules",
		Dir:        configDir,
	}
	consumer := &project.Descriptor{
		Dependencies:    map[string]string{"left-pad": "^1.0.0"},
		DevDependencies: map[string]string{"@scope/ui": "*"},
	}

	targets, warnings, err := resolver(home).Resolve(cfg, consumer, projectRoot)
	require.NoError(t, err)

	assert.Equal(t, []manifest.Target{
		{
			Name:        "@scope/ui",
			Source:      filepath.Join(filepath.Dir(configDir), "ui"),
			Destination: filepath.Join(projectRoot, "node_modules", "@scope", "ui"),
		},
		{
			Name:        "left-pad",
			Source:      filepath.Join(home, "dev", "left-pad"),
			Destination: filepath.Join(projectRoot, "node_modules", "left-pad"),
		},
		{
			Name:        "tilde",
			Source:      filepath.Join(configDir, "~tilde"),
			Destination: filepath.Join(projectRoot, "node_modules", "tilde"),
		},
	}, targets)

	require.Len(t, warnings, 1)
	assert.Equal(t, errors.ErrUndeclaredDependency, warnings[0].Code)
	assert.Equal(t, "tilde", warnings[0].Details["package"])
}

func TestResolveUndeclaredIsStillLinked(t *testing.T) {
	cfg := &config.Config{
		Manifest: map[string]string{"left-pad": "/src/left-pad"},
		Dir:      t.TempDir(),
	}

	targets, warnings, err := resolver(t.TempDir()).Resolve(cfg, &project.Descriptor{}, t.TempDir())
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "left-pad", targets[0].Name)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "left-pad is not listed")
}

func TestResolveWithoutConsumerDescriptor(t *testing.T) {
	cfg := &config.Config{
		Manifest: map[string]string{"a": "/src/a", "b": "/src/b"},
		Dir:      t.TempDir(),
	}

	targets, warnings, err := resolver(t.TempDir()).Resolve(cfg, nil, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, targets, 2)
	assert.Len(t, warnings, 2)
}

func TestResolveCustomInstallDir(t *testing.T) {
	projectRoot := t.TempDir()
	cfg := &config.Config{
		Manifest:   map[string]string{"left-pad": "/src/left-pad"},
		InstallDir: "vendor/js",
		Dir:        t.TempDir(),
	}

	targets, _, err := resolver(t.TempDir()).Resolve(cfg, nil, projectRoot)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(projectRoot, "vendor", "js", "left-pad"), targets[0].Destination)
}

func TestResolveEmptyManifest(t *testing.T) {
	_, _, err := resolver("").Resolve(&config.Config{}, nil, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestEmpty))

	_, _, err = resolver("").Resolve(nil, nil, t.TempDir())
	assert.True(t, errors.IsConfigurationError(err))
}

func TestResolveRejectsNamesOutsideInstallDir(t *testing.T) {
	for _, name := range []string{"..", "../../etc", "/abs/lib", "@scope/../../x", "a//b", "."} {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{
				Manifest:   map[string]string{name: "/src/lib"},
				InstallDir: "node_modules",
				Dir:        t.TempDir(),
			}

			targets, _, err := resolver(t.TempDir()).Resolve(cfg, nil, t.TempDir())
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
			assert.Empty(t, targets)
		})
	}
}
