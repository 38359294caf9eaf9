package paths_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/deplink/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedHome(dir string) paths.HomeDirFunc {
	return func() (string, error) { return dir, nil }
}

func TestExpandHome(t *testing.T) {
	home := filepath.FromSlash("/home/dev")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare tilde", "~", home},
		{"tilde slash", "~/dev/left-pad", filepath.Join(home, "dev", "left-pad")},
		{"tilde backslash", `~\dev`, filepath.Join(home, "dev")},
		{"other user is not expanded", "~foo/bar", "~foo/bar"},
		{"tilde in the middle", "/opt/~/x", "/opt/~/x"},
		{"relative", "../left-pad", "../left-pad"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paths.ExpandHome(tt.in, fixedHome(home))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandHomeError(t *testing.T) {
	failing := func() (string, error) { return "", errors.New("no home") }

	_, err := paths.ExpandHome("~/x", failing)
	assert.Error(t, err)

	got, err := paths.ExpandHome("x", failing)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestNormalize(t *testing.T) {
	base := t.TempDir()
	home := t.TempDir()

	got, err := paths.Normalize("../libs/./left-pad", base, fixedHome(home))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(base), "libs", "left-pad"), got)

	got, err = paths.Normalize("~/dev/left-pad/", base, fixedHome(home))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dev", "left-pad"), got)

	abs := filepath.Join(home, "abs")
	got, err = paths.Normalize(abs, base, fixedHome(home))
	require.NoError(t, err)
	assert.Equal(t, abs, got)
}
