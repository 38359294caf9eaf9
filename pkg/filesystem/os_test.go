package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/deplink/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFS(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"name":"x"}`), 0644))

	fsys := filesystem.NewOS()

	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, string(data))

	assert.True(t, filesystem.Exists(fsys, file))
	assert.True(t, filesystem.IsFile(fsys, file))
	assert.True(t, filesystem.Exists(fsys, dir))
	assert.False(t, filesystem.IsFile(fsys, dir))
	assert.False(t, filesystem.Exists(fsys, filepath.Join(dir, "missing")))

	info, err := fsys.Lstat(file)
	require.NoError(t, err)
	assert.Equal(t, "package.json", info.Name())
}
