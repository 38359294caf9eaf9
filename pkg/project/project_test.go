package project_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/filesystem"
	"github.com/arthur-debert/deplink/pkg/project"
	"github.com/arthur-debert/deplink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"package.json": `{
			"name": "app",
			"main": "lib/index.js",
			"files": ["lib", "bin/cli.js"],
			"dependencies": {"left-pad": "^1.3.0"},
			"devDependencies": {"@scope/tool": "2.0.0"}
		}`,
	})

	d, err := project.Load(filesystem.NewOS(), root)
	require.NoError(t, err)

	assert.Equal(t, "app", d.Name)
	assert.Equal(t, root, d.Root)
	assert.Equal(t, []string{"lib", "bin/cli.js"}, d.Files)
	assert.True(t, d.Declares("left-pad"))
	assert.True(t, d.Declares("@scope/tool"))
	assert.False(t, d.Declares("right-pad"))
	assert.Equal(t, []string{"@scope/tool", "left-pad"}, d.DeclaredNames())
	assert.Equal(t, "lib", d.MainDir())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := project.Load(filesystem.NewOS(), t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrProjectRead))
	})

	t.Run("malformed", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteTree(t, root, map[string]string{"package.json": `{"name":`})

		_, err := project.Load(filesystem.NewOS(), root)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrProjectRead))
		assert.Equal(t, filepath.Join(root, "package.json"), errors.GetErrorDetails(err)["path"])
	})
}

func TestMainDir(t *testing.T) {
	tests := []struct {
		main string
		want string
	}{
		{"", ""},
		{"index.js", ""},
		{"./index.js", ""},
		{"lib/index.js", "lib"},
		{"./dist/cjs/index.js", "dist/cjs"},
	}

	for _, tt := range tests {
		t.Run(tt.main, func(t *testing.T) {
			d := &project.Descriptor{Main: tt.main}
			assert.Equal(t, tt.want, d.MainDir())
		})
	}
}

func TestNilDescriptor(t *testing.T) {
	var d *project.Descriptor
	assert.False(t, d.Declares("x"))
	assert.Nil(t, d.DeclaredNames())
	assert.Equal(t, "", d.MainDir())
}
