package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/deplink/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoundTrip(t *testing.T) {
	manifest := map[string]string{
		"left-pad":   "~/dev/left-pad",
		"@scope/ui":  "../ui",
		"lodash.get": "../lodash.get",
	}

	data, err := config.Generate(manifest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[manifest]")

	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, manifest, cfg.Manifest)
}

func TestGenerateEmpty(t *testing.T) {
	data, err := config.Generate(nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# deplink configuration.")
}
