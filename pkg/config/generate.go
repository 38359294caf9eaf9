package config

import (
	"bytes"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the file written by Generate's callers
const DefaultFileName = "deplink.config.toml"

const generatedHeader = `# deplink configuration.
#
# [manifest] maps package names to their local source directories. Paths are
# relative to this file; a leading "~" stands for your home directory.
#
# debounce = "100ms"          # coalescing window for filesystem events
# install_dir = "node_modules"

`

type generatedFile struct {
	Manifest map[string]string `toml:"manifest"`
}

// Generate renders a starter TOML configuration for manifest
func Generate(manifest map[string]string) ([]byte, error) {
	if manifest == nil {
		manifest = map[string]string{}
	}
	body, err := toml.Marshal(generatedFile{Manifest: manifest})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}

	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	buf.Write(body)
	return buf.Bytes(), nil
}
