package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/deplink/pkg/config"
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/logging"
)

// InitOptions defines the options for the Init command
type InitOptions struct {
	// Dir receives the configuration file; empty means the working directory
	Dir string
	// Entries are name=path pairs
	Entries []string
	// Force overwrites an existing file
	Force bool
}

// InitResult reports the written configuration
type InitResult struct {
	Path     string
	Manifest map[string]string
}

// Init writes a starter deplink.config.toml
func Init(opts InitOptions) (*InitResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Init").Msg("Executing command")

	dir, err := projectRoot(opts.Dir)
	if err != nil {
		return nil, err
	}

	manifest, err := ParseEntries(opts.Entries)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, config.DefaultFileName)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s already exists", path).
			WithDetail("path", path)
	}

	data, err := config.Generate(manifest)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", path).
			WithDetail("path", path)
	}

	log.Info().Str("command", "Init").Str("path", path).Msg("Command finished")
	return &InitResult{Path: path, Manifest: manifest}, nil
}

// ParseEntries turns name=path arguments into a manifest
func ParseEntries(entries []string) (map[string]string, error) {
	manifest := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, source, ok := strings.Cut(entry, "=")
		name, source = strings.TrimSpace(name), strings.TrimSpace(source)
		if !ok || name == "" || source == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid entry %q, expected name=path", entry).
				WithDetail("entry", entry)
		}
		if _, dup := manifest[name]; dup {
			return nil, errors.Newf(errors.ErrInvalidInput, "package %s listed twice", name).
				WithDetail("entry", entry)
		}
		manifest[name] = source
	}
	return manifest, nil
}
