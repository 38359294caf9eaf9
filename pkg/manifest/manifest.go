// Package manifest turns the configured manifest into link targets: one
// {name, source, destination} triple per entry, with sources resolved
// against the configuration file's directory and destinations under the
// consumer's install directory.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/deplink/pkg/config"
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/paths"
	"github.com/arthur-debert/deplink/pkg/project"
)

// Target is one dependency being mirrored. Source and Destination are
// absolute and cleaned.
type Target struct {
	Name        string `json:"name" yaml:"name"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// Resolver builds targets from a validated configuration
type Resolver struct {
	// HomeDir expands a leading "~" in manifest paths
	HomeDir paths.HomeDirFunc
}

// NewResolver creates a resolver using the current user's home directory
func NewResolver() *Resolver {
	return &Resolver{HomeDir: paths.DefaultHomeDir}
}

// Resolve returns one target per manifest entry, sorted by name. Entries
// the consumer does not declare as a dependency or devDependency are kept
// and reported as warnings. consumer may be nil when the consumer's
// package.json could not be read.
func (r *Resolver) Resolve(cfg *config.Config, consumer *project.Descriptor, projectRoot string) ([]Target, []*errors.DeplinkError, error) {
	logger := logging.GetLogger("manifest")

	if cfg == nil || len(cfg.Manifest) == 0 {
		return nil, nil, errors.New(errors.ErrManifestEmpty, "nothing to link: the manifest is empty")
	}

	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrFileAccess, "invalid project path %s", projectRoot)
	}
	installDir := cfg.InstallDir
	if installDir == "" {
		installDir = "node_modules"
	}

	var (
		targets  []Target
		warnings []*errors.DeplinkError
	)
	for _, name := range cfg.Names() {
		source, err := paths.Normalize(cfg.Manifest[name], cfg.Dir, r.HomeDir)
		if err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrConfigInvalid, "cannot resolve source of %s", name).
				WithDetail("package", name)
		}
		if err := config.CheckPackageName(name); err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid package name %q", name).
				WithDetail("package", name)
		}
		modules := filepath.Clean(filepath.Join(root, installDir))
		dest := filepath.Join(modules, filepath.FromSlash(name))
		if rel, err := filepath.Rel(modules, dest); err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
			return nil, nil, errors.Newf(errors.ErrConfigInvalid, "%s resolves outside %s", name, modules).
				WithDetail("package", name)
		}

		if !consumer.Declares(name) {
			warnings = append(warnings, errors.Newf(errors.ErrUndeclaredDependency,
				"%s is not listed in dependencies or devDependencies of %s", name, root).
				WithDetail("package", name))
		}

		logger.Debug().
			Str("package", name).
			Str("source", source).
			Str("destination", dest).
			Msg("Resolved link target")

		targets = append(targets, Target{Name: name, Source: source, Destination: dest})
	}

	return targets, warnings, nil
}
