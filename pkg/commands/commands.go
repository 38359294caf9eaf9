// Package commands implements the deplink commands on top of the core
// packages. Each command takes an options struct and returns a result the
// CLI renders; nothing here writes to the terminal directly.
package commands

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/deplink/pkg/config"
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/filesystem"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/manifest"
	"github.com/arthur-debert/deplink/pkg/project"
)

// Options are shared by every command that reads the configuration
type Options struct {
	// ConfigPath is an explicit configuration file; empty searches upward
	// from ProjectDir
	ConfigPath string
	// ProjectDir is the consumer project; empty means the working directory
	ProjectDir string
	// FS reads package descriptors and ignore files; nil means the OS
	FS filesystem.FS
}

// Plan is the resolved input of a mirror run
type Plan struct {
	Config      *config.Config
	ProjectRoot string
	Targets     []manifest.Target
	Warnings    []*errors.DeplinkError
}

// Prepare loads the configuration, reads the consumer's package.json and
// resolves the manifest. Configuration problems are returned as errors
// for which errors.IsConfigurationError holds.
func Prepare(opts Options) (*Plan, error) {
	log := logging.GetLogger("commands")

	root, err := projectRoot(opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.Search(root)
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("config", cfg.Path).Int("entries", len(cfg.Manifest)).Msg("Configuration loaded")

	plan := &Plan{Config: cfg, ProjectRoot: root}

	consumer, err := project.Load(fsOrOS(opts.FS), root)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot read consumer package.json")
		plan.Warnings = append(plan.Warnings, errors.Wrapf(err, errors.ErrProjectRead,
			"cannot read %s, no dependency is considered declared",
			filepath.Join(root, project.DescriptorFile)))
	}

	targets, warnings, err := manifest.NewResolver().Resolve(cfg, consumer, root)
	if err != nil {
		return nil, err
	}
	plan.Targets = targets
	plan.Warnings = append(plan.Warnings, warnings...)

	log.Info().Int("targets", len(targets)).Int("warnings", len(plan.Warnings)).Msg("Manifest resolved")
	return plan, nil
}

func projectRoot(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine working directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid project directory %s", dir)
	}
	return abs, nil
}

func fsOrOS(fsys filesystem.FS) filesystem.FS {
	if fsys == nil {
		return filesystem.NewOS()
	}
	return fsys
}
