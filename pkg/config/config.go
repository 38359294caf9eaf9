package config

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/deplink/pkg/errors"
)

// Config is the validated deplink configuration
type Config struct {
	// Manifest maps package names to their local source directories
	Manifest map[string]string `koanf:"manifest"`

	// Debounce coalesces filesystem events arriving within this window
	Debounce time.Duration `koanf:"debounce"`

	// InstallDir is the consumer's dependency-install directory
	InstallDir string `koanf:"install_dir"`

	// Path is the configuration file the values were read from
	Path string `koanf:"-"`

	// Dir is the directory holding Path; manifest paths are relative to it
	Dir string `koanf:"-"`
}

// Names returns the manifest's package names, sorted
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Manifest))
	for name := range c.Manifest {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the configuration once after loading
func (c *Config) Validate() error {
	if len(c.Manifest) == 0 {
		return errors.Newf(errors.ErrManifestEmpty, "no packages listed in the manifest of %s", c.Path).
			WithDetail("path", c.Path)
	}
	for name, source := range c.Manifest {
		if strings.TrimSpace(name) == "" {
			return errors.New(errors.ErrConfigInvalid, "manifest contains an empty package name").
				WithDetail("path", c.Path)
		}
		if err := CheckPackageName(name); err != nil {
			return errors.Wrapf(err, errors.ErrConfigInvalid, "invalid package name %q in manifest", name).
				WithDetail("path", c.Path).
				WithDetail("package", name)
		}
		if strings.TrimSpace(source) == "" {
			return errors.Newf(errors.ErrConfigInvalid, "manifest entry %q has no source path", name).
				WithDetail("path", c.Path)
		}
	}
	if c.Debounce < 0 {
		return errors.Newf(errors.ErrConfigInvalid, "debounce must not be negative, got %s", c.Debounce)
	}
	if strings.TrimSpace(c.InstallDir) == "" {
		return errors.New(errors.ErrConfigInvalid, "install_dir must not be empty")
	}
	return nil
}

// CheckPackageName rejects names that would not stay inside the install
// directory once joined to it: absolute names, empty segments and "." or
// ".." segments. Scoped names such as "@scope/pkg" are allowed.
func CheckPackageName(name string) error {
	if strings.ContainsRune(name, '\\') {
		return fmt.Errorf("backslash in package name")
	}
	if path.IsAbs(name) {
		return fmt.Errorf("package name is absolute")
	}
	for _, segment := range strings.Split(name, "/") {
		switch segment {
		case "":
			return fmt.Errorf("empty path segment")
		case ".", "..":
			return fmt.Errorf("%q path segment", segment)
		}
	}
	return nil
}
