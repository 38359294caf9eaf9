package paths

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/mitchellh/go-homedir"
)

// EnvHome is the standard home directory variable
const EnvHome = "HOME"

// HomeDirFunc resolves the current user's home directory
type HomeDirFunc func() (string, error)

// DefaultHomeDir resolves the home directory through go-homedir, falling
// back to $HOME when the lookup fails.
func DefaultHomeDir() (string, error) {
	home, err := homedir.Dir()
	if err == nil && home != "" {
		return home, nil
	}
	if env := os.Getenv(EnvHome); env != "" {
		return env, nil
	}
	return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine home directory")
}

// hasHomePrefix reports whether p starts with a `~` that stands for the
// home directory: the tilde must be followed by end of string or a path
// separator. `~foo` names another user's home and is left alone.
func hasHomePrefix(p string) bool {
	if p == "" || p[0] != '~' {
		return false
	}
	return len(p) == 1 || p[1] == '/' || p[1] == '\\'
}

// ExpandHome replaces a leading `~` with the home directory returned by home
func ExpandHome(p string, home HomeDirFunc) (string, error) {
	if !hasHomePrefix(p) {
		return p, nil
	}
	if home == nil {
		home = DefaultHomeDir
	}
	dir, err := home()
	if err != nil {
		return "", err
	}
	if len(p) == 1 {
		return dir, nil
	}
	return filepath.Join(dir, p[2:]), nil
}

// Normalize expands `~`, resolves p against base when relative and returns
// a cleaned absolute path.
func Normalize(p, base string, home HomeDirFunc) (string, error) {
	expanded, err := ExpandHome(p, home)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(base, expanded)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", p)
	}
	return filepath.Clean(abs), nil
}
