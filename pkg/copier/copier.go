// Package copier mirrors a package directory into its install location.
//
// Copies are additive: files are created or overwritten, and nothing in
// the destination is removed unless a source entry replaces it. A symlink
// standing where the mirror directory should be (left behind by a package
// manager link) is replaced, as are links and read-only files the copy
// writes over.
package copier

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/otiai10/copy"
	"github.com/rs/zerolog"
)

// Filter excludes paths from the copy. Paths are absolute source paths.
type Filter interface {
	ExcludesPath(path string, isDir bool) bool
}

// Copier is the otiai10/copy-backed copy service
type Copier struct {
	logger zerolog.Logger
}

// New creates a copier
func New() *Copier {
	return &Copier{logger: logging.GetLogger("copier")}
}

// Copy recursively copies src into dest, skipping whatever filter excludes.
// Symlinks inside src are copied as links.
func (c *Copier) Copy(src, dest string, filter Filter) (err error) {
	logger := c.logger.With().Str("source", src).Str("destination", dest).Logger()
	finish := logging.Track(logger, "copy")
	defer func() { finish(err) }()

	src = filepath.Clean(src)
	dest = filepath.Clean(dest)

	info, err := os.Stat(src)
	if err != nil {
		return copyError(err, src, dest, "cannot read source")
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrCopyFailed, "source %s is not a directory", src).
			WithDetail("source", src).
			WithDetail("destination", dest)
	}

	if err := removeLink(dest); err != nil {
		return copyError(err, src, dest, "cannot replace linked destination")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return copyError(err, src, dest, "cannot create destination parent")
	}

	var skipped int
	opts := copy.Options{
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
		OnDirExists: func(string, string) copy.DirExistsAction {
			return copy.Merge
		},
		Skip: func(srcinfo os.FileInfo, path, target string) (bool, error) {
			if path == src {
				return false, nil
			}
			if filter != nil && filter.ExcludesPath(path, srcinfo.IsDir()) {
				skipped++
				return true, nil
			}
			return false, clearTarget(srcinfo, target)
		},
	}

	if err := copy.Copy(src, dest, opts); err != nil {
		return copyError(err, src, dest, "copy failed")
	}

	logger.Debug().Int("skipped", skipped).Msg("Copied package")
	return nil
}

// removeLink deletes dest when it is a symlink. A real directory is kept.
func removeLink(dest string) error {
	info, err := os.Lstat(dest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	return os.Remove(dest)
}

// clearTarget unlinks whatever stands at target when it cannot be written
// over in place: any existing entry when the source is a symlink, and a
// symlink or read-only file when the source is a regular file. Directories
// are merged and never removed.
func clearTarget(srcinfo os.FileInfo, target string) error {
	if srcinfo.IsDir() {
		return nil
	}
	info, err := os.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	linked := info.Mode()&os.ModeSymlink != 0
	readOnly := info.Mode().Perm()&0200 == 0
	if srcinfo.Mode()&os.ModeSymlink != 0 || linked || readOnly {
		return os.Remove(target)
	}
	return nil
}

func copyError(err error, src, dest, msg string) *errors.DeplinkError {
	return errors.Wrapf(err, errors.ErrCopyFailed, "%s: %s -> %s", msg, src, dest).
		WithDetail("source", src).
		WithDetail("destination", dest)
}
