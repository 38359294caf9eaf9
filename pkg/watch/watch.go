// Package watch delivers change notifications for a directory tree.
//
// fsnotify watches single directories, so the watcher registers every
// directory below the root that the filter keeps, and registers new
// directories as they appear. Events are coalesced: everything arriving
// within the debounce window becomes one Notification, and while the
// consumer has not taken the previous notification further events are
// merged into the pending one.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when Options.Debounce is zero
const DefaultDebounce = 100 * time.Millisecond

// Filter excludes paths from watching. Paths are absolute.
type Filter interface {
	ExcludesPath(path string, isDir bool) bool
}

// Notification reports that something changed under the watched root
type Notification struct {
	// Paths lists the distinct paths seen in this batch, sorted
	Paths []string
	// At is when the batch was flushed
	At time.Time
}

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
}

// Watcher is the fsnotify-backed watch service
type Watcher struct {
	debounce time.Duration
	logger   zerolog.Logger
}

// New creates a watcher
func New(opts Options) *Watcher {
	d := opts.Debounce
	if d <= 0 {
		d = DefaultDebounce
	}
	return &Watcher{
		debounce: d,
		logger:   logging.GetLogger("watch"),
	}
}

// Watch starts watching root and returns the notification stream. The
// channel is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, root string, filter Filter) (<-chan Notification, error) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrWatchFailed, "cannot watch %s", root).
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrWatchFailed, "cannot watch %s: not a directory", root).
			WithDetail("root", root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatchFailed, "failed to create filesystem watcher")
	}

	s := &stream{
		root:     root,
		filter:   filter,
		fw:       fw,
		debounce: w.debounce,
		dirs:     make(map[string]bool),
		pending:  make(map[string]struct{}),
		out:      make(chan Notification, 1),
		logger:   w.logger.With().Str("root", root).Logger(),
	}
	if err := s.addTree(root); err != nil {
		_ = fw.Close()
		return nil, errors.Wrapf(err, errors.ErrWatchFailed, "cannot watch %s", root).
			WithDetail("root", root)
	}

	s.logger.Debug().Int("directories", len(s.dirs)).Msg("Watching")
	go s.run(ctx)
	return s.out, nil
}

// stream is the state of one Watch call, owned by its run goroutine
type stream struct {
	root     string
	filter   Filter
	fw       *fsnotify.Watcher
	debounce time.Duration
	dirs     map[string]bool
	pending  map[string]struct{}
	out      chan Notification
	logger   zerolog.Logger
}

func (s *stream) excluded(path string, isDir bool) bool {
	if path == s.root {
		return false
	}
	return s.filter != nil && s.filter.ExcludesPath(path, isDir)
}

// addTree registers dir and every non-excluded directory below it
func (s *stream) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			// entries can vanish while walking
			s.logger.Debug().Err(err).Str("path", path).Msg("Skipping unreadable path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if s.excluded(path, true) {
			return filepath.SkipDir
		}
		if s.dirs[path] {
			return nil
		}
		if err := s.fw.Add(path); err != nil {
			if path == dir {
				return err
			}
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch directory")
			return nil
		}
		s.dirs[path] = true
		return nil
	})
}

func (s *stream) run(ctx context.Context) {
	defer close(s.out)
	defer s.fw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	arm := func() {
		if fire == nil {
			timer = time.NewTimer(s.debounce)
			fire = timer.C
		}
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-s.fw.Events:
			if !ok {
				return
			}
			if s.handle(ev) {
				arm()
			}

		case err, ok := <-s.fw.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("Filesystem watcher error")

		case <-fire:
			fire = nil
			if !s.flush() {
				// consumer still busy with the previous batch
				arm()
			}
		}
	}
}

// handle records ev and reports whether it is part of the mirror
func (s *stream) handle(ev fsnotify.Event) bool {
	path := filepath.Clean(ev.Name)

	isDir := s.dirs[path]
	if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Chmod) {
		if info, err := os.Lstat(path); err == nil {
			isDir = info.IsDir()
		}
	}

	if s.excluded(path, isDir) {
		s.logger.Trace().Str("path", path).Str("op", ev.Op.String()).Msg("Ignoring excluded path")
		return false
	}

	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		for dir := range s.dirs {
			if dir == path || isWithin(path, dir) {
				delete(s.dirs, dir)
			}
		}
	}
	if ev.Has(fsnotify.Create) && isDir {
		if err := s.addTree(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch new directory")
		}
	}

	s.logger.Trace().Str("path", path).Str("op", ev.Op.String()).Msg("Change detected")
	s.pending[path] = struct{}{}
	return true
}

// flush hands the pending batch to the consumer without blocking
func (s *stream) flush() bool {
	if len(s.pending) == 0 {
		return true
	}
	n := Notification{At: time.Now()}
	for p := range s.pending {
		n.Paths = append(n.Paths, p)
	}
	sort.Strings(n.Paths)

	select {
	case s.out <- n:
		s.pending = make(map[string]struct{})
		return true
	default:
		return false
	}
}

// isWithin reports whether path lies below dir
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
