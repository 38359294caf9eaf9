package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/deplink/pkg/copier"
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/ignore"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/manifest"
	"github.com/arthur-debert/deplink/pkg/watch"
	"github.com/rs/zerolog"
)

// Watcher is the watch service a session subscribes to
type Watcher interface {
	Watch(ctx context.Context, root string, filter watch.Filter) (<-chan watch.Notification, error)
}

// Copier is the copy service a session mirrors with
type Copier interface {
	Copy(src, dest string, filter copier.Filter) error
}

// State is the lifecycle state of a session
type State int

const (
	StateStarting State = iota
	StateWatching
	StateSyncing
	StateStopped
)

// String returns the display name of the state
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateWatching:
		return "watching"
	case StateSyncing:
		return "syncing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// EventKind classifies session events
type EventKind int

const (
	EventWatching EventKind = iota
	EventSynced
	EventFailed
	EventStopped
)

// Event is emitted by a running session
type Event struct {
	Target string
	Kind   EventKind
	// Paths that triggered a sync; empty for the initial sync
	Paths []string
	At    time.Time
	Err   error
}

// Session mirrors one target
type Session struct {
	Target    manifest.Target
	Predicate *ignore.Predicate

	watcher Watcher
	copier  Copier
	logger  zerolog.Logger

	mu       sync.Mutex
	state    State
	lastErr  error
	lastSync time.Time
}

// NewSession creates a session for target. The predicate is used for both
// watching and copying.
func NewSession(target manifest.Target, predicate *ignore.Predicate, w Watcher, c Copier) *Session {
	return &Session{
		Target:    target,
		Predicate: predicate,
		watcher:   w,
		copier:    c,
		logger:    logging.GetLogger("mirror").With().Str("package", target.Name).Logger(),
		state:     StateStarting,
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the most recent sync, nil after a
// successful one
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LastSync returns when the last successful sync finished
func (s *Session) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

func (s *Session) setState(state State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state = state
	return prev
}

// Sync copies the whole source tree to the destination once. A failure
// is recorded and returned; the session stays usable.
func (s *Session) Sync() error {
	prev := s.setState(StateSyncing)

	err := s.copier.Copy(s.Target.Source, s.Target.Destination, s.Predicate)

	s.mu.Lock()
	s.state = prev
	if prev == StateSyncing {
		s.state = StateWatching
	}
	s.lastErr = err
	if err == nil {
		s.lastSync = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("Sync failed")
		return err
	}
	s.logger.Info().Str("destination", s.Target.Destination).Msg("Synced")
	return nil
}

// Run watches the source and syncs on every notification until ctx is
// cancelled. It only returns an error when the watch cannot be set up.
func (s *Session) Run(ctx context.Context, emit func(Event)) error {
	if emit == nil {
		emit = func(Event) {}
	}
	defer func() {
		s.setState(StateStopped)
		emit(Event{Target: s.Target.Name, Kind: EventStopped, At: time.Now()})
	}()

	s.setState(StateStarting)
	notifications, err := s.watcher.Watch(ctx, s.Target.Source, s.Predicate)
	if err != nil {
		s.logger.Error().Err(err).Msg("Cannot watch source")
		return errors.Wrapf(err, errors.ErrWatchFailed, "cannot watch %s", s.Target.Name).
			WithDetail("package", s.Target.Name).
			WithDetail("source", s.Target.Source)
	}

	s.setState(StateWatching)
	s.logger.Info().Str("source", s.Target.Source).Msg("Watching")
	emit(Event{Target: s.Target.Name, Kind: EventWatching, At: time.Now()})

	s.syncAndEmit(nil, time.Now(), emit)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			s.logger.Debug().Strs("paths", n.Paths).Msg("Change detected")
			s.syncAndEmit(n.Paths, n.At, emit)
		}
	}
}

func (s *Session) syncAndEmit(paths []string, at time.Time, emit func(Event)) {
	ev := Event{Target: s.Target.Name, Kind: EventSynced, Paths: paths, At: at}
	if err := s.Sync(); err != nil {
		ev.Kind = EventFailed
		ev.Err = err
	}
	emit(ev)
}
