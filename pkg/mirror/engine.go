package mirror

import (
	"context"
	"fmt"
	"sync"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/filesystem"
	"github.com/arthur-debert/deplink/pkg/ignore"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/manifest"
	"github.com/arthur-debert/deplink/pkg/status"
	"github.com/arthur-debert/deplink/pkg/style"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// MsgSynced is reported per target by SyncAll
const MsgSynced = "%s %s -> %s"

// Engine runs the sessions of every target and reports their progress
type Engine struct {
	reporter status.Reporter
	logger   zerolog.Logger

	// reportMu keeps snapshots and reports in the same order
	reportMu sync.Mutex

	mu    sync.Mutex
	board status.Board
	index map[string]int
	fails map[string]string
}

// NewEngine creates an engine reporting to reporter. Warnings are shown
// alongside every report.
func NewEngine(reporter status.Reporter, warnings []*errors.DeplinkError) *Engine {
	if reporter == nil {
		reporter = status.Discard
	}
	e := &Engine{
		reporter: reporter,
		logger:   logging.GetLogger("mirror"),
		index:    make(map[string]int),
		fails:    make(map[string]string),
	}
	for _, w := range warnings {
		e.board.Warnings = append(e.board.Warnings, w.Message)
	}
	return e
}

// Plan builds one session per target, compiling each target's ignore
// predicate exactly once. Problems reading ignore sources come back as
// warnings.
func Plan(targets []manifest.Target, fsys filesystem.FS, w Watcher, c Copier) ([]*Session, []*errors.DeplinkError) {
	builder := ignore.NewBuilder(fsys)

	var sessions []*Session
	var warnings []*errors.DeplinkError
	for _, t := range targets {
		pred, warns := builder.Build(t.Source)
		warnings = append(warnings, warns...)
		sessions = append(sessions, NewSession(t, pred, w, c))
	}
	return sessions, warnings
}

// Run starts every session and blocks until ctx is cancelled and all of
// them stopped. Sessions that could not start are reported and their
// errors combined into the result; the remaining sessions keep running.
func (e *Engine) Run(ctx context.Context, sessions []*Session) error {
	e.reset(sessions)
	e.report()

	errs := make([]error, len(sessions))
	var g errgroup.Group
	for i, s := range sessions {
		i, s := i, s
		g.Go(func() error {
			if err := s.Run(ctx, e.handle); err != nil {
				e.fail(s.Target.Name, err)
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	return multierr.Combine(errs...)
}

// SyncAll copies every target once, concurrently, and returns the
// combined copy failures.
func (e *Engine) SyncAll(ctx context.Context, sessions []*Session) error {
	errs := make([]error, len(sessions))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range sessions {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			if err := s.Sync(); err != nil {
				errs[i] = err
				e.reporter.Report(style.ErrorIndicator + " " + fmt.Sprintf(status.MsgFailure, s.Target.Name, err))
				return nil
			}
			e.reporter.Report(fmt.Sprintf(MsgSynced, style.SuccessIndicator, s.Target.Name, s.Target.Destination))
			return nil
		})
	}
	_ = g.Wait()

	return multierr.Combine(errs...)
}

// Board returns a copy of the current board
func (e *Engine) Board() status.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.board
	b.Entries = append([]status.Entry(nil), e.board.Entries...)
	b.Warnings = append([]string(nil), e.board.Warnings...)
	b.Failures = e.failures()
	return b
}

func (e *Engine) reset(sessions []*Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.board.Entries = nil
	e.index = make(map[string]int)
	for i, s := range sessions {
		e.index[s.Target.Name] = i
		e.board.Entries = append(e.board.Entries, status.Entry{
			Name:   s.Target.Name,
			Source: s.Target.Source,
			State:  s.State().String(),
		})
	}
}

func (e *Engine) handle(ev Event) {
	e.mu.Lock()
	if i, ok := e.index[ev.Target]; ok {
		e.board.Entries[i].State = stateFor(ev.Kind).String()
	}
	switch ev.Kind {
	case EventSynced:
		delete(e.fails, ev.Target)
		if len(ev.Paths) > 0 {
			e.board.LastChange = ev.Target
			e.board.At = ev.At
		}
	case EventFailed:
		e.fails[ev.Target] = fmt.Sprintf(status.MsgFailure, ev.Target, ev.Err)
	}
	e.mu.Unlock()

	if ev.Kind == EventStopped {
		return
	}
	e.report()
}

func (e *Engine) fail(target string, err error) {
	e.mu.Lock()
	e.fails[target] = fmt.Sprintf(status.MsgFailure, target, err)
	e.mu.Unlock()
	e.report()
}

func (e *Engine) report() {
	e.reportMu.Lock()
	defer e.reportMu.Unlock()
	b := e.Board()
	e.reporter.Report(b.Render())
}

// failures must be called with e.mu held
func (e *Engine) failures() []string {
	var out []string
	for _, entry := range e.board.Entries {
		if msg, ok := e.fails[entry.Name]; ok {
			out = append(out, msg)
		}
	}
	return out
}

func stateFor(kind EventKind) State {
	switch kind {
	case EventStopped:
		return StateStopped
	default:
		return StateWatching
	}
}
