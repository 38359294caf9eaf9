package status

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Reporter receives display text. Reports supersede earlier ones and
// delivery never fails from the caller's point of view.
type Reporter interface {
	Report(text string)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(text string)

// Report calls f(text)
func (f ReporterFunc) Report(text string) {
	f(text)
}

// Discard drops every report
var Discard Reporter = ReporterFunc(func(string) {})

// Terminal writes reports to a writer, redrawing in place on a TTY
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	out    *termenv.Output
	redraw bool
	lines  int
}

// NewTerminal creates a reporter writing to w. Redrawing is enabled when
// w is a terminal.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		w:      w,
		out:    termenv.NewOutput(w),
		redraw: isTerminal(w),
	}
}

// Report replaces the previous report with text
func (t *Terminal) Report(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	text = strings.TrimRight(text, "\n")
	if t.redraw && t.lines > 0 {
		t.out.ClearLines(t.lines)
	}
	// write errors are not the engine's concern
	_, _ = fmt.Fprintln(t.w, text)
	t.lines = strings.Count(text, "\n") + 1
}

// Lines returns how many lines the last report occupied
func (t *Terminal) Lines() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lines
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
