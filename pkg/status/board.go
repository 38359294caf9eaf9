package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/deplink/pkg/style"
)

// Display messages
const (
	MsgWatching   = "Watching dependencies:"
	MsgLastChange = "Last change detected in: %s"
	MsgTimestamp  = "Timestamp: %s"
	MsgWarnings   = "Warnings:"
	MsgFailure    = "Failed to sync %s: %v"
)

// TimeFormat is used for the board timestamp
const TimeFormat = "2006-01-02 15:04:05"

// Entry is one watched package on the board
type Entry struct {
	Name   string
	Source string
	State  string
}

// Board is the watch display: the watched packages, the most recent
// change and the accumulated warnings
type Board struct {
	Entries    []Entry
	LastChange string
	At         time.Time
	Warnings   []string
	Failures   []string
}

// Render returns the board text
func (b Board) Render() string {
	var lines []string

	lines = append(lines, style.TitleStyle.Render(MsgWatching))
	for _, e := range b.Entries {
		line := fmt.Sprintf("  %s %s", style.PackageStyle.Render(e.Name), style.PathStyle.Render(e.Source))
		if e.State != "" {
			line += " " + style.MutedStyle.Render("("+e.State+")")
		}
		lines = append(lines, line)
	}

	if b.LastChange != "" {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf(MsgLastChange, style.PackageStyle.Render(b.LastChange)))
		if !b.At.IsZero() {
			lines = append(lines, style.MutedStyle.Render(fmt.Sprintf(MsgTimestamp, b.At.Format(TimeFormat))))
		}
	}

	for _, f := range b.Failures {
		lines = append(lines, style.ErrorIndicator+" "+style.ErrorStyle.Render(f))
	}

	if len(b.Warnings) > 0 {
		lines = append(lines, "")
		lines = append(lines, style.WarningStyle.Render(MsgWarnings))
		for _, w := range b.Warnings {
			lines = append(lines, style.WarningIndicator+" "+style.WarningStyle.Render(w))
		}
	}

	return strings.Join(lines, "\n")
}
