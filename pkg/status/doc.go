// Package status displays what the mirror engine is doing.
//
// The engine only emits text through a Reporter. Terminal is the
// interactive reporter: on a TTY it erases its previous report before
// printing the next one so the display stays in place, otherwise it just
// appends. Board renders the text the watch command reports.
package status
