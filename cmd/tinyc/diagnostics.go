package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/raymyers/tinyc/pkg/diag"
)

// Color palette for terminal output
var (
	colorError = lipgloss.Color("#EF4444") // Red
	colorValue = lipgloss.Color("#06B6D4") // Cyan
	colorMuted = lipgloss.Color("#6B7280") // Gray
)

// reportedError marks an error whose diagnostic was already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// diagnostics prints errors as `<file>:<line>:<col>: <family> error: <message>`.
// Styling follows the capabilities of w, so a non-terminal gets plain text.
type diagnostics struct {
	w        io.Writer
	filename string

	location lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	muted    lipgloss.Style
}

func newDiagnostics(w io.Writer, filename string) *diagnostics {
	r := lipgloss.NewRenderer(w)
	return &diagnostics{
		w:        w,
		filename: filename,
		location: r.NewStyle().Bold(true),
		label:    r.NewStyle().Foreground(colorError).Bold(true),
		value:    r.NewStyle().Foreground(colorValue),
		muted:    r.NewStyle().Foreground(colorMuted),
	}
}

// format renders err without printing it
func (d *diagnostics) format(err error) string {
	var de *diag.Error
	if !errors.As(err, &de) {
		return fmt.Sprintf("%s %s", d.label.Render("tinyc: error:"), err)
	}
	loc := d.filename
	if de.Pos.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d", loc, de.Pos.Line, de.Pos.Column)
	}
	label := fmt.Sprintf("%s error:", de.Family())
	return fmt.Sprintf("%s %s %s", d.location.Render(loc+":"), d.label.Render(label), de.Message())
}

// report prints err and marks it as reported
func (d *diagnostics) report(err error) error {
	fmt.Fprintln(d.w, d.format(err))
	return &reportedError{err}
}
