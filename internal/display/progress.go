// Package display prints the user-facing result lines of mark and unmark on
// stdout. Diagnostics go through the logger package instead.
package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Progress prints one line per successfully processed file.
type Progress struct {
	writer      io.Writer
	colorOutput bool
}

// NewProgress creates a Progress writing to w. When colorOutput is set the
// action word is printed in green.
func NewProgress(w io.Writer, colorOutput bool) *Progress {
	return &Progress{
		writer:      w,
		colorOutput: colorOutput,
	}
}

// Marked reports that name was marked.
func (p *Progress) Marked(name string) {
	p.done(name, "marked")
}

// Unmarked reports that name was unmarked.
func (p *Progress) Unmarked(name string) {
	p.done(name, "unmarked")
}

// done prints "<name> <action> successfully."
func (p *Progress) done(name, action string) {
	if p == nil || p.writer == nil {
		return
	}
	if p.colorOutput {
		c := color.New(color.FgGreen)
		c.EnableColor()
		action = c.Sprint(action)
	}
	fmt.Fprintf(p.writer, "%s %s successfully.\n", name, action)
}
