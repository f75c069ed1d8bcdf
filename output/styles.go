// Package output provides styling helpers for terminal output.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode selects when styles emit escape sequences.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Styles renders journal elements and report text for a terminal.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates styles for w, colored only when w is a terminal.
func NewStyles(w io.Writer) *Styles {
	return NewStylesWithMode(w, ColorAuto)
}

// NewStylesWithMode creates styles for w using the given color mode.
func NewStylesWithMode(w io.Writer, mode ColorMode) *Styles {
	profile := termenv.Ascii
	switch mode {
	case ColorAlways:
		profile = termenv.ANSI256
	case ColorAuto:
		if IsTerminal(w) {
			profile = termenv.EnvColorProfile()
		}
	}
	return &Styles{output: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Colored reports whether the styles emit escape sequences.
func (s *Styles) Colored() bool {
	return s.output.Profile != termenv.Ascii
}

// Account returns yellow text.
func (s *Styles) Account(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		String()
}

// Amount returns magenta text.
func (s *Styles) Amount(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("5")).
		String()
}

// Keyword returns bold text.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Dim returns faint text for secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Timing returns a duration, red when the operation was slow and dim otherwise.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.output.String(text).
			Foreground(s.output.Color("1")).
			String()
	}
	return s.Dim(text)
}
