// Package term resolves whether console output should carry ANSI colors
// and holds the palette used by the prompt and the console report.
package term

import (
	"io"
	"os"
	"strings"

	xterm "golang.org/x/term"
)

// Color modes accepted in configuration and on the command line.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// Palette holds ANSI sequences. Every field is empty when colors are off,
// so concatenation degrades to plain text.
type Palette struct {
	Test, Actual, Both string

	Count        string
	ErrorCount   string
	WarningCount string
	ErrorHeader  string
	WarnHeader   string
	File         string
	Category     string

	Reset string
}

// Colors is the palette used when colors are enabled.
var Colors = Palette{
	Test:         "\033[92m",
	Actual:       "\033[94m",
	Both:         "\033[96m",
	Count:        "\033[35m",
	ErrorCount:   "\033[31m",
	WarningCount: "\033[33m",
	ErrorHeader:  "\033[41m",
	WarnHeader:   "\033[43m",
	File:         "\033[92m",
	Category:     "\033[34m",
	Reset:        "\033[0m",
}

// Plain is the empty palette.
var Plain = Palette{}

// Enabled reports whether the palette emits any escape sequences.
func (p Palette) Enabled() bool { return p.Reset != "" }

// Resolve picks the palette for mode and destination w. Auto mode colors
// only a terminal, and honours NO_COLOR (https://no-color.org) and TERM=dumb.
func Resolve(mode string, w io.Writer) Palette {
	switch strings.ToLower(mode) {
	case ModeAlways:
		return Colors
	case ModeNever:
		return Plain
	}
	if os.Getenv("NO_COLOR") != "" || strings.ToLower(os.Getenv("TERM")) == "dumb" {
		return Plain
	}
	if IsTerminal(w) {
		return Colors
	}
	return Plain
}

// IsTerminal reports whether w is an *os.File attached to a TTY.
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return xterm.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
