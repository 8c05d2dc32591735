// Package scope turns the operator's T/A/B choice and the paths file into
// the folders each pipeline stage scans.
package scope

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sydlexius/profilescan/internal/config"
	"github.com/sydlexius/profilescan/internal/term"
)

// Scope selects which folder set(s) a run processes.
type Scope string

// Recognized scopes.
const (
	Test   Scope = "T"
	Actual Scope = "A"
	Both   Scope = "B"
)

// ErrInvalidScope is returned by Parse for anything other than T, A or B.
var ErrInvalidScope = errors.New("invalid scope")

// Parse accepts T, A or B in any case, ignoring surrounding whitespace.
func Parse(s string) (Scope, error) {
	switch sc := Scope(strings.ToUpper(strings.TrimSpace(s))); sc {
	case Test, Actual, Both:
		return sc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
}

// Label is the human name used in the "Scanning ... folder(s)" banner.
func (s Scope) Label() string {
	switch s {
	case Test:
		return "Test"
	case Actual:
		return "Actual"
	default:
		return "Both"
	}
}

// Prompt asks on out until a valid scope is read from in.
func Prompt(ctx context.Context, in io.Reader, out io.Writer, p term.Palette) (Scope, error) {
	r := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(out, "Scan Test (%sT%s), Actual (%sA%s), or Both (%sB%s)? ", //nolint:errcheck
			p.Test, p.Reset, p.Actual, p.Reset, p.Both, p.Reset)

		line, err := r.ReadString('\n')
		if sc, parseErr := Parse(line); parseErr == nil {
			return sc, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("reading scope: %w", io.ErrUnexpectedEOF)
			}
			return "", fmt.Errorf("reading scope: %w", err)
		}
		fmt.Fprintln(out, "Invalid choice, please enter T, A, or B.") //nolint:errcheck
	}
}

// Targets lists the folders to scan for each stage. An entry may be empty
// when its key is missing from the paths file; discovery yields nothing
// for it.
type Targets struct {
	ProfileDirs []string
	ImageDirs   []string
}

// Resolve maps a scope onto the paths table. Both scans test before actual.
func Resolve(s Scope, paths map[string]string) Targets {
	switch s {
	case Test:
		return Targets{
			ProfileDirs: []string{paths[config.KeyProfilesTest]},
			ImageDirs:   []string{paths[config.KeyHighwaysTest]},
		}
	case Actual:
		return Targets{
			ProfileDirs: []string{paths[config.KeyProfilesActual]},
			ImageDirs:   []string{paths[config.KeyHighwaysActual]},
		}
	default:
		return Targets{
			ProfileDirs: []string{paths[config.KeyProfilesTest], paths[config.KeyProfilesActual]},
			ImageDirs:   []string{paths[config.KeyHighwaysTest], paths[config.KeyHighwaysActual]},
		}
	}
}
