// Package profile parses color profiles and checks them against the fixed
// set of required note colors.
package profile

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
)

// RequiredFields must be present with a valid hex color in every profile.
var RequiredFields = []string{
	"note_green",
	"note_red",
	"note_yellow",
	"note_blue",
	"note_orange",
	"note_sp_active",
	"note_open",
}

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether v is "#" followed by exactly six hex digits.
func IsHexColor(v string) bool {
	return hexPattern.MatchString(v)
}

func isRequired(key string) bool {
	for _, r := range RequiredFields {
		if r == key {
			return true
		}
	}
	return false
}

// Result holds the findings for one profile.
type Result struct {
	File     string
	Errors   Findings
	Warnings Findings
}

// Validate checks f. Required fields are searched section by section and
// the first section holding the field decides its outcome; later sections
// are not consulted for that field. Every other non-empty field must also
// be a hex color, but a failure there is only a warning.
func Validate(f *File) Result {
	res := Result{File: f.Name}

	for _, field := range RequiredFields {
		found := false
		for _, sec := range f.Sections {
			v, ok := sec.Lookup(field)
			if !ok {
				continue
			}
			found = true
			if !IsHexColor(strings.TrimSpace(v)) {
				res.Errors.add(CategoryInvalidHex, field)
			}
			break
		}
		if !found {
			res.Errors.add(CategoryMissing, field)
		}
	}

	for _, sec := range f.Sections {
		for _, kv := range sec.Keys {
			if isRequired(kv.Key) {
				continue
			}
			v := strings.TrimSpace(kv.Value)
			if v != "" && !IsHexColor(v) {
				res.Warnings.add(CategoryInvalidHex, kv.Key)
			}
		}
	}

	return res
}

// Check loads and validates the profile at path. A profile that cannot be
// read or parsed yields a single parse-error warning and no errors.
func Check(path string) Result {
	f, err := Load(path)
	if err != nil {
		res := Result{File: filepath.Base(path)}
		res.Warnings.add(CategoryParseError, err.Error())
		return res
	}
	return Validate(f)
}

// Report aggregates results keyed by profile basename. Only files with at
// least one finding in a category appear in that category's map.
type Report struct {
	Errors   FileFindings
	Warnings FileFindings
}

// ValidateAll checks every path in order.
func ValidateAll(paths []string, logger *slog.Logger) *Report {
	rep := &Report{}
	for _, p := range paths {
		res := Check(p)

		if len(res.Errors) > 0 {
			rep.Errors.Set(res.File, res.Errors)
		}
		if len(res.Warnings) > 0 {
			rep.Warnings.Set(res.File, res.Warnings)
		}
		logger.Debug("validated profile",
			slog.String("file", p),
			slog.Int("errors", res.Errors.Count()),
			slog.Int("warnings", res.Warnings.Count()))
	}
	return rep
}
