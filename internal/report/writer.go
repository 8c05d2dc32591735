package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sydlexius/profilescan/internal/filesystem"
	"github.com/sydlexius/profilescan/internal/image"
	"github.com/sydlexius/profilescan/internal/profile"
)

// document is the on-disk shape of the structured summary.
type document struct {
	ID            string               `json:"id"`
	Scope         string               `json:"scope"`
	Timestamp     string               `json:"timestamp"`
	Highways      []string             `json:"highways"`
	ColorProfiles []string             `json:"color_profiles"`
	Thumbnails    []image.Record       `json:"thumbnails"`
	Errors        profile.FileFindings `json:"errors"`
	Warnings      profile.FileFindings `json:"warnings"`
}

// Text renders the plain-text summary.
func Text(s *Summary) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Scan completed: %s\n", s.FormattedTimestamp())
	fmt.Fprintf(&buf, "Highways processed: %d\n", len(s.Highways))
	fmt.Fprintf(&buf, "Color profiles processed: %d\n", len(s.ColorProfiles))
	return buf.Bytes()
}

// JSON renders the structured summary with four-space indentation.
func JSON(s *Summary) ([]byte, error) {
	doc := document{
		ID:            s.ID,
		Scope:         s.Scope,
		Timestamp:     s.FormattedTimestamp(),
		Highways:      nonNil(s.Highways),
		ColorProfiles: nonNil(s.ColorProfiles),
		Thumbnails:    s.Thumbnails,
		Errors:        s.Errors,
		Warnings:      s.Warnings,
	}
	if doc.Thumbnails == nil {
		doc.Thumbnails = []image.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteText writes the plain-text summary to path atomically.
func WriteText(path string, s *Summary) error {
	if err := filesystem.WriteFileAtomic(path, Text(s), 0o644); err != nil {
		return fmt.Errorf("writing text summary: %w", err)
	}
	return nil
}

// WriteJSON writes the structured summary to path atomically.
func WriteJSON(path string, s *Summary) error {
	data, err := JSON(s)
	if err != nil {
		return err
	}
	if err := filesystem.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing json summary: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
