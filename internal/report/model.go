package report

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sydlexius/profilescan/internal/image"
	"github.com/sydlexius/profilescan/internal/profile"
)

// TimestampLayout renders local time with microseconds, e.g.
// "2026-10-18 09:14:03.512345".
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Summary is the aggregate outcome of one scan.
type Summary struct {
	ID            string
	Scope         string
	Timestamp     time.Time
	Highways      []string // image basenames, scan order
	ColorProfiles []string // profile basenames, scan order
	Thumbnails    []image.Record
	Errors        profile.FileFindings
	Warnings      profile.FileFindings
}

// NewSummary assembles a Summary from the discovered paths and the stage
// results. Paths are reduced to basenames.
func NewSummary(scope string, imagePaths, profilePaths []string, thumbs []image.Record, rep *profile.Report) *Summary {
	s := &Summary{
		ID:            uuid.New().String(),
		Scope:         scope,
		Timestamp:     time.Now(),
		Highways:      basenames(imagePaths),
		ColorProfiles: basenames(profilePaths),
		Thumbnails:    thumbs,
	}
	if s.Thumbnails == nil {
		s.Thumbnails = []image.Record{}
	}
	if rep != nil {
		s.Errors = rep.Errors
		s.Warnings = rep.Warnings
	}
	return s
}

// TotalErrors is the number of error fields across all files and categories.
func (s *Summary) TotalErrors() int { return s.Errors.Total() }

// TotalWarnings is the number of warning fields across all files and categories.
func (s *Summary) TotalWarnings() int { return s.Warnings.Total() }

// FormattedTimestamp renders Timestamp with TimestampLayout.
func (s *Summary) FormattedTimestamp() string {
	return s.Timestamp.Format(TimestampLayout)
}

func basenames(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, filepath.Base(p))
	}
	return out
}
