package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/sydlexius/profilescan/internal/profile"
	"github.com/sydlexius/profilescan/internal/term"
)

// Console renders the human-readable report.
type Console struct {
	Out     io.Writer
	Palette term.Palette
}

// Print writes the counts followed by the error and warning listings. Only
// category names are listed per file; field names live in the JSON summary.
func (c *Console) Print(s *Summary) {
	p := c.Palette
	count := func(n int) string { return p.Count + humanize.Comma(int64(n)) + p.Reset }

	c.printf("Scanned %s color profiles and %s highway images.\n",
		count(len(s.ColorProfiles)), count(len(s.Highways)))
	c.printf("Generated %s highway thumbnails.\n\n", count(len(s.Thumbnails)))

	c.printf("Found %s%s%s errors and %s%s%s warnings:\n\n",
		p.ErrorCount, humanize.Comma(int64(s.TotalErrors())), p.Reset,
		p.WarningCount, humanize.Comma(int64(s.TotalWarnings())), p.Reset)

	c.printSection(p.ErrorHeader+"Errors:"+p.Reset, &s.Errors)
	c.printSection(p.WarnHeader+"Warnings:"+p.Reset, &s.Warnings)
}

func (c *Console) printSection(header string, ff *profile.FileFindings) {
	if ff.Len() == 0 {
		return
	}
	p := c.Palette
	c.printf("%s\n", header)
	for _, name := range ff.Names() {
		c.printf("%s%s:%s\n", p.File, name, p.Reset)
		findings, _ := ff.Get(name)
		for _, fd := range findings {
			c.printf("    %s%s:%s\n", p.Category, fd.Category, p.Reset)
		}
		c.printf("\n")
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...) //nolint:errcheck
}
