package image

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/sydlexius/profilescan/internal/filesystem"
)

// Record pairs a source image with the web path of its thumbnail.
type Record struct {
	File      string `json:"file"`
	Thumbnail string `json:"thumbnail"`
}

// Generator writes bounded-size thumbnails into OutputDir.
type Generator struct {
	OutputDir string // replaced wholesale on each run
	WebPrefix string // prefix for Record.Thumbnail, e.g. "thumbnails"
	MaxSize   int
	Logger    *slog.Logger
}

// Generate renders a thumbnail for every file into a staging directory and
// then swaps it in for OutputDir, so the published directory never holds a
// partial set and nothing from a previous run survives. Files that cannot be
// read or decoded are logged and omitted from the returned records.
func (g *Generator) Generate(ctx context.Context, files []string) ([]Record, error) {
	staging, err := filesystem.StagingDir(g.OutputDir)
	if err != nil {
		return nil, err
	}
	swapped := false
	defer func() {
		if !swapped {
			_ = os.RemoveAll(staging)
		}
	}()

	records := make([]Record, 0, len(files))
	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(src)
		format, err := g.render(src, filepath.Join(staging, name))
		if err != nil {
			g.Logger.Error("creating thumbnail",
				slog.String("file", src),
				slog.String("error", err.Error()))
			continue
		}

		records = append(records, Record{
			File:      name,
			Thumbnail: path.Join(g.WebPrefix, name),
		})
		g.Logger.Debug("created thumbnail",
			slog.String("file", src),
			slog.String("format", format))
	}

	if err := filesystem.SwapDir(staging, g.OutputDir); err != nil {
		return nil, fmt.Errorf("publishing thumbnails: %w", err)
	}
	swapped = true

	return records, nil
}

// render writes the thumbnail of src to dst and returns its format.
func (g *Generator) render(src, dst string) (string, error) {
	f, err := os.Open(src) //nolint:gosec // G304: src comes from the configured scan folders
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	data, format, err := Thumbnail(f, g.MaxSize)
	if err != nil {
		return "", err
	}
	return format, os.WriteFile(dst, data, 0o644) //nolint:gosec // G306: published content
}
