// Package scan runs the profile and thumbnail pipeline end to end.
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sydlexius/profilescan/internal/config"
	"github.com/sydlexius/profilescan/internal/filesystem"
	"github.com/sydlexius/profilescan/internal/image"
	"github.com/sydlexius/profilescan/internal/profile"
	"github.com/sydlexius/profilescan/internal/publish"
	"github.com/sydlexius/profilescan/internal/report"
	"github.com/sydlexius/profilescan/internal/scope"
	"github.com/sydlexius/profilescan/internal/term"
)

// File extensions picked up by discovery.
var (
	ProfileExtensions = []string{".ini"}
	ImageExtensions   = []string{".png", ".jpg", ".jpeg"}
)

// Recorder persists a finished scan. history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, s *report.Summary) error
	MarkPublished(ctx context.Context, id string) error
}

// Runner wires the pipeline stages together. Recorder may be nil.
type Runner struct {
	Config    *config.Config
	Paths     map[string]string
	Publisher publish.Publisher
	Recorder  Recorder
	Out       io.Writer
	Palette   term.Palette
	Logger    *slog.Logger
}

// Run executes one scan for sc and returns its summary. Failures in
// individual profiles, images, summary files, history or publishing are
// logged and reported but do not stop the run; only cancellation does.
func (r *Runner) Run(ctx context.Context, sc scope.Scope) (*report.Summary, error) {
	r.printf("\nScanning %s folder(s)...\n\n", sc.Label())

	targets := scope.Resolve(sc, r.Paths)
	profiles := filesystem.FindAll(targets.ProfileDirs, ProfileExtensions, r.Logger)
	images := filesystem.FindAll(targets.ImageDirs, ImageExtensions, r.Logger)
	r.Logger.Info("discovered files",
		slog.String("scope", string(sc)),
		slog.Int("profiles", len(profiles)),
		slog.Int("images", len(images)))

	gen := &image.Generator{
		OutputDir: r.Config.Output.ThumbnailDir,
		WebPrefix: r.Config.Output.ThumbnailWebPrefix,
		MaxSize:   r.Config.Output.ThumbnailSize,
		Logger:    r.Logger.With(slog.String("stage", "thumbnails")),
	}
	thumbs, err := gen.Generate(ctx, images)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.Logger.Error("generating thumbnails", slog.String("error", err.Error()))
	}

	rep := profile.ValidateAll(profiles, r.Logger.With(slog.String("stage", "validate")))

	sum := report.NewSummary(string(sc), images, profiles, thumbs, rep)

	console := &report.Console{Out: r.Out, Palette: r.Palette}
	console.Print(sum)

	if err := report.WriteText(r.Config.Output.TextSummary, sum); err != nil {
		r.Logger.Error("writing summary", slog.String("error", err.Error()))
	}
	if err := report.WriteJSON(r.Config.Output.JSONSummary, sum); err != nil {
		r.Logger.Error("writing summary", slog.String("error", err.Error()))
	}

	if r.Recorder != nil {
		if err := r.Recorder.Record(ctx, sum); err != nil {
			r.Logger.Warn("recording scan history", slog.String("error", err.Error()))
		}
	}

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	r.publish(ctx, sum)

	return sum, nil
}

func (r *Runner) publish(ctx context.Context, sum *report.Summary) {
	if r.Publisher == nil {
		return
	}
	if _, ok := r.Publisher.(publish.Noop); ok {
		r.Logger.Info("publishing disabled")
		return
	}

	if err := r.Publisher.Publish(ctx, r.Config.Publish.Message); err != nil {
		r.Logger.Error("publishing", slog.String("error", err.Error()))
		r.printf("Git error: %v\n", err)
		return
	}
	r.printf("Changes pushed to remote successfully.\n")

	if r.Recorder != nil {
		if err := r.Recorder.MarkPublished(ctx, sum.ID); err != nil {
			r.Logger.Warn("recording publish", slog.String("error", err.Error()))
		}
	}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format, args...) //nolint:errcheck
}
