// Package workflow runs the daily pipeline: download the feed, parse it,
// resolve a date, sort the cities, render the image and deliver it.
package workflow

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"skystory/internal/config"
	"skystory/internal/fetch"
	"skystory/internal/forecast"
	"skystory/internal/ingest"
	"skystory/internal/mailer"
	"skystory/internal/paths"
	"skystory/internal/render"
	"skystory/internal/typeface"
)

// ///////////////////////////////////////////////
// Options / Result
// ///////////////////////////////////////////////

// Options control one pipeline run.
type Options struct {
	// Date selects the target forecast date: "today", "tomorrow",
	// "random" (any date present in the feed) or an ISO date.
	Date string
	// DryRun renders but skips the image save and email delivery.
	DryRun bool
	// Seed overrides the gradient seed; zero means derive it from the
	// effective date so each calendar date keeps a stable palette.
	Seed int64
	// SkipDownload renders from already-stored data only.
	SkipDownload bool
	// Now injects the wall clock for tests.
	Now time.Time
}

// Result summarizes a completed run.
type Result struct {
	RequestedDate string
	EffectiveDate string
	Cities        int
	Warning       string
	ImagePath     string
	Emailed       bool
	Duration      time.Duration
}

// ///////////////////////////////////////////////
// Pipeline
// ///////////////////////////////////////////////

// Run executes the pipeline in strict order. A failed download is
// non-fatal as long as previously stored data can serve the render; any
// later failure aborts the run without writing a partial image.
func Run(ctx context.Context, log *slog.Logger, dirs paths.DataDir, cfg *config.Config, opts Options) (Result, error) {
	start := time.Now()
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	dataPath, err := refreshData(log, dirs, cfg, opts.SkipDownload, now)
	if err != nil {
		return Result{}, err
	}

	ds, err := ingest.ParseFile(log, dataPath)
	if err != nil {
		return Result{}, fmt.Errorf("parse forecast data: %w", err)
	}

	target, err := resolveTarget(opts.Date, now, ds.Dates())
	if err != nil {
		return Result{}, err
	}

	res, err := forecast.Resolve(log, ds.ByDate, target, cfg.Feed.ExpectedCities)
	if err != nil {
		return Result{}, err
	}
	set := forecast.NewSet(res.EffectiveDate, res.Records)

	assembler, img, err := compose(log, dirs, cfg, set, opts.Seed)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		RequestedDate: target,
		EffectiveDate: set.EffectiveDate,
		Cities:        len(set.Records),
		Warning:       res.Warning,
		ImagePath:     dirs.Image(),
	}

	if opts.DryRun {
		log.Info("dry run, skipping save and delivery")
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := assembler.Save(img, result.ImagePath); err != nil {
		return Result{}, fmt.Errorf("save image: %w", err)
	}
	log.Info("image saved", "path", result.ImagePath)

	if cfg.Email.Enabled {
		if err := deliver(ctx, log, cfg, result); err != nil {
			return Result{}, err
		}
		result.Emailed = true
	}

	result.Duration = time.Since(start)
	log.Info("run complete",
		"date", result.EffectiveDate,
		"cities", result.Cities,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// refreshData downloads and stores the feed, falling back to existing
// data when the download fails. Returns the path to parse.
func refreshData(log *slog.Logger, dirs paths.DataDir, cfg *config.Config, skip bool, now time.Time) (string, error) {
	if !skip {
		fopts := cfg.FetchOptions()
		content, err := fetch.Download(log, fopts)
		if err == nil {
			if err := fetch.Store(log, dirs, content, now); err != nil {
				return "", fmt.Errorf("store feed: %w", err)
			}
			fetch.CleanupArchives(log, dirs, fopts.RetentionDays, now)
			return dirs.Current(), nil
		}
		log.Warn("feed download failed, trying stored data", "error", err)
	}

	if _, err := os.Stat(dirs.Current()); err == nil {
		return dirs.Current(), nil
	}
	archived, err := fetch.LatestArchive(dirs)
	if err != nil {
		return "", fmt.Errorf("no forecast data available: %w", err)
	}
	log.Info("using archived feed", "path", archived)
	return archived, nil
}

// resolveTarget turns a date mode into a concrete ISO date.
func resolveTarget(mode string, now time.Time, available []string) (string, error) {
	switch mode {
	case "", "today":
		return now.Format(forecast.DateFormat), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(forecast.DateFormat), nil
	case "random":
		if len(available) == 0 {
			return "", forecast.ErrDataUnavailable
		}
		rng := rand.New(rand.NewSource(now.UnixNano()))
		return available[rng.Intn(len(available))], nil
	}
	if _, err := time.Parse(forecast.DateFormat, mode); err != nil {
		return "", fmt.Errorf("date %q: want today, tomorrow, random or YYYY-MM-DD", mode)
	}
	return mode, nil
}

// compose builds the render pipeline and produces the finished canvas.
func compose(log *slog.Logger, dirs paths.DataDir, cfg *config.Config, set forecast.Set, seed int64) (*render.Assembler, image.Image, error) {
	spec := cfg.RenderSpec(dirs)

	fnt, err := typeface.Load(spec.FontPath)
	if err != nil {
		return nil, nil, err
	}
	probe, err := fnt.NewFace()
	if err != nil {
		return nil, nil, err
	}
	strategy := typeface.SelectStrategy(cfg.Render.Shaping, probe)
	painter := typeface.NewPainter(strategy)
	log.Debug("shaping strategy bound", "strategy", painter.StrategyName())

	mapping, err := cfg.CodeMapping()
	if err != nil {
		return nil, nil, fmt.Errorf("weather code mapping: %w", err)
	}
	icons := render.NewIconSet(dirs.Icons(), mapping, spec.IconSize)

	assembler, err := render.NewAssembler(log, spec, painter, fnt, icons, dirs.Logo())
	if err != nil {
		return nil, nil, err
	}

	if seed == 0 {
		seed = render.SeedForDate(set.EffectiveDate)
	}
	img, err := assembler.Render(set, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, nil, err
	}
	return assembler, img, nil
}

// deliver emails the saved image.
func deliver(ctx context.Context, log *slog.Logger, cfg *config.Config, result Result) error {
	creds, err := mailer.CredentialsFromEnv()
	if err != nil {
		return err
	}
	date, err := time.Parse(forecast.DateFormat, result.EffectiveDate)
	display := result.EffectiveDate
	if err == nil {
		display = date.Format("02/01/2006")
	}
	return mailer.Send(ctx, log, cfg.MailerOptions(), creds,
		display, result.Cities, result.ImagePath)
}
