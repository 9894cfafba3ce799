// Package main implements the skystory command, which turns the IMS Israeli
// cities forecast feed into a daily Hebrew weather image and optionally
// emails it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/joho/godotenv"

	rootpkg "skystory"
	"skystory/internal/config"
	"skystory/internal/logger"
	"skystory/internal/paths"
	"skystory/internal/update"
	"skystory/internal/workflow"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time via ldflags:
//   - goreleaser: -X main.version={{.Version}}  -> "0.1.0"
//   - make build: -X main.version=$(VERSION)    -> "0.0.0-dev+05ffee5"
//
// When ldflags are not set (bare go build), resolveVersion reads the VCS info
// that Go embeds automatically, so dev builds get a useful version string
// without needing git at runtime.
var version = "dev"

// resolveVersion returns the build version string. If [version] was set via
// ldflags at build time it is returned as-is; otherwise VCS revision and dirty
// state embedded by the Go toolchain are used to construct a "dev+<hash>" tag.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// Default Data Directory
// ///////////////////////////////////////////////

// defaultDataDir returns the platform default directory for skystory data,
// typically ~/.skystory. Falls back to ./.skystory if the home directory
// cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".skystory")
	}
	return filepath.Join(home, ".skystory")
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	os.Exit(run())
}

// run holds the real program body so deferred cleanup executes before the
// process exit code is set.
func run() int {
	dataDir := flag.String("data-dir", defaultDataDir(), "Data directory for config, feed data, output and logs")
	date := flag.String("date", "today", "Forecast date: today, tomorrow, random, or YYYY-MM-DD")
	dryRun := flag.Bool("dry-run", false, "Render without saving the image or sending email")
	noFetch := flag.Bool("no-fetch", false, "Skip the feed download and render from stored data")
	seed := flag.Int64("seed", 0, "Gradient seed override (0 derives it from the forecast date)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(resolveVersion())
		return 0
	}

	// SMTP credentials may live in a local .env during development; a missing
	// file is the normal production case.
	_ = godotenv.Load()

	dirs := paths.DataDir{Root: *dataDir}
	for _, d := range dirs.EnsureDirs() {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: create data dir: %v\n", err)
			return 1
		}
	}

	if _, err := os.Stat(dirs.Config()); os.IsNotExist(err) {
		if writeErr := os.WriteFile(dirs.Config(), rootpkg.DefaultConfigTOML, 0o644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write default config: %v\n", writeErr)
		}
	}

	cfg, err := config.Load(dirs.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: load config: %v\n", err)
		return 1
	}

	log, logCloser := logger.New(os.Stderr, dirs.Log(), logger.ParseLevel(cfg.Log.Level), cfg.Log.MaxSizeMB)
	defer logCloser.Close()
	slog.SetDefault(log)

	ver := resolveVersion()
	log.Info("skystory starting", "version", ver, "data_dir", dirs.Root, "date", *date)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("update check panic", "error", r)
			}
		}()
		update.Check(ver)
	}()

	lock, err := acquireRunLock(dirs)
	if err != nil {
		log.Error("another run is already in progress", "error", err)
		return 1
	}
	defer releaseRunLock(lock)

	ctx, stop := signalContext(context.Background())
	defer stop()

	result, err := workflow.Run(ctx, log, dirs, cfg, workflow.Options{
		Date:         *date,
		DryRun:       *dryRun,
		SkipDownload: *noFetch,
		Seed:         *seed,
	})
	if err != nil {
		log.Error("run failed", "error", err)
		return 1
	}

	if result.Warning != "" {
		fmt.Fprintln(os.Stderr, "warning:", result.Warning)
	}
	if *dryRun {
		fmt.Printf("dry run ok: %s, %d cities\n", result.EffectiveDate, result.Cities)
	} else {
		fmt.Printf("forecast image for %s (%d cities) written to %s\n",
			result.EffectiveDate, result.Cities, result.ImagePath)
	}
	return 0
}

// ///////////////////////////////////////////////
// Run Lock
// ///////////////////////////////////////////////

// acquireRunLock takes an exclusive advisory lock on the lock file so that
// overlapping cron invocations do not fight over the data directory. The
// returned file must stay open until [releaseRunLock].
func acquireRunLock(dirs paths.DataDir) (*os.File, error) {
	f, err := os.OpenFile(dirs.Lock(), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// releaseRunLock releases the advisory lock and closes the handle. The lock
// file itself is left in place for the next run.
func releaseRunLock(f *os.File) {
	if f == nil {
		return
	}
	_ = unlockFile(f)
	f.Close()
}
