package fetch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"skystory/internal/atomicfile"
	"skystory/internal/forecast"
	"skystory/internal/paths"
)

// ///////////////////////////////////////////////
// Storing
// ///////////////////////////////////////////////

// Store writes the converted feed to the current XML path and a dated
// archive copy. The current file is the fatal write; a failed archive copy
// is logged and skipped so one bad disk moment does not kill the run.
func Store(log *slog.Logger, dd paths.DataDir, content []byte, now time.Time) error {
	if err := atomicfile.Write(dd.Current(), content, 0o644); err != nil {
		return fmt.Errorf("write current feed: %w", err)
	}
	log.Info("saved current feed", "path", dd.Current(), "bytes", len(content))

	archivePath := dd.ArchiveFor(now)
	if err := atomicfile.Write(archivePath, content, 0o644); err != nil {
		log.Warn("archive copy failed, continuing", "path", archivePath, "error", err)
		return nil
	}
	log.Debug("archived feed copy", "path", archivePath)
	return nil
}

// ///////////////////////////////////////////////
// Archive Lookup and Retention
// ///////////////////////////////////////////////

// archiveFiles lists dated archive files, sorted ascending by name (and so
// by date, since the date is embedded in the file name).
func archiveFiles(dd paths.DataDir) ([]string, error) {
	pattern := filepath.Join(dd.Archive(), paths.ArchivePattern)
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob archive %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// LatestArchive returns the newest dated archive file, or an error when the
// archive is empty. The ingest layer uses it when the current feed file is
// missing or unreadable.
func LatestArchive(dd paths.DataDir) (string, error) {
	files, err := archiveFiles(dd)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no archive files in %s", dd.Archive())
	}
	return files[len(files)-1], nil
}

// CleanupArchives removes archive files older than retentionDays. Files
// whose name does not carry a parseable date are left alone. Returns the
// number of files removed.
func CleanupArchives(log *slog.Logger, dd paths.DataDir, retentionDays int, now time.Time) int {
	files, err := archiveFiles(dd)
	if err != nil {
		log.Warn("archive cleanup skipped", "error", err)
		return 0
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	removed := 0
	for _, path := range files {
		date, ok := archiveDate(filepath.Base(path))
		if !ok {
			log.Warn("skipping archive with unparseable date", "file", filepath.Base(path))
			continue
		}
		if !date.Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Warn("failed to remove old archive", "file", path, "error", err)
			continue
		}
		log.Info("removed old archive", "file", filepath.Base(path))
		removed++
	}
	return removed
}

// archiveDate extracts the date from an archive file name like
// "isr_cities_2025-10-15.xml".
func archiveDate(name string) (time.Time, bool) {
	s := strings.TrimSuffix(strings.TrimPrefix(name, "isr_cities_"), ".xml")
	t, err := time.Parse(forecast.DateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
