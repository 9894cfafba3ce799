// Package paths centralizes file and directory names used across the project.
// All data directory file names are defined here as the single source of truth.
package paths

import (
	"path/filepath"
	"time"
)

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

// Data directory file and subdirectory names.
const (
	ConfigFile  = "config.toml"
	LockFile    = "skystory.lock"
	CurrentXML  = "isr_cities_utf8.xml"
	OutputImage = "daily_forecast.jpg"
	LogFile     = "skystory.log"

	ArchiveDir = "archive"
	OutputDir  = "output"
	LogsDir    = "logs"
	FontsDir   = "fonts"
	AssetsDir  = "assets"
	IconsDir   = "weather_icons"
	LogosDir   = "logos"
	LogoFile   = "ims_logo.png"
)

// ArchivePattern is the glob pattern matching dated archive file names.
const ArchivePattern = "isr_cities_*.xml"

// ArchiveFileName returns the archive file name for a forecast date,
// e.g. "isr_cities_2025-10-15.xml".
func ArchiveFileName(date time.Time) string {
	return "isr_cities_" + date.Format("2006-01-02") + ".xml"
}

// ///////////////////////////////////////////////
// DataDir
// ///////////////////////////////////////////////

// DataDir provides path construction methods rooted at a data directory.
type DataDir struct {
	Root string
}

// Config returns the full path to the TOML config file.
func (d DataDir) Config() string { return filepath.Join(d.Root, ConfigFile) }

// Lock returns the full path to the single-run lock file.
func (d DataDir) Lock() string { return filepath.Join(d.Root, LockFile) }

// Current returns the full path to the current (most recently downloaded) XML file.
func (d DataDir) Current() string { return filepath.Join(d.Root, CurrentXML) }

// Archive returns the archive directory path.
func (d DataDir) Archive() string { return filepath.Join(d.Root, ArchiveDir) }

// ArchiveFor returns the archive file path for a forecast date.
func (d DataDir) ArchiveFor(date time.Time) string {
	return filepath.Join(d.Archive(), ArchiveFileName(date))
}

// Output returns the output directory path.
func (d DataDir) Output() string { return filepath.Join(d.Root, OutputDir) }

// Image returns the full path of the rendered forecast image.
func (d DataDir) Image() string { return filepath.Join(d.Output(), OutputImage) }

// Logs returns the logs directory path.
func (d DataDir) Logs() string { return filepath.Join(d.Root, LogsDir) }

// Log returns the full path to the rotating log file.
func (d DataDir) Log() string { return filepath.Join(d.Logs(), LogFile) }

// Fonts returns the fonts directory path.
func (d DataDir) Fonts() string { return filepath.Join(d.Root, FontsDir) }

// Assets returns the assets directory path (logo and icons live below it).
func (d DataDir) Assets() string { return filepath.Join(d.Root, AssetsDir) }

// Icons returns the weather icon assets directory path.
func (d DataDir) Icons() string {
	return filepath.Join(d.Root, AssetsDir, IconsDir)
}

// Logo returns the full path to the header logo image.
func (d DataDir) Logo() string {
	return filepath.Join(d.Root, AssetsDir, LogosDir, LogoFile)
}

// EnsureDirs returns the list of directories a run needs to exist, in
// creation order. Callers create them with os.MkdirAll.
func (d DataDir) EnsureDirs() []string {
	return []string{d.Root, d.Archive(), d.Output(), d.Logs()}
}
