// Package config provides configuration loading and defaults for skystory.
//
// Configuration is loaded from a TOML file in the data directory. The
// package covers feed download settings, composition geometry, typography,
// the weather-code icon table, email delivery and logging, all with
// defaults matching the production image. The loaded Config converts once
// into immutable value types (render.Spec, fetch.Options, mailer.Options)
// that the pipeline passes around explicitly.
//go:generate go run skystory/cmd/genconfig -out ../../config.default.toml

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"skystory/internal/atomicfile"
	"skystory/internal/fetch"
	"skystory/internal/forecast"
	"skystory/internal/mailer"
	"skystory/internal/paths"
	"skystory/internal/render"
)

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level application configuration.
type Config struct {
	// Feed holds IMS feed download settings.
	Feed FeedConfig `toml:"feed"`
	// Render holds composition geometry and typography.
	Render RenderConfig `toml:"render"`
	// Weather maps IMS weather codes to icon asset ids.
	Weather WeatherConfig `toml:"weather"`
	// Email holds delivery settings; credentials come from the environment.
	Email EmailConfig `toml:"email"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// FeedConfig holds IMS feed download settings.
type FeedConfig struct {
	// URL is the forecast feed endpoint.
	URL string `toml:"url"`
	// TimeoutSeconds bounds one download attempt.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// RetryMax is the number of retries after a failed attempt.
	RetryMax int `toml:"retry_max"`
	// RetentionDays is how long dated archive copies are kept.
	RetentionDays int `toml:"retention_days"`
	// ExpectedCities is the city count a complete feed carries; fewer
	// produces a warning, not a failure.
	ExpectedCities int `toml:"expected_cities"`
}

// RenderConfig holds composition geometry and typography.
type RenderConfig struct {
	Width          int `toml:"width"`
	Height         int `toml:"height"`
	HeaderHeight   int `toml:"header_height"`
	RowHeight      int `toml:"row_height"`
	RowPadding     int `toml:"row_padding"`
	ElementSpacing int `toml:"element_spacing"`
	LogoHeight     int `toml:"logo_height"`
	LogoMarginTop  int `toml:"logo_margin_top"`
	IconSize       int `toml:"icon_size"`
	JPEGQuality    int `toml:"jpeg_quality"`

	// FontFile is the variable font file name under the fonts directory.
	FontFile string `toml:"font_file"`
	// Shaping selects the text shaping strategy: auto, native or preshaped.
	Shaping string `toml:"shaping"`

	City FontRole `toml:"city"`
	Temp FontRole `toml:"temp"`
	Date FontRole `toml:"date"`
}

// FontRole holds the typography settings for one text role.
type FontRole struct {
	Size   int     `toml:"size"`
	Weight float64 `toml:"weight"`
	Width  float64 `toml:"width"`
}

// WeatherConfig maps weather codes to icon asset ids. TOML keys are
// strings; codes parse to integers at conversion time.
type WeatherConfig struct {
	// Icons maps weather code (as string) to icon id, e.g. "1250" = "sunny".
	Icons map[string]string `toml:"icons"`
	// Fallback is the icon id for any unmapped code.
	Fallback string `toml:"fallback"`
}

// EmailConfig holds delivery settings. SMTP credentials never live in the
// config file; they come from SKYSTORY_SMTP_USER / SKYSTORY_SMTP_PASS.
type EmailConfig struct {
	// Enabled turns email delivery on.
	Enabled bool `toml:"enabled"`
	// Host is the SMTP submission host.
	Host string `toml:"host"`
	// Port is the SMTP submission port.
	Port int `toml:"port"`
	// From is the sender address.
	From string `toml:"from"`
	// To lists recipient addresses.
	To []string `toml:"to"`
	// Subject is the message subject; {date} expands to the forecast date.
	Subject string `toml:"subject"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Defaults
// ///////////////////////////////////////////////

// DefaultConfig returns the configuration matching the production image:
// 1080x1920 portrait, 15 Israeli cities, Open Sans variable font.
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:            fetch.DefaultFeedURL,
			TimeoutSeconds: 30,
			RetryMax:       3,
			RetentionDays:  14,
			ExpectedCities: 15,
		},
		Render: RenderConfig{
			Width:          1080,
			Height:         1920,
			HeaderHeight:   180,
			RowHeight:      105,
			RowPadding:     160,
			ElementSpacing: 40,
			LogoHeight:     120,
			LogoMarginTop:  30,
			IconSize:       65,
			JPEGQuality:    95,
			FontFile:       "OpenSans-Variable.ttf",
			Shaping:        "auto",
			City:           FontRole{Size: 40, Weight: 600, Width: 100},
			Temp:           FontRole{Size: 35, Weight: 500, Width: 100},
			Date:           FontRole{Size: 50, Weight: 400, Width: 100},
		},
		Weather: WeatherConfig{
			Icons: map[string]string{
				"1250": "sunny",
				"1220": "partly_cloudy",
				"1310": "mostly_clear",
				"1580": "very_hot",
			},
			Fallback: "mostly_clear",
		},
		Email: EmailConfig{
			Enabled: false,
			Port:    587,
			Subject: "Daily forecast image {date}",
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ///////////////////////////////////////////////
// Load / Save
// ///////////////////////////////////////////////

// Load reads the config file from the data directory. A missing file
// yields the defaults; a malformed or invalid file is an error.
func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, paths.ConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk as TOML using atomic file write.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := atomicfile.Write(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks config values for consistency.
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url must not be empty")
	}
	if c.Feed.TimeoutSeconds <= 0 {
		return fmt.Errorf("feed.timeout_seconds must be positive, got %d", c.Feed.TimeoutSeconds)
	}
	if c.Feed.RetryMax < 0 {
		return fmt.Errorf("feed.retry_max must not be negative, got %d", c.Feed.RetryMax)
	}
	if c.Feed.RetentionDays < 1 {
		return fmt.Errorf("feed.retention_days must be at least 1, got %d", c.Feed.RetentionDays)
	}
	if c.Feed.ExpectedCities < 1 {
		return fmt.Errorf("feed.expected_cities must be at least 1, got %d", c.Feed.ExpectedCities)
	}
	switch c.Render.Shaping {
	case "auto", "native", "preshaped":
	default:
		return fmt.Errorf("render.shaping must be auto, native or preshaped, got %q", c.Render.Shaping)
	}
	if c.Render.FontFile == "" {
		return fmt.Errorf("render.font_file must not be empty")
	}
	for code := range c.Weather.Icons {
		if _, err := strconv.Atoi(code); err != nil {
			return fmt.Errorf("weather.icons key %q is not an integer code", code)
		}
	}
	if c.Weather.Fallback == "" {
		return fmt.Errorf("weather.fallback must not be empty")
	}
	if c.Email.Enabled {
		if c.Email.Host == "" {
			return fmt.Errorf("email.host required when email.enabled")
		}
		if c.Email.Port < 1 || c.Email.Port > 65535 {
			return fmt.Errorf("email.port %d outside [1, 65535]", c.Email.Port)
		}
		if c.Email.From == "" || len(c.Email.To) == 0 {
			return fmt.Errorf("email.from and email.to required when email.enabled")
		}
	}
	if c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("log.max_size_mb must be at least 1, got %d", c.Log.MaxSizeMB)
	}
	// The render geometry checks live on render.Spec; run them here so a
	// bad file fails at load time.
	spec := c.renderSpec("placeholder")
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// ///////////////////////////////////////////////
// Conversions
// ///////////////////////////////////////////////

// RenderSpec converts the render section into an immutable spec, with the
// font file resolved against the data directory.
func (c *Config) RenderSpec(dirs paths.DataDir) render.Spec {
	return c.renderSpec(filepath.Join(dirs.Fonts(), c.Render.FontFile))
}

func (c *Config) renderSpec(fontPath string) render.Spec {
	spec := render.DefaultSpec(fontPath)
	spec.Width = c.Render.Width
	spec.Height = c.Render.Height
	spec.HeaderHeight = c.Render.HeaderHeight
	spec.RowHeight = c.Render.RowHeight
	spec.RowPadding = c.Render.RowPadding
	spec.ElementSpacing = c.Render.ElementSpacing
	spec.LogoHeight = c.Render.LogoHeight
	spec.LogoMarginTop = c.Render.LogoMarginTop
	spec.IconSize = c.Render.IconSize
	spec.JPEGQuality = c.Render.JPEGQuality
	spec.CityFont = roleSpec(c.Render.City)
	spec.TempFont = roleSpec(c.Render.Temp)
	spec.DateFont = roleSpec(c.Render.Date)
	return spec
}

func roleSpec(r FontRole) render.Role {
	return render.Role{SizePx: r.Size, Weight: r.Weight, Width: r.Width}
}

// CodeMapping converts the weather section into the total code→icon
// mapping used by the compositor.
func (c *Config) CodeMapping() (forecast.CodeMapping, error) {
	icons := make(map[int]string, len(c.Weather.Icons))
	for key, id := range c.Weather.Icons {
		code, err := strconv.Atoi(key)
		if err != nil {
			return forecast.CodeMapping{}, fmt.Errorf("weather code %q: %w", key, err)
		}
		icons[code] = id
	}
	return forecast.NewCodeMapping(icons, c.Weather.Fallback)
}

// FetchOptions converts the feed section into download options.
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		URL:           c.Feed.URL,
		Timeout:       time.Duration(c.Feed.TimeoutSeconds) * time.Second,
		RetryMax:      c.Feed.RetryMax,
		RetentionDays: c.Feed.RetentionDays,
	}
}

// MailerOptions converts the email section into delivery options.
func (c *Config) MailerOptions() mailer.Options {
	return mailer.Options{
		Host:    c.Email.Host,
		Port:    c.Email.Port,
		From:    c.Email.From,
		To:      append([]string(nil), c.Email.To...),
		Subject: c.Email.Subject,
	}
}
