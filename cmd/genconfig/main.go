// Package main implements the genconfig tool that writes config.default.toml
// from config.DefaultConfig().
//
// It is invoked by go generate via the directive in internal/config/config.go.
// The encoder output is post-processed: indentation is stripped, section
// comments are injected, and a file header is prepended, so the file that
// first-run users find in their data directory explains itself.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"skystory/internal/config"
)

// sectionComments holds the comment block injected above each top-level
// TOML section. Keys are section names as emitted by the encoder.
var sectionComments = map[string][]string{
	"feed": {
		"IMS feed download settings.",
	},
	"render": {
		"Composition geometry and typography. Sizes are pixels on the",
		"1080x1920 portrait canvas.",
	},
	"weather": {
		"Weather code to icon id mapping. Any unmapped code falls back to",
		"the fallback icon.",
	},
	"email": {
		"Email delivery. {date} in the subject expands to the forecast date.",
	},
	"log": {
		"Logging. Levels: trace, debug, info, warn, error.",
	},
}

// header is prepended verbatim before the first section.
var header = []string{
	"# ///////////////////////////////////////////////",
	"# Skystory Configuration",
	"# ///////////////////////////////////////////////",
	"#",
	"# Regenerate with: go generate ./internal/config",
	"# SMTP credentials never live in this file; set SKYSTORY_SMTP_USER and",
	"# SKYSTORY_SMTP_PASS in the environment (or a local .env) instead.",
}

func main() {
	out := flag.String("out", "config.default.toml", "Output path for the generated config")
	flag.Parse()

	rendered, err := render(config.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "genconfig: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, []byte(rendered), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "genconfig: write %s: %v\n", *out, err)
		os.Exit(1)
	}
}

// render encodes cfg to TOML and post-processes the result into the
// commented default config text.
func render(cfg *config.Config) (string, error) {
	var raw bytes.Buffer
	enc := toml.NewEncoder(&raw)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	out := append([]string(nil), header...)
	for _, line := range strings.Split(raw.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if section, top := sectionName(trimmed); top {
			out = append(out, "")
			for _, c := range sectionComments[section] {
				out = append(out, "# "+c)
			}
		} else if strings.HasPrefix(trimmed, "[") {
			// Subsection, keep a blank separator but no comment.
			out = append(out, "")
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n") + "\n", nil
}

// sectionName extracts the name of a top-level section header line.
// Returns ok=false for key/value lines and for nested sections like
// [render.city].
func sectionName(line string) (name string, ok bool) {
	if !strings.HasPrefix(line, "[") || strings.HasPrefix(line, "[[") {
		return "", false
	}
	name = strings.Trim(line, "[] ")
	if strings.Contains(name, ".") {
		return "", false
	}
	return name, true
}
