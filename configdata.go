// Package skystory provides embedded assets for the skystory command.
//
// The root package exists solely to embed [config.default.toml] via
// [DefaultConfigTOML]. The command writes this file to the data directory
// on first run so the user starts from a commented config.
package skystory

import _ "embed"

// DefaultConfigTOML holds the raw bytes of config.default.toml, embedded at
// build time. Regenerated by cmd/genconfig via go generate.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
