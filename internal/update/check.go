// Package update checks for newer skystory releases via the VERSION file
// on the repository's main branch.
package update

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Set at build time via:
//
//	-X skystory/internal/update.ldOwner=...
//	-X skystory/internal/update.ldRepo=...
var (
	ldOwner string
	ldRepo  string
)

var (
	initOnce   sync.Once
	versionURL string
)

// githubRemoteRe extracts owner and repo from GitHub remote URLs.
// Matches both HTTPS (github.com/) and SSH (github.com:) formats.
var githubRemoteRe = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/.]+)`)

// resolveURL lazily builds the raw VERSION URL on first call. Build-time
// ldflags are preferred; otherwise owner and repo are derived from the
// local git remote origin. Returns "" when neither source is available,
// which disables the check.
func resolveURL() string {
	initOnce.Do(func() {
		owner, repo := ldOwner, ldRepo
		if owner == "" || repo == "" {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			out, err := exec.CommandContext(ctx, "git", "remote", "get-url", "origin").Output()
			if err != nil {
				slog.Debug("update: ldflags not set and git remote unavailable", "error", err)
				return
			}
			m := githubRemoteRe.FindStringSubmatch(string(out))
			if len(m) != 3 {
				return
			}
			owner, repo = m[1], m[2]
		}
		versionURL = "https://raw.githubusercontent.com/" + owner + "/" + repo + "/main/VERSION"
	})
	return versionURL
}

// ///////////////////////////////////////////////
// Public API
// ///////////////////////////////////////////////

// Check fetches the published VERSION file and logs if a newer release is
// available. Non-blocking, non-fatal; failures are silently ignored.
func Check(current string) {
	url := resolveURL()
	if url == "" {
		slog.Debug("skipping version check: no remote URL configured")
		return
	}
	latest, err := fetchLatest(url)
	if err != nil {
		slog.Debug("version check failed", "error", err)
		return
	}
	if latest == "" || latest == current {
		return
	}
	if semverLess(current, latest) {
		slog.Info("new version available", "current", current, "latest", latest)
	}
}

// ///////////////////////////////////////////////
// Internal helpers
// ///////////////////////////////////////////////

// fetchLatest downloads the VERSION file and returns its trimmed content.
func fetchLatest(url string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// semverLess returns true if a < b using simple numeric comparison.
// Handles versions like "0.1.0", "1.2.3". Non-semver strings are not
// compared. Per semver, a pre-release version is less than the same
// version without one (e.g. "0.1.0-dev" < "0.1.0").
func semverLess(a, b string) bool {
	pa, okA := parseSemver(a)
	pb, okB := parseSemver(b)
	if !okA || !okB {
		return false
	}
	for i := range 3 {
		if pa[i] != pb[i] {
			return pa[i] < pb[i]
		}
	}
	// Numeric parts are equal; a pre-release version is less than a release.
	return hasPreRelease(a) && !hasPreRelease(b)
}

// hasPreRelease reports whether a version string contains a pre-release
// suffix (e.g. "0.1.0-dev" or "v1.0.0-beta+build").
func hasPreRelease(s string) bool {
	return strings.Contains(strings.TrimPrefix(s, "v"), "-")
}

// parseSemver splits a version string like "v1.2.3" or "0.1.0-dev" into
// [major, minor, patch]. Pre-release suffixes after "-" or "+" are stripped.
func parseSemver(s string) (parts [3]int, ok bool) {
	s = strings.TrimPrefix(s, "v")
	fields := strings.SplitN(s, ".", 3)
	if len(fields) != 3 {
		return parts, false
	}
	for i, p := range fields {
		if idx := strings.IndexAny(p, "-+"); idx >= 0 {
			p = p[:idx]
		}
		if p == "" {
			return parts, false
		}
		n := 0
		for _, c := range p {
			if c < '0' || c > '9' {
				return parts, false
			}
			n = n*10 + int(c-'0')
		}
		parts[i] = n
	}
	return parts, true
}
