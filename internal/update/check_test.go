package update

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ///////////////////////////////////////////////
// semverLess
// ///////////////////////////////////////////////

func TestSemverLess(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"patch bump", "0.1.0", "0.1.1", true},
		{"minor bump", "0.1.9", "0.2.0", true},
		{"major bump", "0.9.9", "1.0.0", true},
		{"equal", "1.2.3", "1.2.3", false},
		{"greater", "1.2.4", "1.2.3", false},
		{"v prefix", "v0.1.0", "0.2.0", true},
		{"prerelease below release", "0.1.0-dev", "0.1.0", true},
		{"release not below prerelease", "0.1.0", "0.1.0-dev", false},
		{"dev build metadata", "0.1.0-dev+abc1234", "0.1.0", true},
		{"non-semver left", "dev", "0.1.0", false},
		{"non-semver right", "0.1.0", "latest", false},
		{"two-part version", "1.2", "1.3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := semverLess(tt.a, tt.b); got != tt.want {
				t.Errorf("semverLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// ///////////////////////////////////////////////
// parseSemver
// ///////////////////////////////////////////////

func TestParseSemver(t *testing.T) {
	tests := []struct {
		in   string
		want [3]int
		ok   bool
	}{
		{"1.2.3", [3]int{1, 2, 3}, true},
		{"v0.10.0", [3]int{0, 10, 0}, true},
		{"0.1.0-dev+abc", [3]int{0, 1, 0}, true},
		{"1.2", [3]int{}, false},
		{"a.b.c", [3]int{}, false},
		{"", [3]int{}, false},
	}

	for _, tt := range tests {
		got, ok := parseSemver(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseSemver(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

// ///////////////////////////////////////////////
// fetchLatest
// ///////////////////////////////////////////////

func TestFetchLatestTrimsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0.2.0\n"))
	}))
	defer srv.Close()

	got, err := fetchLatest(srv.URL)
	if err != nil {
		t.Fatalf("fetchLatest: %v", err)
	}
	if got != "0.2.0" {
		t.Errorf("fetchLatest = %q, want %q", got, "0.2.0")
	}
}

func TestFetchLatestNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := fetchLatest(srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}
