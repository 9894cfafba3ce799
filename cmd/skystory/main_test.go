//go:build !windows

package main

import (
	"testing"

	"skystory/internal/paths"
)

// ///////////////////////////////////////////////
// Run Lock
// ///////////////////////////////////////////////

func TestRunLockExcludesSecondHolder(t *testing.T) {
	dirs := paths.DataDir{Root: t.TempDir()}

	first, err := acquireRunLock(dirs)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	// flock is per open file description, so a second descriptor on the same
	// file conflicts even within one process.
	if second, err := acquireRunLock(dirs); err == nil {
		releaseRunLock(second)
		t.Fatal("second acquire succeeded while lock was held")
	}

	releaseRunLock(first)

	third, err := acquireRunLock(dirs)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	releaseRunLock(third)
}

func TestReleaseRunLockNilIsSafe(t *testing.T) {
	releaseRunLock(nil)
}

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

func TestResolveVersionNeverEmpty(t *testing.T) {
	if resolveVersion() == "" {
		t.Error("resolveVersion returned empty string")
	}
}

func TestResolveVersionHonorsLdflags(t *testing.T) {
	old := version
	defer func() { version = old }()

	version = "1.2.3"
	if got := resolveVersion(); got != "1.2.3" {
		t.Errorf("resolveVersion() = %q, want ldflags value", got)
	}
}
