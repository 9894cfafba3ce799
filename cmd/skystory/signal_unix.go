// Unix/Darwin signal handling for graceful cancellation.
//
// This file is compiled on all non-Windows platforms (Linux, macOS, *BSD).
// It listens for both SIGINT (Ctrl+C) and SIGTERM, the conventional signal
// sent by process managers (systemd, cron wrappers) and container runtimes
// to request a graceful stop.

//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ///////////////////////////////////////////////
// Signal Handling
// ///////////////////////////////////////////////

// signalContext returns a context that is cancelled when SIGINT or SIGTERM
// arrives, so an in-flight download or SMTP delivery unwinds cleanly instead
// of being killed mid-write.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
