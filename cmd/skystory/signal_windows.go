// Windows signal handling for graceful cancellation.
//
// This file is compiled only on Windows. Windows does not support POSIX
// signals like SIGTERM, so only [os.Interrupt] (Ctrl+C / CTRL_C_EVENT) is
// registered. The Go runtime translates CTRL_BREAK_EVENT and console-close
// events into os.Interrupt as well, providing adequate shutdown coverage.

//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// ///////////////////////////////////////////////
// Signal Handling
// ///////////////////////////////////////////////

// signalContext returns a context that is cancelled on os.Interrupt (Ctrl+C).
// On Windows, SIGTERM is not available; the Go runtime maps CTRL_BREAK_EVENT
// and console-close events to os.Interrupt automatically.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
