// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hyper4d

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/hyper4d/render"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for hyper4d and all its sub-packages.
// By default no log output is produced. Pass nil to restore the silent
// default.
//
// Log levels used:
//   - [slog.LevelDebug]: internal diagnostics (frame timings, buffer sizes)
//   - [slog.LevelInfo]: lifecycle events (backend selected)
//   - [slog.LevelWarn]: non-fatal issues (backend fallback, resource leaks)
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	render.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
