// Package logging holds the logger shared by the editor packages. Nothing is
// logged until SetLogger is called.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(nopHandler{}))
}

// SetLogger installs l for every editor package. nil restores silence.
//
// Levels in use: Debug for per-gesture detail such as discarded crops and
// selections, Info for document lifecycle (new project, import, export),
// Warn for recoverable failures such as a missing font face.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	current.Store(l)
}

// Logger returns the installed logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return current.Load()
}
