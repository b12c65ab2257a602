package logger

import (
	"io"
	"log/slog"

	"multichain_swap/internal/app/port"
)

// slogAdapter implements port.Logger on top of the package-level functions,
// so it follows whatever backend InitSlog/InitZap installed.
type slogAdapter struct{}

// NewSlogAdapter creates a new slogAdapter.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) Info(msg string, args ...any)  { Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, args...) }

// loggerAdapter wraps a specific *slog.Logger.
type loggerAdapter struct {
	l *slog.Logger
}

// NewNopLogger returns a port.Logger that discards everything.
func NewNopLogger() port.Logger {
	return &loggerAdapter{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (a *loggerAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *loggerAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *loggerAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *loggerAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
