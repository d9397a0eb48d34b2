package core

import (
	"context"
	"time"
)

// Logger is the minimal leveled logging contract the service depends on.
// *log.Logger from charmbracelet/log satisfies it without adaptation.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}

// noopLogger discards every message. It is the default when no logger is
// configured.
type noopLogger struct{}

func (noopLogger) Debug(any, ...any) {}
func (noopLogger) Info(any, ...any)  {}
func (noopLogger) Warn(any, ...any)  {}
func (noopLogger) Error(any, ...any) {}

// NopLogger returns a logger that discards every message.
func NopLogger() Logger {
	return noopLogger{}
}

// MetricsRecorder observes one store operation outcome per call.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// NoopMetricsRecorder drops every observation. It is the default when no
// recorder is configured.
type NoopMetricsRecorder struct{}

// Observe implements MetricsRecorder.
func (NoopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}
