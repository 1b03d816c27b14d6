package storage

import "context"

// Logger receives driver operation logs.
// Implementations must be safe for concurrent use.
type Logger interface {
	Info(ctx context.Context, format string, args ...any)
	Warn(ctx context.Context, format string, args ...any)
	Error(ctx context.Context, format string, args ...any)
	Debug(ctx context.Context, format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(ctx context.Context, format string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, format string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, format string, args ...any) {}
func (noopLogger) Debug(ctx context.Context, format string, args ...any) {}

var defaultLogger Logger = noopLogger{}
