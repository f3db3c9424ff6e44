package logging

import "context"

// NullLogger discards everything. Useful in tests and as a default before a
// real logger is configured.
type NullLogger struct{}

func NewNullLogger() *NullLogger { return &NullLogger{} }

func (n *NullLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (n *NullLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (n *NullLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (n *NullLogger) Error(ctx context.Context, msg string, args ...any) {}
func (n *NullLogger) With(args ...any) Logger                            { return n }
