// Package citamlog wraps zap in the same three-category shape the teacher
// uses in rccontext.go (RC_LOG_PROGRESS / RC_LOG_WARNING / RC_LOG_ERROR),
// replacing its raw format-string log buffer with structured logging.
package citamlog

import "go.uber.org/zap"

// Logger exposes the three categories CITAM's core emits. Everything else
// (progress bars, interactive output) belongs to the CLI collaborator, not
// the core (spec §1).
type Logger struct {
	z *zap.SugaredLogger
}

// New wraps a zap.SugaredLogger. Pass zap.NewNop().Sugar() in tests that
// don't care about log output.
func New(z *zap.SugaredLogger) *Logger {
	return &Logger{z: z}
}

// NewProduction returns a Logger backed by a production zap configuration,
// or falls back to a no-op logger if zap fails to build one.
func NewProduction() *Logger {
	z, err := zap.NewProduction()
	if err != nil {
		return New(zap.NewNop().Sugar())
	}
	return New(z.Sugar())
}

// Progress logs routine, informational progress (spec §7: nothing here is
// fatal).
func (l *Logger) Progress(msg string, kv ...interface{}) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Infow(msg, kv...)
}

// Warn logs a non-fatal condition the run continues past: dropped doors,
// unreachable rooms, skipped meetings (spec §7).
func (l *Logger) Warn(msg string, kv ...interface{}) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Warnw(msg, kv...)
}

// Error logs a fatal condition before the caller aborts the run.
func (l *Logger) Error(msg string, kv ...interface{}) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Errorw(msg, kv...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() {
	if l == nil || l.z == nil {
		return
	}
	_ = l.z.Sync()
}
