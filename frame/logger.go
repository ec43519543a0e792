package frame

import "log/slog"

type Logger interface {
	Error(err error)
	Debug(msg string, args ...any)
}

type slogLogger struct {
	log *slog.Logger
}

// NewSlogLogger adapts a slog logger. A nil logger means slog.Default()
// at the time of each call.
func NewSlogLogger(log *slog.Logger) Logger {
	return &slogLogger{log: log}
}

func (l *slogLogger) logger() *slog.Logger {
	if l.log == nil {
		return slog.Default()
	}

	return l.log
}

func (l *slogLogger) Error(err error) {
	l.logger().Error("frame failed", "error", err)
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger().Debug(msg, args...)
}
