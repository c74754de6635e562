package logger

import "log/slog"

// ComponentLogger tags every record with a component attribute.
type ComponentLogger struct {
	inner     Logger
	component slog.Attr
}

func NewComponentLogger(inner Logger, component string) *ComponentLogger {
	return &ComponentLogger{
		inner:     inner,
		component: slog.String("component", component),
	}
}

func (c *ComponentLogger) with(args []any) []any {
	return append([]any{c.component}, args...)
}

func (c *ComponentLogger) SetLogLevel(levelStr string) {
	c.inner.SetLogLevel(levelStr)
}

func (c *ComponentLogger) GetLogLevel() string {
	return c.inner.GetLogLevel()
}

func (c *ComponentLogger) Trace(msg string, args ...any) {
	c.inner.Trace(msg, c.with(args)...)
}

func (c *ComponentLogger) Debug(msg string, args ...any) {
	c.inner.Debug(msg, c.with(args)...)
}

func (c *ComponentLogger) Info(msg string, args ...any) {
	c.inner.Info(msg, c.with(args)...)
}

func (c *ComponentLogger) Warn(msg string, args ...any) {
	c.inner.Warn(msg, c.with(args)...)
}

func (c *ComponentLogger) Error(msg string, err error, args ...any) {
	c.inner.Error(msg, err, c.with(args)...)
}

func (c *ComponentLogger) Fatal(msg string, err error, args ...any) {
	c.inner.Fatal(msg, err, c.with(args)...)
}
