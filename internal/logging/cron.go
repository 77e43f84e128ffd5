package logging

import (
	"log/slog"
)

// CronLogger adapts an slog.Logger to the Info/Error logger interface used by
// github.com/robfig/cron/v3.
type CronLogger struct {
	logger *slog.Logger
}

// NewCronLogger creates a CronLogger. If logger is nil, slog.Default() is used.
func NewCronLogger(logger *slog.Logger) *CronLogger {
	return &CronLogger{logger: OrDefault(logger).With(slog.String("component", "scheduler"))}
}

// Info logs routine scheduler messages at debug level; cron is chatty.
func (c *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debug(msg, keysAndValues...)
}

// Error logs scheduler errors.
func (c *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Error(msg, append(keysAndValues, KeyError, err.Error())...)
}
