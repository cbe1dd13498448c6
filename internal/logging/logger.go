package logging

import (
	"context"
	"io"
	"log"
	"os"
	"sync"
)

type contextKey string

const loggerKey = contextKey("logger")

const defaultPrefix = "Gocyconv: "

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

func DefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = NewLogger(defaultPrefix, log.Lmsgprefix)
	})
	return defaultLogger
}

func NewLogger(prefix string, flag int) *log.Logger {
	return NewLoggerTo(os.Stderr, prefix, flag)
}

func NewLoggerTo(w io.Writer, prefix string, flag int) *log.Logger {
	return log.New(w, prefix, flag)
}

// Discard returns a logger that drops every message
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return logger
	}
	return DefaultLogger()
}
