package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextKey struct{}

// Options controls how New builds the process logger.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New returns a logrus logger configured from opts. Unknown levels fall back
// to info, unknown formats to JSON.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// ContextWithLogger returns a derived context that carries the provided logger.
func ContextWithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a logger previously attached to the context.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(contextKey{}).(*logrus.Entry)
	return logger
}

// Or returns logger when it is set, otherwise the standard logrus logger.
func Or(logger *logrus.Entry) *logrus.Entry {
	if logger != nil {
		return logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
