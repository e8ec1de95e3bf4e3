// Package logctx carries zerolog loggers through context.Context, so callers
// can inject loggers enriched with contextual fields (input path, worker
// count) that propagate through the I/O and processing layers.
package logctx

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// loggerKey is private so other packages cannot collide with it.
type loggerKey struct{}

var (
	fallback     zerolog.Logger
	fallbackOnce sync.Once
)

// DefaultLogger returns the process-wide logger used when a context carries
// none: JSON to stderr with timestamps.
func DefaultLogger() zerolog.Logger {
	fallbackOnce.Do(func() {
		fallback = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
	return fallback
}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from ctx, falling back to DefaultLogger.
// It never panics and never returns a zero-value logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return DefaultLogger()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return DefaultLogger()
}

// WithStr returns a context whose logger has the given string field added.
func WithStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, logger)
}

// Configure builds a logger from the CLI's logging flags. debug lowers the
// level to Debug; human switches from JSON to the console writer.
func Configure(debug, human bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var out zerolog.LevelWriter
	if human {
		out = zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}}
	} else {
		out = zerolog.LevelWriterAdapter{Writer: os.Stderr}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
