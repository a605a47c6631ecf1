package xbuild

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

func log(ctx context.Context) *zerolog.Logger {
	logger := ctx.Value(loggerKey{})
	if logger == nil {
		panic("Logger is missing in context!")
	}

	return logger.(*zerolog.Logger)
}

// WithLogger attaches the given logger to the context
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// targetLog returns a child logger that tags each event with the target's artifact name.
func targetLog(ctx context.Context, artifact string) *zerolog.Logger {
	logger := log(ctx).With().Str("target", artifact).Logger()
	return &logger
}
