package logging

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type loggerKey struct{}

var ErrNoLoggerInContext = errors.New("no logger in context")

// ContextWithLogger returns a copy of ctx carrying the logger.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the logger stored in ctx.
func LoggerFromContext(ctx context.Context) (*zap.Logger, error) {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && logger != nil {
		return logger, nil
	}

	return nil, ErrNoLoggerInContext
}
