package conf

import (
	"context"
	"errors"
)

var (
	ErrNoConfigInContext = errors.New("config not found in context")
	ErrInvalidConfig     = errors.New("invalid config in context")
)

type configKey struct{}

// ContextWithConfig returns a copy of ctx carrying the config.
func ContextWithConfig[C any](ctx context.Context, config C) context.Context {
	return context.WithValue(ctx, configKey{}, config)
}

// GetConfigFromContext returns the config stored in ctx. It fails if
// no config is stored, or if the stored config is not of type C.
func GetConfigFromContext[C any](ctx context.Context) (C, error) {
	var c C

	value := ctx.Value(configKey{})
	if value == nil {
		return c, ErrNoConfigInContext
	}

	config, ok := value.(C)
	if !ok {
		return c, ErrInvalidConfig
	}

	return config, nil
}
