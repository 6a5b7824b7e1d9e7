package runtime

import (
	"context"

	"github.com/lambda-feedback/harbor-shim/internal/execution"
	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Runtime is the interface for a runtime.
type Runtime interface {
	Handle(context.Context, models.Request) (supervisor.Result, error)

	Start(context.Context) error

	Shutdown(context.Context) error
}

// Params is the runtime-specific params type.
type Params = execution.Params

// Dispatcher is the runtime-specific dispatcher type.
type Dispatcher = execution.Dispatcher

// Config is the runtime-specific type for the config.
type Config = execution.Config

// InvocationRuntime is a runtime that dispatches requests to workers.
type InvocationRuntime struct {
	dispatcher Dispatcher

	log *zap.Logger
}

var _ Runtime = (*InvocationRuntime)(nil)

// RuntimeParams defines the dependencies for the runtime.
type RuntimeParams struct {
	fx.In

	// Config is the config for the underlying dispatcher
	Config Config

	// Log is the logger to use for the runtime
	Log *zap.Logger
}

// NewRuntime creates a new runtime.
func NewRuntime(params RuntimeParams) (Runtime, error) {
	dispatcher, err := execution.NewDispatcher(Params{
		Config: params.Config,
		Log:    params.Log,
	})
	if err != nil {
		return nil, err
	}

	return &InvocationRuntime{
		dispatcher: dispatcher,
		log:        params.Log.Named("runtime"),
	}, nil
}

func NewLifecycleRuntime(params RuntimeParams, lc fx.Lifecycle) (Runtime, error) {
	r, err := NewRuntime(params)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return r.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return r.Shutdown(ctx)
		},
	})

	return r, nil
}

func (r *InvocationRuntime) Start(ctx context.Context) error {
	return r.dispatcher.Start(ctx)
}

func (r *InvocationRuntime) Handle(
	ctx context.Context,
	req models.Request,
) (supervisor.Result, error) {
	return r.dispatcher.Send(ctx, req)
}

func (r *InvocationRuntime) Shutdown(ctx context.Context) error {
	return r.dispatcher.Shutdown(ctx)
}
