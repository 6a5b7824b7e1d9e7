package execution

import (
	"github.com/lambda-feedback/harbor-shim/internal/execution/dispatcher"
	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
	"go.uber.org/zap"
)

type Dispatcher dispatcher.Dispatcher

type Config struct {
	// MaxWorkers is the maximum number of concurrent workers. If
	// zero, every request is dispatched to a new worker immediately.
	MaxWorkers int `conf:"max_workers"`

	// SupervisorConfig is the configuration to use for the supervisor
	Supervisor supervisor.Config `conf:",squash"`
}

type Params struct {
	// Config is the config for the dispatcher and the underlying supervisors
	Config Config

	// Log is the logger to use for the dispatcher
	Log *zap.Logger
}

func NewDispatcher(params Params) (dispatcher.Dispatcher, error) {
	if params.Config.MaxWorkers <= 0 {
		return dispatcher.NewDirectDispatcher(
			dispatcher.DirectDispatcherParams{
				Config: dispatcher.DirectDispatcherConfig{
					Supervisor: params.Config.Supervisor,
				},
				Log: params.Log,
			},
		)
	}

	return dispatcher.NewPooledDispatcher(
		dispatcher.PooledDispatcherParams{
			Config: dispatcher.PooledDispatcherConfig{
				Supervisor: params.Config.Supervisor,
				MaxWorkers: params.Config.MaxWorkers,
			},
			Log: params.Log,
		},
	)
}
