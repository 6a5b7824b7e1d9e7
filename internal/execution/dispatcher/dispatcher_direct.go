package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
	"go.uber.org/zap"
)

// DirectDispatcher invokes the worker immediately for every request.
type DirectDispatcher struct {
	supervisor supervisor.Supervisor
	pending    sync.WaitGroup
	log        *zap.Logger
}

var _ Dispatcher = (*DirectDispatcher)(nil)

type DirectDispatcherConfig struct {
	// SupervisorConfig is the configuration to use for the supervisor
	Supervisor supervisor.Config `conf:"supervisor,squash"`
}

type DirectDispatcherParams struct {
	// Config is the config for the dispatcher and the underlying supervisor
	Config DirectDispatcherConfig

	// SupervisorFactory is the factory function to create a new supervisor
	SupervisorFactory SupervisorFactory

	// Log is the logger to use for the dispatcher
	Log *zap.Logger
}

func NewDirectDispatcher(params DirectDispatcherParams) (*DirectDispatcher, error) {
	if params.SupervisorFactory == nil {
		params.SupervisorFactory = defaultSupervisorFactory
	}

	sv, err := params.SupervisorFactory(supervisor.Params{
		Config: params.Config.Supervisor,
		Log:    params.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating supervisor: %w", err)
	}

	return &DirectDispatcher{
		supervisor: sv,
		log:        params.Log.Named("dispatcher_direct"),
	}, nil
}

func (m *DirectDispatcher) Start(context.Context) error {
	// starting the dispatcher is a no-op, workers
	// are spawned per request
	return nil
}

func (m *DirectDispatcher) Send(
	ctx context.Context,
	req models.Request,
) (supervisor.Result, error) {
	m.log.Debug("invoking worker")

	m.pending.Add(1)

	completion := m.supervisor.Invoke(ctx, req)
	completion.OnComplete(func(supervisor.Result, error) {
		m.pending.Done()
	})

	res, err := completion.Wait(ctx)
	if err != nil {
		m.log.Debug("invocation failed",
			zap.String("invocation_id", completion.ID()),
			zap.Error(err),
		)
		return supervisor.Result{}, err
	}

	return res, nil
}

// Shutdown waits for all running workers to finish, or for the context to be done.
func (m *DirectDispatcher) Shutdown(ctx context.Context) error {
	m.log.Debug("shutting down")

	done := make(chan struct{})

	go func() {
		m.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.log.Debug("shut down")
		return nil
	case <-ctx.Done():
		m.log.Warn("shut down before all workers finished")
		return ctx.Err()
	}
}
