package dispatcher

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jackc/puddle/v2"
	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
	"go.uber.org/zap"
)

// PooledDispatcher bounds the number of concurrently running workers.
// Requests exceeding the bound wait for a free slot.
type PooledDispatcher struct {
	pool *puddle.Pool[supervisor.Supervisor]
	log  *zap.Logger
}

var _ Dispatcher = (*PooledDispatcher)(nil)

type PooledDispatcherConfig struct {
	// MaxWorkers is the maximum number of concurrent workers.
	// Defaults to the number of CPU cores.
	MaxWorkers int `conf:"max_workers"`

	// SupervisorConfig is the configuration to use for the supervisor
	Supervisor supervisor.Config `conf:"supervisor,squash"`
}

type PooledDispatcherParams struct {
	// Config is the config for the dispatcher and the underlying supervisors
	Config PooledDispatcherConfig

	// SupervisorFactory is the factory function to create a new supervisor
	SupervisorFactory SupervisorFactory

	// Log is the logger to use for the dispatcher
	Log *zap.Logger
}

func NewPooledDispatcher(params PooledDispatcherParams) (*PooledDispatcher, error) {
	if params.SupervisorFactory == nil {
		params.SupervisorFactory = defaultSupervisorFactory
	}

	if params.Config.MaxWorkers <= 0 {
		params.Config.MaxWorkers = runtime.NumCPU()
	}

	pool, err := createPool(params)
	if err != nil {
		return nil, err
	}

	return &PooledDispatcher{
		pool: pool,
		log:  params.Log.Named("dispatcher_pooled"),
	}, nil
}

func (m *PooledDispatcher) Start(context.Context) error {
	// starting the pool is a no-op
	return nil
}

func (m *PooledDispatcher) Send(
	ctx context.Context,
	req models.Request,
) (supervisor.Result, error) {
	resource, err := m.pool.Acquire(ctx)
	if err != nil {
		return supervisor.Result{}, fmt.Errorf("error acquiring supervisor: %w", err)
	}

	completion := resource.Value().Invoke(ctx, req)

	// the slot is held until the worker has terminated, even
	// if the caller stops waiting for the completion
	completion.OnComplete(func(supervisor.Result, error) {
		m.log.Debug("releasing supervisor back to pool",
			zap.String("invocation_id", completion.ID()),
		)
		resource.Release()
	})

	return completion.Wait(ctx)
}

// Shutdown stops the dispatcher and waits for all workers to finish.
func (m *PooledDispatcher) Shutdown(ctx context.Context) error {
	m.log.Debug("shutting down dispatcher")

	done := make(chan struct{})

	go func() {
		// blocks until all acquired supervisors are released
		m.pool.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		m.log.Warn("shut down before all workers finished")
		return ctx.Err()
	}
}

// Stat returns the number of busy and total slots of the pool.
func (m *PooledDispatcher) Stat() (busy, total int32) {
	stat := m.pool.Stat()
	return stat.AcquiredResources(), stat.MaxResources()
}

// MARK: - Pool

func createPool(
	params PooledDispatcherParams,
) (*puddle.Pool[supervisor.Supervisor], error) {
	constructor := func(context.Context) (supervisor.Supervisor, error) {
		return params.SupervisorFactory(supervisor.Params{
			Config: params.Config.Supervisor,
			Log:    params.Log,
		})
	}

	// supervisors hold no resources beyond their running
	// workers, which are awaited before release
	destructor := func(supervisor.Supervisor) {}

	return puddle.NewPool(&puddle.Config[supervisor.Supervisor]{
		Constructor: constructor,
		Destructor:  destructor,
		MaxSize:     int32(params.Config.MaxWorkers),
	})
}
