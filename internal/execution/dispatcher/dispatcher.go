package dispatcher

import (
	"context"

	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
)

type Dispatcher interface {
	// Send invokes the worker for the request and blocks until the
	// invocation completes or the context is done. A done context
	// does not stop the worker.
	Send(context.Context, models.Request) (supervisor.Result, error)

	// Start starts the dispatcher
	Start(context.Context) error

	// Shutdown stops the dispatcher and waits for all workers to finish.
	Shutdown(context.Context) error
}

type SupervisorFactory func(supervisor.Params) (supervisor.Supervisor, error)

func defaultSupervisorFactory(
	params supervisor.Params,
) (supervisor.Supervisor, error) {
	return supervisor.New(params)
}
