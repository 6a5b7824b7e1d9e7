package supervisor

import (
	"github.com/lambda-feedback/harbor-shim/internal/execution/worker"
)

// StartConfig describes the configuration for starting the worker.
type StartConfig = worker.StartConfig

type Config struct {
	// Streams is the stream policy of every worker process. It is
	// fixed for the lifetime of the supervisor. Default is "capture".
	Streams worker.StreamPolicy `conf:"streams"`

	// StartParams are the parameters used to start the worker binary.
	StartParams StartConfig `conf:",squash"`
}
