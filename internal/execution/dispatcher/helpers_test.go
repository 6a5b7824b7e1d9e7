package dispatcher_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
	"github.com/lambda-feedback/harbor-shim/internal/execution/worker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// gatedWorker exits successfully, echoing its first argument,
// once its gate is closed.
type gatedWorker struct {
	gate    <-chan struct{}
	running *atomic.Int32
	peak    *atomic.Int32
	args    []string
}

func (w *gatedWorker) Start(ctx context.Context, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.args = args

	n := w.running.Add(1)
	for {
		peak := w.peak.Load()
		if n <= peak || w.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	return nil
}

func (w *gatedWorker) Wait(context.Context) (worker.ExitEvent, error) {
	<-w.gate

	w.running.Add(-1)

	code := 0
	return worker.ExitEvent{Code: &code, Output: []byte(w.args[0])}, nil
}

func (w *gatedWorker) Pid() int {
	return 1
}

type gate struct {
	ch      chan struct{}
	running atomic.Int32
	peak    atomic.Int32
}

func newGate() *gate {
	return &gate{ch: make(chan struct{})}
}

func (g *gate) open() {
	close(g.ch)
}

func (g *gate) supervisorFactory(t *testing.T) func(supervisor.Params) (supervisor.Supervisor, error) {
	return func(params supervisor.Params) (supervisor.Supervisor, error) {
		params.Log = zaptest.NewLogger(t)
		params.WorkerFactory = func(worker.Params) worker.Worker {
			return &gatedWorker{gate: g.ch, running: &g.running, peak: &g.peak}
		}

		s, err := supervisor.New(params)
		require.NoError(t, err)

		return s, nil
	}
}
