package supervisor

import (
	"context"

	"github.com/google/uuid"
	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/internal/execution/worker"
	"go.uber.org/zap"
)

type Supervisor interface {
	// Invoke starts the worker binary for the given request and returns
	// immediately. The returned completion is resolved exactly once,
	// after the worker has terminated or failed to launch.
	//
	// The context only governs whether the worker is started. Once the
	// worker runs, it is neither cancelled nor timed out.
	Invoke(ctx context.Context, req models.Request) *Completion
}

type WorkerSupervisor struct {
	config  Config
	streams worker.Streams

	createWorker WorkerFactoryFn

	log *zap.Logger
}

var _ Supervisor = (*WorkerSupervisor)(nil)

type WorkerFactoryFn func(worker.Params) worker.Worker

type Params struct {
	// Config is the config used to set up the supervisor and its workers.
	Config Config

	// Streams are the streams inherited by workers under the inherit
	// policy. Defaults to the streams of the current process.
	Streams worker.Streams

	// WorkerFactory is a factory function to create a new worker. This
	// is called once per invocation.
	WorkerFactory WorkerFactoryFn

	// Log is the logger to use for the supervisor
	Log *zap.Logger
}

func New(params Params) (*WorkerSupervisor, error) {
	policy, err := worker.ParseStreamPolicy(string(params.Config.Streams))
	if err != nil {
		return nil, err
	}

	config := params.Config
	config.Streams = policy

	if params.WorkerFactory == nil {
		params.WorkerFactory = defaultWorkerFactory
	}

	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &WorkerSupervisor{
		config:       config,
		streams:      params.Streams,
		createWorker: params.WorkerFactory,
		log:          log.Named("supervisor"),
	}, nil
}

func (s *WorkerSupervisor) Invoke(
	ctx context.Context,
	req models.Request,
) *Completion {
	id := uuid.NewString()

	completion := newCompletion(id)

	args := req.Args()

	log := s.log.With(
		zap.String("invocation_id", id),
		zap.String("command", s.config.StartParams.Cmd),
		zap.Strings("args", args),
	)

	w := s.createWorker(worker.Params{
		Config:  s.config.StartParams,
		Policy:  s.config.Streams,
		Streams: s.streams,
		Log:     log,
	})

	if err := w.Start(ctx, args); err != nil {
		log.Warn("failed to launch worker", zap.Error(err))

		completion.fail(&LaunchError{
			Cmd: s.config.StartParams.Cmd,
			Err: err,
		})

		return completion
	}

	log = log.With(zap.Int("pid", w.Pid()))

	log.Debug("worker started")

	go s.await(w, args, completion, log)

	return completion
}

// await blocks until the worker terminates and resolves the completion.
func (s *WorkerSupervisor) await(
	w worker.Worker,
	args []string,
	completion *Completion,
	log *zap.Logger,
) {
	// the worker is never cancelled, so its termination is awaited
	// independent of the context the invocation was started with
	evt, err := w.Wait(context.Background())
	if err != nil {
		log.Error("failed to wait for worker", zap.Error(err))
		completion.fail(err)
		return
	}

	if !evt.Success() {
		log.Warn("worker exited unsuccessfully",
			zap.Intp("code", evt.Code),
			zap.Intp("signal", evt.Signal),
		)

		// captured output of failed runs is discarded
		completion.fail(&ExitError{
			Code:   evt.Code,
			Signal: evt.Signal,
		})

		return
	}

	log.Debug("worker exited", zap.Int("output_bytes", len(evt.Output)))

	completion.succeed(Result{
		InvocationID: completion.ID(),
		Args:         args,
		Output:       evt.Output,
	})
}

func defaultWorkerFactory(params worker.Params) worker.Worker {
	return worker.NewProcessWorker(params)
}
