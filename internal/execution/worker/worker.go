package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Worker runs the worker binary once.
type Worker interface {
	// Start spawns the worker process with the given positional
	// arguments. It returns an error if the process could not be
	// spawned. Start must only be called once.
	Start(ctx context.Context, args []string) error

	// Wait blocks until the worker process has exited and returns
	// its exit event. The exit event is delivered exactly once.
	Wait(ctx context.Context) (ExitEvent, error)

	// Pid returns the process id, or 0 if not started.
	Pid() int
}

type ProcessWorker struct {
	config  StartConfig
	policy  StreamPolicy
	streams Streams

	processLock sync.Mutex
	process     *proc

	log *zap.Logger
}

var _ Worker = (*ProcessWorker)(nil)

type Params struct {
	// Config describes the binary to execute.
	Config StartConfig

	// Policy is the stream policy of the process.
	Policy StreamPolicy

	// Streams are the streams inherited under InheritStreams.
	// Defaults to the streams of the current process.
	Streams Streams

	// Log is the logger to use for the worker
	Log *zap.Logger
}

func NewProcessWorker(params Params) *ProcessWorker {
	streams := params.Streams
	if streams.Stdout == nil && streams.Stderr == nil {
		streams = ParentStreams()
	}

	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &ProcessWorker{
		config:  params.Config,
		policy:  params.Policy,
		streams: streams,
		log:     log.Named("worker"),
	}
}

// Start starts the worker process.
func (w *ProcessWorker) Start(ctx context.Context, args []string) error {
	w.log.Debug("starting worker process",
		zap.String("command", w.config.Cmd),
		zap.Strings("args", args),
		zap.String("cwd", w.config.Cwd),
		zap.Stringer("streams", w.policy),
	)

	// synchronize access to the process
	w.processLock.Lock()
	defer w.processLock.Unlock()

	// return if the worker is already started
	if w.process != nil {
		return ErrWorkerAlreadyStarted
	}

	// exit early if the context is already cancelled
	if ctx.Err() != nil {
		return fmt.Errorf("failed to start process: %w", ctx.Err())
	}

	process, err := startProc(w.config, args, w.policy, w.streams, w.log)
	if err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	w.process = process

	return nil
}

// Wait waits for the worker process to exit. The method blocks until the process
// exits or the context is done. The exit event is only returned to one caller;
// subsequent calls return ErrWorkerExited. Cancelling the context does not
// affect the process.
func (w *ProcessWorker) Wait(ctx context.Context) (ExitEvent, error) {
	process := w.acquireProcess()
	if process == nil {
		return ExitEvent{}, ErrWorkerNotStarted
	}

	select {
	case <-ctx.Done():
		return ExitEvent{}, ctx.Err()
	case evt, ok := <-process.Done():
		if !ok {
			return ExitEvent{}, ErrWorkerExited
		}
		return evt, nil
	}
}

func (w *ProcessWorker) Pid() int {
	if process := w.acquireProcess(); process != nil {
		return process.pid
	}

	return 0
}

// acquireProcess returns the worker process. The method is thread-safe.
func (w *ProcessWorker) acquireProcess() *proc {
	w.processLock.Lock()
	defer w.processLock.Unlock()

	return w.process
}
