package worker

import (
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

type proc struct {
	pid         int
	cmd         *exec.Cmd
	output      *Accumulator
	termination chan ExitEvent

	log *zap.Logger
}

func startProc(
	config StartConfig,
	args []string,
	policy StreamPolicy,
	streams Streams,
	log *zap.Logger,
) (*proc, error) {
	cmd := exec.Command(config.Cmd, args...)

	if config.Env != nil {
		env := os.Environ()
		for k, v := range config.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = env
	}

	if config.Cwd != "" {
		cmd.Dir = config.Cwd
	}

	// a nil stdin reads from the null device
	cmd.Stdin = nil

	var output *Accumulator

	switch policy {
	case InheritStreams:
		cmd.Stdout = streams.Stdout
		cmd.Stderr = streams.Stderr
	case CaptureStreams:
		output = &Accumulator{}
		cmd.Stdout = output
		// a nil stderr writes to the null device
		cmd.Stderr = nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStreamPolicy, policy)
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	log = log.Named("proc").With(zap.Int("pid", cmd.Process.Pid))

	process := &proc{
		pid:         cmd.Process.Pid,
		cmd:         cmd,
		output:      output,
		termination: make(chan ExitEvent, 1),
		log:         log,
	}

	go process.wait()

	return process, nil
}

// wait blocks until the process exits and publishes the exit event.
//
// If stdout is not an *os.File, exec copies it to the accumulator in
// a separate goroutine, and cmd.Wait only returns once that goroutine
// has reached the end of the stream. The accumulator is therefore
// complete when it is read below.
func (p *proc) wait() {
	err := p.cmd.Wait()

	evt := getExitEvent(err)

	if p.output != nil {
		evt.Output = p.output.Bytes()
	}

	p.log.Debug("process exited",
		zap.Intp("code", evt.Code),
		zap.Intp("signal", evt.Signal),
	)

	p.termination <- evt

	close(p.termination)
}

// Done returns the channel that receives the exit event
// of the process, and is closed afterwards.
func (p *proc) Done() <-chan ExitEvent {
	return p.termination
}
