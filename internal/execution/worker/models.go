package worker

import (
	"errors"
	"io"
	"os"
	"strings"
)

var (
	ErrWorkerNotStarted     = errors.New("worker not started")
	ErrWorkerAlreadyStarted = errors.New("worker already started")
	ErrWorkerExited         = errors.New("worker exit already consumed")
	ErrInvalidStreamPolicy  = errors.New("invalid stream policy")
)

type StartConfig struct {
	// Cmd is the path or name of the binary to execute
	Cmd string `conf:"command"`

	// Cwd is the working directory in which
	// the binary should be executed
	Cwd string `conf:"cwd"`

	// Env is a map of environment variables to set when running
	// the command, in addition to the environment of the shim.
	Env map[string]string `conf:"env"`
}

// StreamPolicy describes how the standard streams of
// the worker process are wired.
type StreamPolicy string

const (
	// InheritStreams ignores stdin and connects stdout and
	// stderr to the streams of the parent process. Only the
	// exit status of the worker is of interest.
	InheritStreams StreamPolicy = "inherit"

	// CaptureStreams discards stdin and stderr and pipes
	// stdout into the output accumulator.
	CaptureStreams StreamPolicy = "capture"
)

func (p StreamPolicy) String() string {
	return string(p)
}

// ParseStreamPolicy parses a stream policy name. The empty
// string selects the capture policy.
func ParseStreamPolicy(s string) (StreamPolicy, error) {
	switch StreamPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case CaptureStreams, "":
		return CaptureStreams, nil
	case InheritStreams:
		return InheritStreams, nil
	}

	return "", ErrInvalidStreamPolicy
}

// Streams are the parent streams a worker inherits
// under the InheritStreams policy.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// ParentStreams returns the streams of the current process.
func ParentStreams() Streams {
	return Streams{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
