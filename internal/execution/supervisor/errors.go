package supervisor

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrLaunchFailure is returned if the worker process could not be spawned.
	ErrLaunchFailure = errors.New("launch failure")

	// ErrNonZeroExit is returned if the worker process did not exit with code 0.
	ErrNonZeroExit = errors.New("non-zero exit")

	// ErrAbnormalTermination is returned if the worker process was terminated
	// by a signal. Errors matching ErrAbnormalTermination also match ErrNonZeroExit.
	ErrAbnormalTermination = errors.New("abnormal termination")
)

// LaunchError is the failure reported if the worker process could not be spawned.
type LaunchError struct {
	// Cmd is the command that was executed.
	Cmd string

	// Err is the underlying cause.
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Cmd, e.Err)
}

func (e *LaunchError) Unwrap() []error {
	return []error{ErrLaunchFailure, e.Err}
}

// ExitError is the failure reported if the worker process terminated
// unsuccessfully. Either Code or Signal is set.
type ExitError struct {
	// Code is the exit code of the process.
	Code *int

	// Signal is the signal that terminated the process.
	Signal *int
}

func (e *ExitError) Error() string {
	if e.Signal != nil {
		return fmt.Sprintf(
			"process exited with non-zero status: terminated by signal %s",
			signalName(*e.Signal),
		)
	}

	code := 1
	if e.Code != nil {
		code = *e.Code
	}

	return fmt.Sprintf("process exited with non-zero status code %d", code)
}

func (e *ExitError) Unwrap() []error {
	if e.Signal != nil {
		return []error{ErrNonZeroExit, ErrAbnormalTermination}
	}

	return []error{ErrNonZeroExit}
}

// ExitCode returns the exit code of the process, or -1
// if the process was terminated by a signal.
func (e *ExitError) ExitCode() int {
	if e.Code == nil {
		return -1
	}

	return *e.Code
}

var signalNames = map[syscall.Signal]string{
	syscall.SIGABRT: "SIGABRT",
	syscall.SIGBUS:  "SIGBUS",
	syscall.SIGHUP:  "SIGHUP",
	syscall.SIGINT:  "SIGINT",
	syscall.SIGKILL: "SIGKILL",
	syscall.SIGPIPE: "SIGPIPE",
	syscall.SIGQUIT: "SIGQUIT",
	syscall.SIGSEGV: "SIGSEGV",
	syscall.SIGTERM: "SIGTERM",
}

func signalName(signo int) string {
	if name, ok := signalNames[syscall.Signal(signo)]; ok {
		return name
	}

	return fmt.Sprintf("signal %d", signo)
}
