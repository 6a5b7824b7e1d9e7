package worker

import (
	"errors"
	"os/exec"
	"syscall"
)

type ExitEvent struct {
	// Code is the exit code of the process
	Code *int

	// Signal is the signal that caused the process to exit
	Signal *int

	// Output is the stdout of the process. It is only
	// set if the worker captures its streams.
	Output []byte
}

// Success reports whether the process exited with code 0.
func (e ExitEvent) Success() bool {
	return e.Code != nil && *e.Code == 0
}

// Abnormal reports whether the process was terminated by a signal.
func (e ExitEvent) Abnormal() bool {
	return e.Signal != nil
}

func getExitEvent(err error) ExitEvent {
	var exitStatus *int
	var signo *int

	var exitError *exec.ExitError

	if err == nil {
		// the process exited successfully, set the exit code to 0
		code := 0
		exitStatus = &code
	} else if errors.As(err, &exitError) {
		// the process exited with an error
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				// the process was terminated by a signal
				sig := int(status.Signal())
				signo = &sig
			} else {
				// the process exited with an exit code
				code := status.ExitStatus()
				exitStatus = &code
			}
		}
	}

	if signo == nil && exitStatus == nil {
		// could not determine the exit status or signal,
		// set exit status to 1
		code := 1
		exitStatus = &code
	}

	return ExitEvent{
		Code:   exitStatus,
		Signal: signo,
	}
}
