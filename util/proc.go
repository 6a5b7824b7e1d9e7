package util

import (
	"errors"
	"os/exec"
	"strconv"
)

// IsProcessAlive reports whether a process with the given pid exists.
func IsProcessAlive(pid int) bool {
	cmd := exec.Command("ps", "-p", strconv.Itoa(pid))

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// if the process is found ps returns with exit status 0,
		// otherwise it returns with another exit status
		return exitErr.ExitCode() == 0
	}
	if err != nil {
		// if an error occured, return false
		return false
	}

	// ps returned a zero exit status, so the process was found
	return true
}
