//go:build unix

package main

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// probeProcess checks whether the pid is alive and signalable without
// sending anything. ESRCH and EPERM map onto the terminal sentinels; any
// other outcome leaves classification to the caller.
func probeProcess(pid int) error {
	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ESRCH):
		return fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
	case errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: pid %d", ErrPermissionDenied, pid)
	}
	return nil
}
