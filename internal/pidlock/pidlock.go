// Package pidlock provides an exclusive start token backed by a pid
// file. Two bot processes polling the same token would fight over
// updates and corrupt per-chat flow state, so main acquires the token
// once before touching anything else.
package pidlock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning means another live process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

type Lock struct {
	path string
}

// Acquire creates the pid file exclusively. A leftover file from a
// process that is no longer alive is treated as stale and replaced.
func Acquire(path string) (*Lock, error) {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", os.Getpid())
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write pid file %s: %w", path, errors.Join(werr, cerr))
			}
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create pid file %s: %w", path, err)
		}

		stale, serr := isStale(path)
		if serr != nil {
			return nil, serr
		}
		if !stale {
			return nil, ErrAlreadyRunning
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale pid file %s: %w", path, err)
		}
	}

	return nil, ErrAlreadyRunning
}

// Release removes the pid file. Safe to call once at shutdown.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove pid file %s: %w", l.path, err)
	}
	return nil
}

func isStale(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Holder released between our create attempt and now.
			return true, nil
		}
		return false, fmt.Errorf("failed to read pid file %s: %w", path, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		// Unparseable content cannot belong to a live holder.
		return true, nil
	}

	return !processAlive(pid), nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 performs the permission and existence checks only.
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
