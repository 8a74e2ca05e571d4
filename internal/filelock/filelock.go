// Package filelock holds the advisory lock that keeps two interactive
// sessions off the same task database.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const lockFileMode = 0o600

// ErrLocked is returned by TryLock when another process holds the lock.
var ErrLocked = errors.New("lock is held by another process")

// Lock is a held session lock.
type Lock struct {
	path string
	f    *os.File
}

// PathFor returns the lock file guarding the given database file.
func PathFor(dbPath string) string {
	return dbPath + ".lock"
}

// TryLock acquires an exclusive advisory lock on path without waiting,
// creating the file if needed. The holder's pid is written into the file so
// a blocked caller can report who owns it.
func TryLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := tryLockFile(f); err != nil {
		_ = f.Close()
		if errors.Is(err, errWouldBlock) {
			if pid := Owner(path); pid > 0 {
				return nil, fmt.Errorf("%w (pid %d)", ErrLocked, pid)
			}
			return nil, ErrLocked
		}
		return nil, err
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}

	return &Lock{path: path, f: f}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock and closes the file. The file itself is left in
// place; removing it would race with a concurrent TryLock.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	_ = l.f.Truncate(0)
	unlockErr := unlockFile(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

// Owner returns the pid recorded in the lock file, or 0.
func Owner(path string) int {
	data, err := os.ReadFile(path) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
