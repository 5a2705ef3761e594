package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrSessionBusy reports that another editor already holds the profile.
var ErrSessionBusy = errors.New("another clipmark session is running")

// Session is an exclusive claim on a data directory.
type Session struct {
	path string
	lock *flock.Flock
}

// AcquireSession takes the single-editor lock in dataDir without blocking.
func AcquireSession(dataDir string) (*Session, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}
	path := filepath.Join(dataDir, "clipmark.lock")
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrSessionBusy, path)
	}
	return &Session{path: path, lock: lock}, nil
}

// Path returns the lock file location.
func (s *Session) Path() string { return s.path }

// Release drops the lock. It is safe to call more than once.
func (s *Session) Release() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}
