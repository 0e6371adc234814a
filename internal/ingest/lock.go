package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"listwise/internal/services"
)

// sessionLock guards media work on one session across processes.
type sessionLock struct {
	path string
	lock *flock.Flock
}

func acquire(dir, sessionID string) (*sessionLock, error) {
	if dir == "" {
		return &sessionLock{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "create lock dir", dir, err)
	}
	path := filepath.Join(dir, sessionID+".lock")
	l := &sessionLock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrSessionBusy, "ingest", "acquire session lock",
			fmt.Sprintf("another upload is running on session %s", sessionID), nil)
	}
	return l, nil
}

func (l *sessionLock) release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
