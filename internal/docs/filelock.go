package docs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// ErrLockTimeout indicates the lock acquisition timed out.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// FileLock serializes repository syncs across processes using flock(2).
// Two server instances sharing a document root must not run git against the
// same checkouts at once; the kernel releases the lock automatically if the
// holder crashes.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a file lock at the given path. The lock file and its
// parent directories are created on first acquisition.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		path: path,
	}
}

// TryLock attempts to acquire the exclusive lock without blocking.
// It returns false (with no error) when another process holds the lock.
func (l *FileLock) TryLock() (bool, error) {
	if err := l.open(); err != nil {
		return false, err
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		l.close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return false, nil
		}
		return false, fmt.Errorf("flock failed: %w", err)
	}

	return true, nil
}

// Lock acquires the exclusive lock, polling until it is available, the
// timeout expires, or the context is canceled. Returns ErrLockTimeout when
// the deadline passes first.
func (l *FileLock) Lock(ctx context.Context, timeout time.Duration) error {
	if err := l.open(); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	pollInterval := 10 * time.Millisecond
	const maxPollInterval = 500 * time.Millisecond

	for {
		if time.Now().After(deadline) {
			l.close()
			return ErrLockTimeout
		}

		err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			l.close()
			return fmt.Errorf("flock failed: %w", err)
		}

		select {
		case <-ctx.Done():
			l.close()
			return ctx.Err()
		case <-time.After(pollInterval):
			pollInterval = min(pollInterval*2, maxPollInterval)
		}
	}
}

// Unlock releases the lock. Calling Unlock on an unlocked FileLock is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("flock unlock failed: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close failed: %w", closeErr)
	}

	return nil
}

// IsLocked returns true if the lock is currently held by this instance.
func (l *FileLock) IsLocked() bool {
	return l.file != nil
}

// Path returns the path to the lock file.
func (l *FileLock) Path() string {
	return l.path
}

func (l *FileLock) open() error {
	if l.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	l.file = file
	return nil
}

func (l *FileLock) close() {
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}
