package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/gofrs/flock"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/afero"
)

const (
	// LockFileName is the name of the lock file inside the git directory
	LockFileName = "bsr.lock"
	// LockDirPermissions defines the permissions for the lock directory
	LockDirPermissions = 0700
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

// RepoLock serializes bsr processes that mutate the same worktree.
type RepoLock interface {
	Acquire(ctx context.Context) (release func() error, err error)
}

// fileLock implements RepoLock with an flock'ed file.
type fileLock struct {
	fs      afero.Fs
	path    string
	timeout time.Duration
}

// NewRepoLock creates a lock on <gitDir>/bsr.lock. Acquire gives up after
// timeout; a zero timeout tries exactly once.
func NewRepoLock(fs afero.Fs, gitDir string, timeout time.Duration) RepoLock {
	return &fileLock{
		fs:      fs,
		path:    filepath.Join(gitDir, LockFileName),
		timeout: timeout,
	}
}

// Acquire takes the exclusive lock, polling until the timeout elapses.
func (l *fileLock) Acquire(ctx context.Context) (func() error, error) {
	if err := l.fs.MkdirAll(filepath.Dir(l.path), LockDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to ensure lock directory: %w", err)
	}
	lock := flock.New(l.path)
	backoff := retry.WithMaxDuration(l.timeout, retry.NewConstant(LockRetryInterval))
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if !locked {
			return retry.RetryableError(domain.ErrLocked)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return func() error {
		// Unlock only; the file is reused by later runs.
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("failed to unlock %s: %w", l.path, err)
		}
		return nil
	}, nil
}
