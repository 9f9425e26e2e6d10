package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoLock_Acquire(t *testing.T) {
	t.Run("Should acquire and release the lock", func(t *testing.T) {
		gitDir := filepath.Join(t.TempDir(), ".git")
		lock := NewRepoLock(afero.NewOsFs(), gitDir, time.Second)
		release, err := lock.Acquire(context.Background())
		require.NoError(t, err)
		exists, err := afero.Exists(afero.NewOsFs(), filepath.Join(gitDir, LockFileName))
		require.NoError(t, err)
		assert.True(t, exists)
		require.NoError(t, release())
		// Released locks can be taken again
		release, err = lock.Acquire(context.Background())
		require.NoError(t, err)
		assert.NoError(t, release())
	})
	t.Run("Should fail while another holder keeps the lock", func(t *testing.T) {
		gitDir := t.TempDir()
		first := NewRepoLock(afero.NewOsFs(), gitDir, time.Second)
		second := NewRepoLock(afero.NewOsFs(), gitDir, 300*time.Millisecond)
		release, err := first.Acquire(context.Background())
		require.NoError(t, err)
		defer func() { assert.NoError(t, release()) }()
		_, err = second.Acquire(context.Background())
		assert.ErrorIs(t, err, domain.ErrLocked)
	})
	t.Run("Should stop waiting when the context is canceled", func(t *testing.T) {
		gitDir := t.TempDir()
		first := NewRepoLock(afero.NewOsFs(), gitDir, time.Second)
		second := NewRepoLock(afero.NewOsFs(), gitDir, time.Minute)
		release, err := first.Acquire(context.Background())
		require.NoError(t, err)
		defer func() { assert.NoError(t, release()) }()
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		_, err = second.Acquire(ctx)
		assert.Error(t, err)
	})
}
