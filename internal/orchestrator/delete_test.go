package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDeleteOrchestrator_Execute(t *testing.T) {
	all := []string{"bsr/vers/v0", "bsr/vers/v1", "bsr/vers/v2", "bsr/vers/v3"}

	t.Run("Should delete every version up to the bound", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		lock := new(mockRepoLock)
		var out bytes.Buffer
		lock.On("Acquire", mock.Anything).Return(nil)
		expectSync(gitRepo, all, all)
		gitRepo.On("ListTags", mock.Anything).Return(all, nil).Once()
		gitRepo.On("DeleteRemoteTag", mock.Anything, "bsr/vers/v1").Return(nil).Once()
		gitRepo.On("DeleteRemoteTag", mock.Anything, "bsr/vers/v0").Return(nil).Once()
		// The second pass sees the pruned remote and removes the local tags.
		expectSync(gitRepo, []string{"bsr/vers/v2", "bsr/vers/v3"}, all)
		gitRepo.On("DeleteTag", mock.Anything, "bsr/vers/v1").Return(nil).Once()
		gitRepo.On("DeleteTag", mock.Anything, "bsr/vers/v0").Return(nil).Once()
		orch := NewDeleteOrchestrator(gitRepo, lock, testScheme, zap.NewNop(), &out)
		require.NoError(t, orch.Execute(context.Background(), DeleteConfig{Version: 1}))
		assert.Equal(t, "deleted 2 version(s) up to 1\n", out.String())
		assert.Equal(t, 1, lock.released)
		gitRepo.AssertExpectations(t)
		gitRepo.AssertNotCalled(t, "DeleteRemoteTag", mock.Anything, "bsr/vers/v2")
		gitRepo.AssertNotCalled(t, "DeleteRemoteTag", mock.Anything, "bsr/vers/v3")
	})

	t.Run("Should refuse to delete the latest version", func(t *testing.T) {
		for _, bound := range []domain.Version{3, 7} {
			gitRepo := new(mockGitRepository)
			lock := new(mockRepoLock)
			var out bytes.Buffer
			lock.On("Acquire", mock.Anything).Return(nil)
			expectSync(gitRepo, all, all)
			gitRepo.On("ListTags", mock.Anything).Return(all, nil).Once()
			orch := NewDeleteOrchestrator(gitRepo, lock, testScheme, zap.NewNop(), &out)
			err := orch.Execute(context.Background(), DeleteConfig{Version: bound})
			assert.ErrorIs(t, err, domain.ErrLatestVersion)
			gitRepo.AssertNotCalled(t, "DeleteRemoteTag", mock.Anything, mock.Anything)
			gitRepo.AssertNotCalled(t, "DeleteTag", mock.Anything, mock.Anything)
		}
	})

	t.Run("Should fail when there are no versions", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		lock := new(mockRepoLock)
		var out bytes.Buffer
		lock.On("Acquire", mock.Anything).Return(nil)
		expectSync(gitRepo, []string{}, []string{"unrelated"})
		gitRepo.On("ListTags", mock.Anything).Return([]string{"unrelated"}, nil).Once()
		orch := NewDeleteOrchestrator(gitRepo, lock, testScheme, zap.NewNop(), &out)
		err := orch.Execute(context.Background(), DeleteConfig{Version: 0})
		assert.ErrorIs(t, err, domain.ErrNoVersions)
	})

	t.Run("Should stop when a remote deletion fails", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		lock := new(mockRepoLock)
		var out bytes.Buffer
		lock.On("Acquire", mock.Anything).Return(nil)
		expectSync(gitRepo, all, all)
		gitRepo.On("ListTags", mock.Anything).Return(all, nil).Once()
		gitRepo.On("DeleteRemoteTag", mock.Anything, "bsr/vers/v2").Return(errors.New("permission denied"))
		orch := NewDeleteOrchestrator(gitRepo, lock, testScheme, zap.NewNop(), &out)
		err := orch.Execute(context.Background(), DeleteConfig{Version: 2})
		assert.ErrorContains(t, err, "failed to delete version 2")
		gitRepo.AssertNotCalled(t, "DeleteRemoteTag", mock.Anything, "bsr/vers/v1")
	})
}
