package orchestrator

import (
	"context"
	"fmt"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
	"github.com/bsrvc/bsr/internal/usecase"
	"go.uber.org/zap"
)

// withLock runs fn while holding the repository lock.
func withLock(ctx context.Context, lock repository.RepoLock, log *zap.Logger, fn func(ctx context.Context) error) (err error) {
	release, err := lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock repository: %w", err)
	}
	defer func() {
		if releaseErr := release(); releaseErr != nil {
			log.Warn("Failed to release repository lock", zap.Error(releaseErr))
		}
	}()
	return fn(ctx)
}

// syncWithRemote reconciles the local versions with the remote ones.
func syncWithRemote(ctx context.Context, gitRepo repository.GitRepository, scheme domain.TagScheme, log *zap.Logger) error {
	uc := &usecase.SyncWithRemoteUseCase{GitRepo: gitRepo, Scheme: scheme, Log: log}
	if err := uc.Execute(ctx); err != nil {
		return fmt.Errorf("failed to sync with remote: %w", err)
	}
	return nil
}

// localVersions lists the versions known locally.
func localVersions(ctx context.Context, gitRepo repository.GitRepository, scheme domain.TagScheme) (domain.VersionSet, error) {
	uc := &usecase.ListVersionsUseCase{GitRepo: gitRepo, Scheme: scheme}
	return uc.Execute(ctx, usecase.Local)
}
