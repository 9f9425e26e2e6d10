package usecase

import (
	"context"
	"fmt"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
	"go.uber.org/zap"
)

// SyncWithRemoteUseCase makes the local versions a subset of the remote ones.
// Local tags are never pushed.

type SyncWithRemoteUseCase struct {
	GitRepo repository.GitRepository
	Scheme  domain.TagScheme
	Log     *zap.Logger
}

// Execute fetches the remote tags and prunes local versions the remote no
// longer has. A failing prune leaves the earlier prunes in place.
func (uc *SyncWithRemoteUseCase) Execute(ctx context.Context) error {
	if err := uc.GitRepo.FetchTags(ctx); err != nil {
		return fmt.Errorf("failed to fetch tags: %w", err)
	}
	list := &ListVersionsUseCase{GitRepo: uc.GitRepo, Scheme: uc.Scheme}
	remote, err := list.Execute(ctx, Remote)
	if err != nil {
		return err
	}
	local, err := list.Execute(ctx, Local)
	if err != nil {
		return err
	}
	for _, v := range local.Difference(remote) {
		tag := uc.Scheme.TagName(v)
		uc.Log.Debug("Pruning version missing on remote", zap.String("tag", tag))
		if err := uc.GitRepo.DeleteTag(ctx, tag); err != nil {
			return fmt.Errorf("failed to prune tag %s: %w", tag, err)
		}
	}
	return nil
}
