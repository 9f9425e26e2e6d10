package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
	"go.uber.org/zap"
)

// PublishVersionUseCase tags HEAD with a version and pushes the tag.

type PublishVersionUseCase struct {
	GitRepo repository.GitRepository
	Scheme  domain.TagScheme
	Log     *zap.Logger
}

// Execute runs the use case. When the push fails the local tag is removed
// again, so the tag exists either on both sides or on neither.
func (uc *PublishVersionUseCase) Execute(ctx context.Context, v domain.Version) error {
	tag := uc.Scheme.TagName(v)
	if err := uc.GitRepo.CreateTag(ctx, tag); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	if err := uc.GitRepo.PushTag(ctx, tag); err != nil {
		pushErr := fmt.Errorf("failed to push tag %s: %w", tag, err)
		uc.Log.Warn("Push failed, removing local tag", zap.String("tag", tag), zap.Error(err))
		if delErr := uc.GitRepo.DeleteTag(ctx, tag); delErr != nil {
			return errors.Join(pushErr, fmt.Errorf("failed to roll back tag %s: %w", tag, delErr))
		}
		return pushErr
	}
	if err := uc.GitRepo.Checkout(ctx, tag); err != nil {
		return fmt.Errorf("failed to check out %s: %w", tag, err)
	}
	uc.Log.Info("Published version", zap.Stringer("version", v), zap.String("tag", tag))
	return nil
}
