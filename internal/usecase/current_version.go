package usecase

import (
	"context"
	"fmt"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
)

// CurrentVersionUseCase finds the version the working tree is based on.

type CurrentVersionUseCase struct {
	GitRepo repository.GitRepository
	Scheme  domain.TagScheme
}

// Execute returns the highest version tagged on a commit reachable from HEAD.
func (uc *CurrentVersionUseCase) Execute(ctx context.Context) (domain.Version, error) {
	names, err := uc.GitRepo.TagsReachableFromHead(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read history tags: %w", err)
	}
	v, ok := uc.Scheme.Versions(names).Latest()
	if !ok {
		return 0, domain.ErrNoCurrentVersion
	}
	return v, nil
}
