package usecase

import (
	"context"
	"fmt"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
)

// Scope selects which side of the ledger is read.
type Scope int

const (
	Local Scope = iota
	Remote
)

func (s Scope) String() string {
	if s == Remote {
		return "remote"
	}
	return "local"
}

// ListVersionsUseCase contains the logic for reading the published versions.

type ListVersionsUseCase struct {
	GitRepo repository.GitRepository
	Scheme  domain.TagScheme
}

// Execute runs the use case.
func (uc *ListVersionsUseCase) Execute(ctx context.Context, scope Scope) (domain.VersionSet, error) {
	var (
		names []string
		err   error
	)
	if scope == Remote {
		names, err = uc.GitRepo.ListRemoteTags(ctx)
	} else {
		names, err = uc.GitRepo.ListTags(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s tags: %w", scope, err)
	}
	return uc.Scheme.Versions(names), nil
}
