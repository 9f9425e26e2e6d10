package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
	"go.uber.org/zap"
)

// DeleteConfig contains configuration for the delete workflow.
type DeleteConfig struct {
	// Version is the inclusive upper bound of the versions to delete.
	Version domain.Version
}

// DeleteOrchestrator removes every version up to a bound, always keeping the latest.
type DeleteOrchestrator struct {
	gitRepo repository.GitRepository
	lock    repository.RepoLock
	scheme  domain.TagScheme
	log     *zap.Logger
	out     io.Writer
}

// NewDeleteOrchestrator creates a new delete orchestrator.
func NewDeleteOrchestrator(
	gitRepo repository.GitRepository,
	lock repository.RepoLock,
	scheme domain.TagScheme,
	log *zap.Logger,
	out io.Writer,
) *DeleteOrchestrator {
	return &DeleteOrchestrator{
		gitRepo: gitRepo,
		lock:    lock,
		scheme:  scheme,
		log:     log,
		out:     out,
	}
}

// Execute runs the delete workflow.
func (o *DeleteOrchestrator) Execute(ctx context.Context, cfg DeleteConfig) error {
	return withLock(ctx, o.lock, o.log, func(ctx context.Context) error {
		return o.delete(ctx, cfg.Version)
	})
}

func (o *DeleteOrchestrator) delete(ctx context.Context, bound domain.Version) error {
	if err := syncWithRemote(ctx, o.gitRepo, o.scheme, o.log); err != nil {
		return err
	}
	vers, err := localVersions(ctx, o.gitRepo, o.scheme)
	if err != nil {
		return err
	}
	latest, ok := vers.Latest()
	if !ok {
		return domain.ErrNoVersions
	}
	if bound >= latest {
		return fmt.Errorf("%w: %d is not below %d", domain.ErrLatestVersion, bound, latest)
	}
	doomed := vers.AtOrBelow(bound)
	for _, v := range doomed {
		tag := o.scheme.TagName(v)
		o.log.Info("Deleting remote version", zap.String("tag", tag))
		if err := o.gitRepo.DeleteRemoteTag(ctx, tag); err != nil {
			return fmt.Errorf("failed to delete version %d: %w", v, err)
		}
	}
	if err := syncWithRemote(ctx, o.gitRepo, o.scheme, o.log); err != nil {
		return err
	}
	fmt.Fprintf(o.out, "deleted %d version(s) up to %d\n", len(doomed), bound)
	return nil
}
