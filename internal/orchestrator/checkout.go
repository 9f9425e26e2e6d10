package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
	"github.com/bsrvc/bsr/internal/service"
	"go.uber.org/zap"
)

// CheckoutConfig contains configuration for the checkout workflow.
type CheckoutConfig struct {
	// Version to check out; nil selects the latest local version.
	Version *domain.Version
}

// CheckoutOrchestrator moves a clean worktree to a published version.
type CheckoutOrchestrator struct {
	gitRepo repository.GitRepository
	hooks   service.HookService
	lock    repository.RepoLock
	scheme  domain.TagScheme
	log     *zap.Logger
	out     io.Writer
}

// NewCheckoutOrchestrator creates a new checkout orchestrator.
func NewCheckoutOrchestrator(
	gitRepo repository.GitRepository,
	hooks service.HookService,
	lock repository.RepoLock,
	scheme domain.TagScheme,
	log *zap.Logger,
	out io.Writer,
) *CheckoutOrchestrator {
	return &CheckoutOrchestrator{
		gitRepo: gitRepo,
		hooks:   hooks,
		lock:    lock,
		scheme:  scheme,
		log:     log,
		out:     out,
	}
}

// Execute runs the checkout workflow.
func (o *CheckoutOrchestrator) Execute(ctx context.Context, cfg CheckoutConfig) error {
	return withLock(ctx, o.lock, o.log, func(ctx context.Context) error {
		return o.checkout(ctx, cfg)
	})
}

func (o *CheckoutOrchestrator) checkout(ctx context.Context, cfg CheckoutConfig) error {
	clean, err := o.gitRepo.IsClean(ctx)
	if err != nil {
		return fmt.Errorf("failed to check worktree status: %w", err)
	}
	if !clean {
		return domain.ErrDirtyWorktree
	}
	if err := syncWithRemote(ctx, o.gitRepo, o.scheme, o.log); err != nil {
		return err
	}
	vers, err := localVersions(ctx, o.gitRepo, o.scheme)
	if err != nil {
		return err
	}
	target, err := o.resolve(vers, cfg.Version)
	if err != nil {
		return err
	}
	tag := o.scheme.TagName(target)
	if err := o.gitRepo.Checkout(ctx, tag); err != nil {
		return fmt.Errorf("failed to check out version %d: %w", target, err)
	}
	if err := o.hooks.Run(ctx, domain.HookStagePostCheckout); err != nil {
		return fmt.Errorf("post-checkout hooks failed: %w", err)
	}
	fmt.Fprintf(o.out, "checked out version %d\n", target)
	return nil
}

// resolve picks the requested version, or the latest when none was requested.
func (o *CheckoutOrchestrator) resolve(vers domain.VersionSet, requested *domain.Version) (domain.Version, error) {
	if requested == nil {
		latest, ok := vers.Latest()
		if !ok {
			return 0, domain.ErrVersionNotFound
		}
		return latest, nil
	}
	if !vers.Contains(*requested) {
		return 0, fmt.Errorf("%w: %d", domain.ErrVersionNotFound, *requested)
	}
	return *requested, nil
}
