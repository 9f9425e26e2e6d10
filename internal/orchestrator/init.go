package orchestrator

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
	"github.com/bsrvc/bsr/internal/usecase"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// InitOrchestrator prepares a repository for versioning and publishes version 0.
type InitOrchestrator struct {
	gitRepo repository.GitRepository
	fsRepo  repository.FileSystemRepository
	lock    repository.RepoLock
	scheme  domain.TagScheme
	layout  domain.Layout
	log     *zap.Logger
	out     io.Writer
}

// NewInitOrchestrator creates a new init orchestrator.
func NewInitOrchestrator(
	gitRepo repository.GitRepository,
	fsRepo repository.FileSystemRepository,
	lock repository.RepoLock,
	scheme domain.TagScheme,
	layout domain.Layout,
	log *zap.Logger,
	out io.Writer,
) *InitOrchestrator {
	return &InitOrchestrator{
		gitRepo: gitRepo,
		fsRepo:  fsRepo,
		lock:    lock,
		scheme:  scheme,
		layout:  layout,
		log:     log,
		out:     out,
	}
}

// Execute runs the init workflow.
func (o *InitOrchestrator) Execute(ctx context.Context) error {
	return withLock(ctx, o.lock, o.log, o.init)
}

func (o *InitOrchestrator) init(ctx context.Context) error {
	list := &usecase.ListVersionsUseCase{GitRepo: o.gitRepo, Scheme: o.scheme}
	remote, err := list.Execute(ctx, usecase.Remote)
	if err != nil {
		return err
	}
	if latest, ok := remote.Latest(); ok {
		return fmt.Errorf("%w: remote already has version %d", domain.ErrAlreadyInitialized, latest)
	}
	branch, err := o.gitRepo.CurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current branch: %w", err)
	}
	if branch == "" {
		return domain.ErrDetachedHead
	}
	if err := o.createLayout(); err != nil {
		return err
	}
	if err := o.gitRepo.CommitAll(ctx, InitCommitMessage); err != nil {
		return fmt.Errorf("failed to commit layout: %w", err)
	}
	if err := o.gitRepo.PushBranch(ctx, branch); err != nil {
		return fmt.Errorf("failed to push branch %s: %w", branch, err)
	}
	publish := &usecase.PublishVersionUseCase{GitRepo: o.gitRepo, Scheme: o.scheme, Log: o.log}
	if err := publish.Execute(ctx, 0); err != nil {
		return fmt.Errorf("failed to publish initial version: %w", err)
	}
	fmt.Fprintf(o.out, "initialized %s at version 0\n", o.layout.RepoDir)
	return nil
}

// createLayout creates the hook directories, each holding a keep file.
// Existing directories and files are left alone.
func (o *InitOrchestrator) createLayout() error {
	for _, stage := range domain.HookStages {
		dir := o.layout.HookDir(stage)
		if err := o.fsRepo.MkdirAll(dir, DirPermissionsDefault); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		keep := filepath.Join(dir, KeepFile)
		exists, err := afero.Exists(o.fsRepo, keep)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", keep, err)
		}
		if exists {
			continue
		}
		if err := afero.WriteFile(o.fsRepo, keep, nil, FilePermissionsReadWrite); err != nil {
			return fmt.Errorf("failed to create %s: %w", keep, err)
		}
		o.log.Debug("Created hook directory", zap.String("dir", dir))
	}
	return nil
}
