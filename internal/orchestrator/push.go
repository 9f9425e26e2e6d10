package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
	"github.com/bsrvc/bsr/internal/service"
	"github.com/bsrvc/bsr/internal/usecase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PushConfig contains configuration for the push workflow.
type PushConfig struct {
	TempBranchPrefix string
}

// PushOrchestrator commits the working tree and publishes it as the next version.
type PushOrchestrator struct {
	gitRepo repository.GitRepository
	hooks   service.HookService
	lock    repository.RepoLock
	scheme  domain.TagScheme
	log     *zap.Logger
	out     io.Writer
	// newID generates the temporary branch suffix.
	newID func() string
}

// NewPushOrchestrator creates a new push orchestrator.
func NewPushOrchestrator(
	gitRepo repository.GitRepository,
	hooks service.HookService,
	lock repository.RepoLock,
	scheme domain.TagScheme,
	log *zap.Logger,
	out io.Writer,
) *PushOrchestrator {
	return &PushOrchestrator{
		gitRepo: gitRepo,
		hooks:   hooks,
		lock:    lock,
		scheme:  scheme,
		log:     log,
		out:     out,
		newID:   func() string { return uuid.NewString()[:tempBranchIDLength] },
	}
}

// Execute runs the push workflow.
func (o *PushOrchestrator) Execute(ctx context.Context, cfg PushConfig) error {
	return withLock(ctx, o.lock, o.log, func(ctx context.Context) error {
		return o.push(ctx, cfg)
	})
}

func (o *PushOrchestrator) push(ctx context.Context, cfg PushConfig) (err error) {
	if err := syncWithRemote(ctx, o.gitRepo, o.scheme, o.log); err != nil {
		return err
	}
	if err := o.hooks.Run(ctx, domain.HookStagePrePush); err != nil {
		return fmt.Errorf("pre-push hooks failed: %w", err)
	}
	current := &usecase.CurrentVersionUseCase{GitRepo: o.gitRepo, Scheme: o.scheme}
	oldVersion, err := current.Execute(ctx)
	if err != nil {
		return fmt.Errorf("failed to determine current version: %w", err)
	}
	newVersion := oldVersion.Next()
	tempBranch := cfg.TempBranchPrefix + "/" + o.newID()
	if err := ValidateBranchName(tempBranch); err != nil {
		return fmt.Errorf("invalid temporary branch: %w", err)
	}
	o.log.Info("Pushing new version",
		zap.Stringer("from", oldVersion),
		zap.Stringer("to", newVersion),
		zap.String("temp_branch", tempBranch))
	saga := NewSagaExecutor(o.log)
	state := saga.State()
	state.OldVersion = oldVersion
	state.NewVersion = newVersion
	state.TempBranch = tempBranch
	compensator := NewCompensatingActions(o.gitRepo, o.log)
	// Only a branch this run created may be deleted.
	branchCreated := false
	defer func() {
		if !branchCreated {
			return
		}
		cleanupErr := compensator.DeleteTempBranch(context.WithoutCancel(ctx), map[string]any{
			rollbackKeyTempBranch: tempBranch,
		})
		if cleanupErr != nil {
			o.log.Error("Failed to delete temporary branch", zap.String("branch", tempBranch), zap.Error(cleanupErr))
		}
		err = joinCleanup(err, cleanupErr)
	}()
	o.buildWorkflow(saga, compensator, oldVersion, newVersion, tempBranch, &branchCreated)
	if err := saga.Execute(ctx); err != nil {
		return fmt.Errorf("failed to push version %d: %w", newVersion, err)
	}
	fmt.Fprintf(o.out, "pushed version %d\n", newVersion)
	return nil
}

// buildWorkflow adds the commit, snapshot and publish steps to the saga.
func (o *PushOrchestrator) buildWorkflow(
	saga *SagaExecutor,
	compensator *CompensatingActions,
	oldVersion, newVersion domain.Version,
	tempBranch string,
	branchCreated *bool,
) {
	message := VersionCommitMessage(newVersion)
	saga.AddStep(SagaStep{
		Name: "Commit working tree",
		Type: domain.OperationTypeCommitWorkingBranch,
		Execute: func(ctx context.Context) (map[string]any, error) {
			if err := o.gitRepo.CommitAll(ctx, message); err != nil {
				return nil, err
			}
			return map[string]any{rollbackKeyRestoreTag: o.scheme.TagName(oldVersion)}, nil
		},
		Compensate: compensator.RestoreVersion,
	})
	saga.AddStep(SagaStep{
		Name: "Snapshot onto orphan branch",
		Type: domain.OperationTypeSnapshotOrphan,
		Execute: func(ctx context.Context) (map[string]any, error) {
			if err := o.gitRepo.CreateOrphanBranch(ctx, tempBranch); err != nil {
				return nil, err
			}
			*branchCreated = true
			if err := o.gitRepo.CommitAll(ctx, message); err != nil {
				return nil, err
			}
			return map[string]any{rollbackKeyTempBranch: tempBranch}, nil
		},
		// The branch is removed after the workflow either way.
		Compensate: compensator.NoOp,
	})
	saga.AddStep(SagaStep{
		Name: "Publish version",
		Type: domain.OperationTypePublishVersion,
		Execute: func(ctx context.Context) (map[string]any, error) {
			publish := &usecase.PublishVersionUseCase{GitRepo: o.gitRepo, Scheme: o.scheme, Log: o.log}
			return nil, publish.Execute(ctx, newVersion)
		},
	})
}
