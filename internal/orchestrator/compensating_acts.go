package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/bsrvc/bsr/internal/repository"
	"go.uber.org/zap"
)

// Rollback data keys
const (
	rollbackKeyRestoreTag = "restore_tag"
	rollbackKeyTempBranch = "temp_branch"
)

// CompensatingActions provides the rollback operations of the push workflow.
type CompensatingActions struct {
	gitRepo repository.GitRepository
	log     *zap.Logger
}

// NewCompensatingActions creates a new compensating actions handler
func NewCompensatingActions(gitRepo repository.GitRepository, log *zap.Logger) *CompensatingActions {
	return &CompensatingActions{gitRepo: gitRepo, log: log}
}

// RestoreVersion moves HEAD and the index back to the tag recorded in the
// rollback data and detaches there, leaving the working tree untouched.
func (ca *CompensatingActions) RestoreVersion(ctx context.Context, rollbackData map[string]any) error {
	tag, ok := rollbackData[rollbackKeyRestoreTag].(string)
	if !ok || tag == "" {
		return fmt.Errorf("%s not found in rollback data", rollbackKeyRestoreTag)
	}
	ca.log.Info("Restoring previous version", zap.String("tag", tag))
	if err := ca.gitRepo.ResetMixed(ctx, tag); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", tag, err)
	}
	if err := ca.gitRepo.CheckoutKeepingChanges(ctx, tag); err != nil {
		return fmt.Errorf("failed to check out %s: %w", tag, err)
	}
	return nil
}

// DeleteTempBranch removes the snapshot branch named in the rollback data.
func (ca *CompensatingActions) DeleteTempBranch(ctx context.Context, rollbackData map[string]any) error {
	branch, ok := rollbackData[rollbackKeyTempBranch].(string)
	if !ok || branch == "" {
		return nil
	}
	if err := ca.gitRepo.DeleteBranch(ctx, branch); err != nil {
		return fmt.Errorf("failed to delete temporary branch %s: %w", branch, err)
	}
	return nil
}

// NoOp is a no-operation compensating action for operations that don't need rollback
func (ca *CompensatingActions) NoOp(_ context.Context, _ map[string]any) error {
	return nil
}

// joinCleanup attaches a cleanup failure to the workflow result.
func joinCleanup(err, cleanupErr error) error {
	if cleanupErr == nil {
		return err
	}
	return errors.Join(err, cleanupErr)
}
