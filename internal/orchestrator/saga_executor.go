package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/bsrvc/bsr/internal/domain"
	"go.uber.org/zap"
)

// SagaStep represents a single step in the saga workflow
type SagaStep struct {
	Name       string
	Type       domain.OperationType
	Execute    func(ctx context.Context) (rollbackData map[string]any, err error)
	Compensate func(ctx context.Context, rollbackData map[string]any) error
}

// SagaExecutor runs steps in order and, when one fails, compensates the
// completed ones in reverse. Steps are never retried.
type SagaExecutor struct {
	state *domain.WorkflowState
	steps []SagaStep
	log   *zap.Logger
}

// NewSagaExecutor creates a new saga executor
func NewSagaExecutor(log *zap.Logger) *SagaExecutor {
	return &SagaExecutor{
		state: domain.NewWorkflowState(),
		steps: []SagaStep{},
		log:   log,
	}
}

// AddStep adds a step to the saga
func (s *SagaExecutor) AddStep(step SagaStep) {
	s.steps = append(s.steps, step)
	s.state.AddOperation(step.Type)
}

// Execute runs the saga workflow with automatic rollback on failure
func (s *SagaExecutor) Execute(ctx context.Context) error {
	s.state.Status = domain.WorkflowStatusRunning
	for _, step := range s.steps {
		if err := s.executeStep(ctx, step); err != nil {
			s.state.MarkOperationFailed(step.Type, err)
			stepErr := fmt.Errorf("step '%s' failed: %w", step.Name, err)
			// Rollback must finish even when the caller's context is done.
			rollbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RollbackTimeout)
			rollbackErr := s.rollback(rollbackCtx)
			cancel()
			if rollbackErr != nil {
				return errors.Join(stepErr, rollbackErr)
			}
			return stepErr
		}
	}
	s.state.Status = domain.WorkflowStatusCompleted
	return nil
}

func (s *SagaExecutor) executeStep(ctx context.Context, step SagaStep) error {
	s.state.MarkOperationStarted(step.Type)
	s.log.Debug("Running step", zap.String("step", step.Name))
	if err := ctx.Err(); err != nil {
		return err
	}
	rollbackData, err := step.Execute(ctx)
	if err != nil {
		return err
	}
	s.state.MarkOperationCompleted(step.Type, rollbackData)
	return nil
}

// rollback executes compensating actions for completed operations
func (s *SagaExecutor) rollback(ctx context.Context) error {
	completedOps := s.state.CompletedOperations()
	if len(completedOps) == 0 {
		s.log.Debug("No operations to roll back")
		return nil
	}
	s.log.Warn("Rolling back", zap.Int("operations", len(completedOps)))
	for _, op := range completedOps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("rollback canceled: %w", err)
		}
		step := s.findStepByType(op.Type)
		if step == nil || step.Compensate == nil {
			continue
		}
		s.log.Info("Rolling back step", zap.String("step", step.Name))
		if err := step.Compensate(ctx, op.RollbackData); err != nil {
			return fmt.Errorf("rollback failed for %s: %w", step.Name, err)
		}
		s.state.MarkOperationCompensated(op.Type)
	}
	s.state.Status = domain.WorkflowStatusRolledBack
	return nil
}

// findStepByType finds a saga step by operation type
func (s *SagaExecutor) findStepByType(opType domain.OperationType) *SagaStep {
	for i := range s.steps {
		if s.steps[i].Type == opType {
			return &s.steps[i]
		}
	}
	return nil
}

// State returns the workflow bookkeeping of this run.
func (s *SagaExecutor) State() *domain.WorkflowState {
	return s.state
}
