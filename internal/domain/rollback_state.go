package domain

import (
	"time"
)

// WorkflowStatus represents the overall status of a push workflow
type WorkflowStatus string

const (
	WorkflowStatusPending    WorkflowStatus = "pending"
	WorkflowStatusRunning    WorkflowStatus = "running"
	WorkflowStatusCompleted  WorkflowStatus = "completed"
	WorkflowStatusFailed     WorkflowStatus = "failed"
	WorkflowStatusRolledBack WorkflowStatus = "rolled_back"
)

// OperationStatus represents the status of an individual operation
type OperationStatus string

const (
	OperationStatusPending     OperationStatus = "pending"
	OperationStatusRunning     OperationStatus = "running"
	OperationStatusCompleted   OperationStatus = "completed"
	OperationStatusFailed      OperationStatus = "failed"
	OperationStatusCompensated OperationStatus = "compensated"
)

// OperationType identifies the type of operation
type OperationType string

const (
	OperationTypeCommitWorkingBranch OperationType = "commit_working_branch"
	OperationTypeSnapshotOrphan      OperationType = "snapshot_orphan"
	OperationTypePublishVersion      OperationType = "publish_version"
)

// WorkflowState tracks the operations of a single workflow run. It lives in
// memory only.
type WorkflowState struct {
	StartedAt  time.Time
	UpdatedAt  time.Time
	OldVersion Version
	NewVersion Version
	TempBranch string
	Operations []OperationRecord
	Status     WorkflowStatus
	Error      string
}

// OperationRecord represents a single operation in the workflow
type OperationRecord struct {
	Type         OperationType
	Status       OperationStatus
	StartedAt    time.Time
	CompletedAt  *time.Time
	RollbackData map[string]any
	Error        string
}

// NewWorkflowState creates an empty workflow state
func NewWorkflowState() *WorkflowState {
	now := time.Now()
	return &WorkflowState{
		StartedAt:  now,
		UpdatedAt:  now,
		Operations: []OperationRecord{},
		Status:     WorkflowStatusPending,
	}
}

// AddOperation adds a new operation record to the state
func (ws *WorkflowState) AddOperation(opType OperationType) *OperationRecord {
	ws.Operations = append(ws.Operations, OperationRecord{
		Type:   opType,
		Status: OperationStatusPending,
	})
	ws.UpdatedAt = time.Now()
	return &ws.Operations[len(ws.Operations)-1]
}

// CompletedOperations returns all successfully completed operations in reverse order
func (ws *WorkflowState) CompletedOperations() []OperationRecord {
	var completed []OperationRecord
	for i := len(ws.Operations) - 1; i >= 0; i-- {
		if ws.Operations[i].Status == OperationStatusCompleted {
			completed = append(completed, ws.Operations[i])
		}
	}
	return completed
}

// Operation returns the record for opType, or nil.
func (ws *WorkflowState) Operation(opType OperationType) *OperationRecord {
	for i := range ws.Operations {
		if ws.Operations[i].Type == opType {
			return &ws.Operations[i]
		}
	}
	return nil
}

// MarkOperationStarted marks an operation as started
func (ws *WorkflowState) MarkOperationStarted(opType OperationType) {
	ws.transition(opType, OperationStatusPending, func(op *OperationRecord, now time.Time) {
		op.Status = OperationStatusRunning
		op.StartedAt = now
	})
}

// MarkOperationCompleted marks an operation as completed with rollback data
func (ws *WorkflowState) MarkOperationCompleted(opType OperationType, rollbackData map[string]any) {
	ws.transition(opType, OperationStatusRunning, func(op *OperationRecord, now time.Time) {
		op.Status = OperationStatusCompleted
		op.CompletedAt = &now
		op.RollbackData = rollbackData
	})
}

// MarkOperationFailed marks an operation as failed
func (ws *WorkflowState) MarkOperationFailed(opType OperationType, err error) {
	ws.transition(opType, OperationStatusRunning, func(op *OperationRecord, now time.Time) {
		op.Status = OperationStatusFailed
		op.CompletedAt = &now
		op.Error = err.Error()
	})
	ws.Status = WorkflowStatusFailed
	ws.Error = err.Error()
}

// MarkOperationCompensated marks a completed operation as undone
func (ws *WorkflowState) MarkOperationCompensated(opType OperationType) {
	ws.transition(opType, OperationStatusCompleted, func(op *OperationRecord, _ time.Time) {
		op.Status = OperationStatusCompensated
	})
}

func (ws *WorkflowState) transition(
	opType OperationType,
	from OperationStatus,
	apply func(op *OperationRecord, now time.Time),
) {
	now := time.Now()
	for i := range ws.Operations {
		if ws.Operations[i].Type == opType && ws.Operations[i].Status == from {
			apply(&ws.Operations[i], now)
			ws.UpdatedAt = now
			return
		}
	}
}
