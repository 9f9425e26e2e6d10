package service

import (
	"context"

	"github.com/bsrvc/bsr/internal/domain"
)

// HookService defines the interface for running lifecycle hooks.

type HookService interface {
	// Discover returns the hooks of a stage in execution order.
	Discover(stage domain.HookStage) ([]string, error)
	// Run executes the hooks of a stage, stopping at the first failure.
	Run(ctx context.Context, stage domain.HookStage) error
}
