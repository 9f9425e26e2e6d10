package repository

import (
	"context"

	"github.com/bsrvc/bsr/internal/domain"
)

// GitRepository defines the version-control operations the ledger relies on.

type GitRepository interface {
	// Tag operations
	ListTags(ctx context.Context) ([]string, error)
	ListRemoteTags(ctx context.Context) ([]string, error)
	FetchTags(ctx context.Context) error
	CreateTag(ctx context.Context, tag string) error
	DeleteTag(ctx context.Context, tag string) error
	PushTag(ctx context.Context, tag string) error
	DeleteRemoteTag(ctx context.Context, tag string) error
	// Branch operations
	CurrentBranch(ctx context.Context) (string, error)
	PushBranch(ctx context.Context, name string) error
	CreateOrphanBranch(ctx context.Context, name string) error
	DeleteBranch(ctx context.Context, name string) error
	// Worktree operations
	Checkout(ctx context.Context, tag string) error
	CheckoutKeepingChanges(ctx context.Context, tag string) error
	CommitAll(ctx context.Context, message string) error
	ResetMixed(ctx context.Context, tag string) error
	IsClean(ctx context.Context) (bool, error)
	// History
	TagsReachableFromHead(ctx context.Context) ([]string, error)
	Log(ctx context.Context, tag string, maxCount int) ([]domain.Commit, error)
	// Location
	Root() string
	GitDir() string
}
