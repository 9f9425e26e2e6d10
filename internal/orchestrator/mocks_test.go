package orchestrator

import (
	"context"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock for GitRepository
type mockGitRepository struct {
	mock.Mock
}

func (m *mockGitRepository) strings(args mock.Arguments) ([]string, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockGitRepository) ListTags(ctx context.Context) ([]string, error) {
	return m.strings(m.Called(ctx))
}

func (m *mockGitRepository) ListRemoteTags(ctx context.Context) ([]string, error) {
	return m.strings(m.Called(ctx))
}

func (m *mockGitRepository) FetchTags(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockGitRepository) CreateTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockGitRepository) DeleteTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockGitRepository) PushTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockGitRepository) DeleteRemoteTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) PushBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockGitRepository) CreateOrphanBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockGitRepository) DeleteBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockGitRepository) Checkout(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockGitRepository) CheckoutKeepingChanges(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockGitRepository) CommitAll(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockGitRepository) ResetMixed(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockGitRepository) IsClean(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockGitRepository) TagsReachableFromHead(ctx context.Context) ([]string, error) {
	return m.strings(m.Called(ctx))
}

func (m *mockGitRepository) Log(ctx context.Context, tag string, maxCount int) ([]domain.Commit, error) {
	args := m.Called(ctx, tag, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockGitRepository) Root() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockGitRepository) GitDir() string {
	args := m.Called()
	return args.String(0)
}

// Mock for HookService
type mockHookService struct {
	mock.Mock
}

func (m *mockHookService) Discover(stage domain.HookStage) ([]string, error) {
	args := m.Called(stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockHookService) Run(ctx context.Context, stage domain.HookStage) error {
	args := m.Called(ctx, stage)
	return args.Error(0)
}

// Mock for RepoLock
type mockRepoLock struct {
	mock.Mock
	released int
}

func (m *mockRepoLock) Acquire(ctx context.Context) (func() error, error) {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() error {
		m.released++
		return nil
	}, nil
}
