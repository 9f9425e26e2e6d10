package domain

import "errors"

// Usage errors. Reported before anything is touched.
var (
	ErrCommandNotSpecified = errors.New("command not specified")
	ErrVersionNotSpecified = errors.New("version not specified")
	ErrInvalidVersion      = errors.New("invalid version")
)

// Precondition errors. Reported before any mutation.
var (
	ErrDirtyWorktree      = errors.New("repository is dirty")
	ErrLatestVersion      = errors.New("latest version can not be deleted")
	ErrNoVersions         = errors.New("no versions found")
	ErrVersionNotFound    = errors.New("version is not found")
	ErrNoCurrentVersion   = errors.New("no version tag found in history")
	ErrAlreadyInitialized = errors.New("ledger is already initialized")
	ErrDetachedHead       = errors.New("HEAD is not on a branch")
	ErrLocked             = errors.New("repository is locked by another bsr process")
)
