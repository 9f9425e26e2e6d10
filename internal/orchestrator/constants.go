package orchestrator

import (
	"fmt"
	"os"
	"time"

	"github.com/bsrvc/bsr/internal/domain"
)

// RollbackTimeout bounds the compensating actions of a failed push.
var RollbackTimeout = getTimeoutOrDefault("BSR_ROLLBACK_TIMEOUT", 2*time.Minute)

// getTimeoutOrDefault returns the duration in envVar, or def when unset or invalid.
func getTimeoutOrDefault(envVar string, def time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	return def
}

// File permission constants
const (
	// FilePermissionsReadWrite is the standard permission for created files
	FilePermissionsReadWrite = 0644
	// DirPermissionsDefault is the standard permission for created directories
	DirPermissionsDefault = 0755
)

const (
	// KeepFile keeps otherwise empty hook directories under version control.
	KeepFile = ".keep"
	// InitCommitMessage is the message of the commit made by init.
	InitCommitMessage = "bsr init"
	// tempBranchIDLength is the number of UUID hex digits in a temp branch name.
	tempBranchIDLength = 8
)

// VersionCommitMessage is the commit message of a published version.
func VersionCommitMessage(v domain.Version) string {
	return fmt.Sprintf("version %d", v)
}
