package domain

import "path/filepath"

// RepoDirEnv carries the repository root to hook scripts.
const RepoDirEnv = "BSR_REPO_DIR"

// Layout holds the paths derived from the repository root. It is computed once
// at startup and passed to whoever needs it.
type Layout struct {
	RepoDir string
	BsrDir  string
}

// NewLayout creates a Layout for repoDir with the bsr directory at bsrDir,
// relative to the root.
func NewLayout(repoDir, bsrDir string) Layout {
	return Layout{
		RepoDir: repoDir,
		BsrDir:  filepath.Join(repoDir, bsrDir),
	}
}

// HookDir returns the directory for hooks of the given stage.
func (l Layout) HookDir(stage HookStage) string {
	return filepath.Join(l.BsrDir, "hook", string(stage))
}

// HookStage identifies a lifecycle point at which hooks run.
type HookStage string

const (
	HookStagePrePush      HookStage = "pre_push"
	HookStagePostCheckout HookStage = "post_checkout"
)

// HookStages lists every stage, in the order init creates them.
var HookStages = []HookStage{HookStagePrePush, HookStagePostCheckout}
