package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// HookError reports a hook that could not be run or exited unsuccessfully.
type HookError struct {
	Stage domain.HookStage
	Path  string
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook %s failed: %v", e.Stage, filepath.Base(e.Path), e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// HookOptions configures the hook service.
type HookOptions struct {
	// Timeout bounds each hook; zero means no limit.
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
}

// hookService is the implementation of the HookService interface.
type hookService struct {
	fs     afero.Fs
	layout domain.Layout
	opts   HookOptions
	log    *zap.Logger
}

// NewHookService creates a new HookService. Hook discovery goes through fs;
// execution always uses the real filesystem.
func NewHookService(fs afero.Fs, layout domain.Layout, opts HookOptions, log *zap.Logger) HookService {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &hookService{
		fs:     fs,
		layout: layout,
		opts:   opts,
		log:    log,
	}
}

// Discover lists the executable, non-hidden files of a stage directory sorted
// by name. A missing directory has no hooks.
func (s *hookService) Discover(stage domain.HookStage) ([]string, error) {
	dir := s.layout.HookDir(stage)
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hook directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	var hooks []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			// Directory entries describe the link itself, judge its target instead.
			target, err := s.fs.Stat(filepath.Join(dir, name))
			if err != nil {
				s.log.Debug("Skipping broken hook link", zap.String("stage", string(stage)), zap.String("file", name), zap.Error(err))
				continue
			}
			info = target
		}
		if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			s.log.Debug("Skipping non-executable hook", zap.String("stage", string(stage)), zap.String("file", name))
			continue
		}
		hooks = append(hooks, filepath.Join(dir, name))
	}
	return hooks, nil
}

// Run executes the hooks of a stage one after another.
func (s *hookService) Run(ctx context.Context, stage domain.HookStage) error {
	hooks, err := s.Discover(stage)
	if err != nil {
		return err
	}
	for _, hook := range hooks {
		s.log.Info("Running hook", zap.String("stage", string(stage)), zap.String("hook", filepath.Base(hook)))
		if err := s.executeHook(ctx, hook); err != nil {
			return &HookError{Stage: stage, Path: hook, Err: err}
		}
	}
	return nil
}

// executeHook runs a single hook from its own directory with the repository
// root exported.
func (s *hookService) executeHook(ctx context.Context, path string) error {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, path)
	cmd.Dir = filepath.Dir(path)
	cmd.Env = append(os.Environ(), domain.RepoDirEnv+"="+s.layout.RepoDir)
	cmd.Stdout = s.opts.Stdout
	cmd.Stderr = s.opts.Stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %v", s.opts.Timeout)
	}
	return err
}
