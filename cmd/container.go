package cmd

import (
	"fmt"
	"os"

	"github.com/bsrvc/bsr/internal/config"
	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/logger"
	"github.com/bsrvc/bsr/internal/repository"
	"github.com/bsrvc/bsr/internal/service"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.
type container struct {
	cfg *config.Config
	log *zap.Logger

	fsRepo  repository.FileSystemRepository
	gitRepo repository.GitRepository
	lock    repository.RepoLock
	hooks   service.HookService

	scheme domain.TagScheme
	layout domain.Layout
}

// newContainer creates a new container with all the dependencies. The layout
// is derived once from the repository root.
func newContainer(opts *globalOptions, cmd *cobra.Command) (*container, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadConfig(wd, opts.configFile)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log, err := logger.NewWithWriter(level, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	gitRepo, err := repository.NewGitRepository(wd, repository.GitOptions{
		Remote:      cfg.Remote,
		Username:    cfg.GitUsername,
		Token:       cfg.GitToken,
		AuthorName:  cfg.AuthorName,
		AuthorEmail: cfg.AuthorEmail,
	})
	if err != nil {
		return nil, err
	}
	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	layout := domain.NewLayout(gitRepo.Root(), cfg.BsrDir)
	log.Debug("Opened repository",
		zap.String("root", layout.RepoDir),
		zap.String("remote", cfg.Remote),
		zap.String("tag_namespace", cfg.TagNamespace))
	hooks := service.NewHookService(fsRepo, layout, service.HookOptions{
		Timeout: cfg.HookTimeout,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	}, log)
	return &container{
		cfg:     cfg,
		log:     log,
		fsRepo:  fsRepo,
		gitRepo: gitRepo,
		lock:    repository.NewRepoLock(fsRepo, gitRepo.GitDir(), cfg.LockTimeout),
		hooks:   hooks,
		scheme:  domain.NewTagScheme(cfg.TagNamespace),
		layout:  layout,
	}, nil
}

// lazyContainer builds the container on first use, so that argument errors
// and the version command need no repository.
type lazyContainer struct {
	opts *globalOptions
	c    *container
}

func (l *lazyContainer) get(cmd *cobra.Command) (*container, error) {
	if l.c != nil {
		return l.c, nil
	}
	c, err := newContainer(l.opts, cmd)
	if err != nil {
		return nil, err
	}
	l.c = c
	return c, nil
}

// run builds the container and hands it to fn, flushing the logger afterwards.
func (l *lazyContainer) run(cmd *cobra.Command, fn func(c *container) error) error {
	c, err := l.get(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = c.log.Sync() }()
	return fn(c)
}
