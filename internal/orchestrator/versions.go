package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Output formats of the versions listing.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// gitDateFormat is the date layout of git log's default format.
const gitDateFormat = "Mon Jan 2 15:04:05 2006 -0700"

// VersionsConfig contains configuration for the versions listing.
type VersionsConfig struct {
	// MaxCount limits the commits shown per version; 0 shows the full history.
	MaxCount int
	Output   string
}

// Validate checks the listing options.
func (c VersionsConfig) Validate() error {
	if c.MaxCount < 0 {
		return fmt.Errorf("max count cannot be negative: %d", c.MaxCount)
	}
	switch c.Output {
	case "", OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (expected: text, json or yaml)", c.Output)
	}
}

// VersionsOrchestrator prints the history of every published version.
type VersionsOrchestrator struct {
	gitRepo repository.GitRepository
	scheme  domain.TagScheme
	log     *zap.Logger
	out     io.Writer
}

// NewVersionsOrchestrator creates a new versions orchestrator.
func NewVersionsOrchestrator(
	gitRepo repository.GitRepository,
	scheme domain.TagScheme,
	log *zap.Logger,
	out io.Writer,
) *VersionsOrchestrator {
	return &VersionsOrchestrator{
		gitRepo: gitRepo,
		scheme:  scheme,
		log:     log,
		out:     out,
	}
}

// Execute syncs with the remote and prints each version, newest first.
func (o *VersionsOrchestrator) Execute(ctx context.Context, cfg VersionsConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := syncWithRemote(ctx, o.gitRepo, o.scheme, o.log); err != nil {
		return err
	}
	vers, err := localVersions(ctx, o.gitRepo, o.scheme)
	if err != nil {
		return err
	}
	logs := make([]domain.VersionLog, 0, len(vers))
	for _, v := range vers {
		tag := o.scheme.TagName(v)
		commits, err := o.gitRepo.Log(ctx, tag, cfg.MaxCount)
		if err != nil {
			return fmt.Errorf("failed to read history of version %d: %w", v, err)
		}
		logs = append(logs, domain.VersionLog{Version: v, Tag: tag, Commits: commits})
	}
	return o.render(logs, cfg.Output)
}

func (o *VersionsOrchestrator) render(logs []domain.VersionLog, output string) error {
	switch output {
	case OutputJSON:
		enc := json.NewEncoder(o.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(logs); err != nil {
			return fmt.Errorf("failed to encode versions: %w", err)
		}
		return nil
	case OutputYAML:
		enc := yaml.NewEncoder(o.out)
		enc.SetIndent(2)
		if err := enc.Encode(logs); err != nil {
			return fmt.Errorf("failed to encode versions: %w", err)
		}
		return enc.Close()
	default:
		var b strings.Builder
		for _, vl := range logs {
			fmt.Fprintf(&b, "version %d\n", vl.Version)
			for _, c := range vl.Commits {
				writeCommit(&b, c)
			}
		}
		_, err := io.WriteString(o.out, b.String())
		return err
	}
}

// writeCommit renders a commit the way git log --decorate does.
func writeCommit(b *strings.Builder, c domain.Commit) {
	b.WriteString("commit " + c.Hash)
	if len(c.Tags) > 0 {
		decorations := make([]string, len(c.Tags))
		for i, tag := range c.Tags {
			decorations[i] = "tag: " + tag
		}
		b.WriteString(" (" + strings.Join(decorations, ", ") + ")")
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "Author: %s <%s>\n", c.Author, c.Email)
	fmt.Fprintf(b, "Date:   %s\n\n", c.When.Format(gitDateFormat))
	for _, line := range strings.Split(strings.TrimRight(c.Message, "\n"), "\n") {
		b.WriteString("    " + line + "\n")
	}
	b.WriteString("\n")
}
