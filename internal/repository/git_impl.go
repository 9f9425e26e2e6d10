package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// GitOptions configures the go-git backed repository.
type GitOptions struct {
	Remote      string
	Username    string
	Token       string
	AuthorName  string
	AuthorEmail string
}

// gitRepository is the implementation of the GitRepository interface.

type gitRepository struct {
	repo   *git.Repository
	remote string
	auth   transport.AuthMethod
	author *object.Signature
}

// NewGitRepository opens the repository containing dir.
func NewGitRepository(dir string, opts GitOptions) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return newGitRepository(repo, opts), nil
}

func newGitRepository(repo *git.Repository, opts GitOptions) *gitRepository {
	r := &gitRepository{
		repo:   repo,
		remote: opts.Remote,
		auth:   newAuth(opts.Username, opts.Token),
	}
	if r.remote == "" {
		r.remote = git.DefaultRemoteName
	}
	if opts.AuthorName != "" && opts.AuthorEmail != "" {
		r.author = &object.Signature{Name: opts.AuthorName, Email: opts.AuthorEmail}
	}
	return r
}

// newAuth returns basic auth for token based remotes, or nil to let the
// transport use its defaults.
func newAuth(username, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	if username == "" {
		username = "x-access-token"
	}
	return &http.BasicAuth{
		Username: username,
		Password: token,
	}
}

// Root returns the absolute path of the worktree.
func (r *gitRepository) Root() string {
	w, err := r.repo.Worktree()
	if err != nil {
		return ""
	}
	return w.Filesystem.Root()
}

// GitDir returns the path of the git metadata directory.
func (r *gitRepository) GitDir() string {
	if fs, ok := r.repo.Storer.(*filesystem.Storage); ok {
		return fs.Filesystem().Root()
	}
	return filepath.Join(r.Root(), git.GitDirName)
}

// ListTags returns the short names of all local tags.
func (r *gitRepository) ListTags(_ context.Context) ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	var tags []string
	if err := iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// ListRemoteTags returns the short names of the tags advertised by the remote.
func (r *gitRepository) ListRemoteTags(ctx context.Context) ([]string, error) {
	remote, err := r.repo.Remote(r.remote)
	if err != nil {
		return nil, fmt.Errorf("failed to get remote: %w", err)
	}
	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: r.auth})
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list remote refs: %w", err)
	}
	var tags []string
	for _, ref := range refs {
		if ref.Name().IsTag() {
			tags = append(tags, ref.Name().Short())
		}
	}
	return tags, nil
}

// FetchTags fetches every tag from the remote.
func (r *gitRepository) FetchTags(ctx context.Context) error {
	err := r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: r.remote,
		RefSpecs: []config.RefSpec{
			config.RefSpec("+refs/tags/*:refs/tags/*"),
		},
		Auth: r.auth,
	})
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) || errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return nil
	}
	return fmt.Errorf("failed to fetch tags from remote: %w", err)
}

// CreateTag creates a lightweight tag at HEAD.
func (r *gitRepository) CreateTag(_ context.Context, tag string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	if _, err := r.repo.CreateTag(tag, head.Hash(), nil); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// DeleteTag removes a local tag.
func (r *gitRepository) DeleteTag(_ context.Context, tag string) error {
	if err := r.repo.DeleteTag(tag); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", tag, err)
	}
	return nil
}

// PushTag pushes a tag to the remote.
func (r *gitRepository) PushTag(ctx context.Context, tag string) error {
	return r.push(ctx, fmt.Sprintf("refs/tags/%s:refs/tags/%s", tag, tag))
}

// DeleteRemoteTag deletes a tag from the remote.
func (r *gitRepository) DeleteRemoteTag(ctx context.Context, tag string) error {
	return r.push(ctx, ":refs/tags/"+tag)
}

// PushBranch pushes a branch to the remote.
func (r *gitRepository) PushBranch(ctx context.Context, name string) error {
	return r.push(ctx, fmt.Sprintf("refs/heads/%s:refs/heads/%s", name, name))
}

func (r *gitRepository) push(ctx context.Context, refSpec string) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: r.remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(refSpec)},
		Auth:       r.auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push %s: %w", refSpec, err)
	}
	return nil
}

// CurrentBranch returns the name of the current branch, or an empty string
// when HEAD is detached.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", nil
	}
	return head.Target().Short(), nil
}

// CreateOrphanBranch points HEAD at a new branch without history. The index
// and worktree are left alone, so the next commit has no parent.
func (r *gitRepository) CreateOrphanBranch(_ context.Context, name string) error {
	branchRef := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(branchRef, false); err == nil {
		return fmt.Errorf("branch %s already exists", name)
	}
	if err := r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)); err != nil {
		return fmt.Errorf("failed to create orphan branch %s: %w", name, err)
	}
	return nil
}

// DeleteBranch deletes a local branch.
func (r *gitRepository) DeleteBranch(ctx context.Context, name string) error {
	current, err := r.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if current == name {
		return fmt.Errorf("cannot delete branch %s: it is checked out", name)
	}
	if err := r.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(name)); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	return nil
}

// Checkout moves the worktree to the commit of a tag, detaching HEAD.
func (r *gitRepository) Checkout(_ context.Context, tag string) error {
	return r.checkout(tag, false)
}

// CheckoutKeepingChanges detaches HEAD at the commit of a tag without touching
// the index or the worktree.
func (r *gitRepository) CheckoutKeepingChanges(_ context.Context, tag string) error {
	return r.checkout(tag, true)
}

func (r *gitRepository) checkout(tag string, keep bool) error {
	hash, err := r.tagCommit(tag)
	if err != nil {
		return err
	}
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.Checkout(&git.CheckoutOptions{Hash: hash, Keep: keep}); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", tag, err)
	}
	return nil
}

// CommitAll stages every change, including removals and untracked files, and
// commits it. Empty commits are allowed.
func (r *gitRepository) CommitAll(_ context.Context, message string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	opts := &git.CommitOptions{
		All:               true,
		AllowEmptyCommits: true,
	}
	if r.author != nil {
		author := *r.author
		author.When = time.Now()
		opts.Author = &author
	}
	if _, err := w.Commit(message, opts); err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	return nil
}

// ResetMixed moves HEAD to the commit of a tag and resets the index, keeping
// the worktree.
func (r *gitRepository) ResetMixed(_ context.Context, tag string) error {
	hash, err := r.tagCommit(tag)
	if err != nil {
		return err
	}
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.Reset(&git.ResetOptions{Commit: hash, Mode: git.MixedReset}); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", tag, err)
	}
	return nil
}

// IsClean reports whether the worktree has no staged, unstaged or untracked
// changes.
func (r *gitRepository) IsClean(_ context.Context) (bool, error) {
	w, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := w.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return status.IsClean(), nil
}

// TagsReachableFromHead returns the names of the tags that point at commits in
// the history of HEAD, newest commit first.
func (r *gitRepository) TagsReachableFromHead(_ context.Context) ([]string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	decorations, err := r.tagsByCommit()
	if err != nil {
		return nil, err
	}
	var tags []string
	err = r.walk(head.Hash(), 0, func(c *object.Commit) {
		tags = append(tags, decorations[c.Hash]...)
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Log returns up to maxCount commits of the history starting at a tag. A
// maxCount of zero means the whole history.
func (r *gitRepository) Log(_ context.Context, tag string, maxCount int) ([]domain.Commit, error) {
	hash, err := r.tagCommit(tag)
	if err != nil {
		return nil, err
	}
	decorations, err := r.tagsByCommit()
	if err != nil {
		return nil, err
	}
	var commits []domain.Commit
	err = r.walk(hash, maxCount, func(c *object.Commit) {
		commits = append(commits, domain.Commit{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Email:   c.Author.Email,
			When:    c.Author.When,
			Message: strings.TrimRight(c.Message, "\n"),
			Tags:    decorations[c.Hash],
		})
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (r *gitRepository) walk(from plumbing.Hash, maxCount int, visit func(c *object.Commit)) error {
	iter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return fmt.Errorf("failed to get commits: %w", err)
	}
	defer iter.Close()
	var count int
	err = iter.ForEach(func(c *object.Commit) error {
		if maxCount > 0 && count == maxCount {
			return storer.ErrStop
		}
		visit(c)
		count++
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return fmt.Errorf("failed to iterate commits: %w", err)
	}
	return nil
}

// tagsByCommit maps each tagged commit to the names of its tags.
func (r *gitRepository) tagsByCommit() (map[plumbing.Hash][]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	decorations := make(map[plumbing.Hash][]string)
	if err := iter.ForEach(func(ref *plumbing.Reference) error {
		hash, err := r.resolveTagCommit(ref)
		if err != nil {
			return nil // Skip tags that do not point at commits
		}
		decorations[hash] = append(decorations[hash], ref.Name().Short())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return decorations, nil
}

// tagCommit resolves a tag name to the hash of the commit it points at.
func (r *gitRepository) tagCommit(tag string) (plumbing.Hash, error) {
	ref, err := r.repo.Tag(tag)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get tag %s: %w", tag, err)
	}
	hash, err := r.resolveTagCommit(ref)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve tag %s: %w", tag, err)
	}
	return hash, nil
}

// resolveTagCommit resolves a tag reference to its commit hash.
func (r *gitRepository) resolveTagCommit(tagRef *plumbing.Reference) (plumbing.Hash, error) {
	// Try as lightweight tag first
	if commit, err := r.repo.CommitObject(tagRef.Hash()); err == nil {
		return commit.Hash, nil
	}
	// Try as annotated tag
	if tagObj, err := r.repo.TagObject(tagRef.Hash()); err == nil {
		if commit, err := r.repo.CommitObject(tagObj.Target); err == nil {
			return commit.Hash, nil
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("failed to resolve commit for tag")
}
