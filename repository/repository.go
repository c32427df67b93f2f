// Package repository is a high-level facade over go-git for the model
// sync workflow. A Repo pairs a local working directory with its remote
// and exposes task-oriented operations: stage-and-commit, fetch, pull,
// push, history, and status. The facade never renders anything; failures
// carry enough context for the caller to present them.
package repository

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/gofrs/flock"
)

// DefaultRemoteName is the remote all sync operations target.
const DefaultRemoteName = "origin"

// Repo represents a local working directory paired with a remote.
//
// A Repo is not safe for concurrent writes. Callers that may race must
// serialize through Lock/Unlock, which is also what keeps two processes
// from exporting into the same working tree at once.
type Repo struct {
	workdir  string
	repo     *git.Repository
	worktree *git.Worktree
	lock     *flock.Flock
}

// Init creates a new, empty git repository at workdir.
func Init(ctx context.Context, workdir string) (*Repo, error) {
	repo, err := git.PlainInit(workdir, false)
	if err != nil {
		return nil, WrapErrorf(err, "failed to initialize repository at %s", workdir)
	}
	return wrap(workdir, repo)
}

// Open opens an existing git repository at workdir. It returns
// ErrNotRepository when the directory is not an initialized working tree.
func Open(ctx context.Context, workdir string) (*Repo, error) {
	repo, err := git.PlainOpen(workdir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, WrapErrorf(ErrNotRepository, "%s", workdir)
		}
		return nil, WrapErrorf(err, "failed to open repository at %s", workdir)
	}
	return wrap(workdir, repo)
}

// Clone clones remoteURL into workdir. Authentication is resolved through
// the optional AuthProvider; pass nil for anonymous access.
func Clone(ctx context.Context, remoteURL, workdir string, auth AuthProvider) (*Repo, error) {
	if remoteURL == "" {
		return nil, errors.New("remote URL cannot be empty")
	}

	cloneOpts := &git.CloneOptions{
		URL:        remoteURL,
		RemoteName: DefaultRemoteName,
	}
	if auth != nil {
		method, err := auth.Method(remoteURL)
		if err != nil {
			return nil, WrapError(err, "failed to resolve authentication method")
		}
		cloneOpts.Auth = method
	}

	repo, err := git.PlainCloneContext(ctx, workdir, false, cloneOpts)
	if err != nil {
		return nil, WrapErrorf(mapTransportError(err), "failed to clone %s", remoteURL)
	}
	return wrap(workdir, repo)
}

func wrap(workdir string, repo *git.Repository) (*Repo, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}
	return &Repo{
		workdir:  workdir,
		repo:     repo,
		worktree: worktree,
		lock:     flock.New(filepath.Join(workdir, ".git", lockFileName)),
	}, nil
}

// Workdir returns the path of the local working directory.
func (r *Repo) Workdir() string {
	return r.workdir
}

// MetadataDir returns the repository's metadata folder (the .git
// directory), where per-repository files such as the credential store
// live.
func (r *Repo) MetadataDir() string {
	return filepath.Join(r.workdir, ".git")
}

// RemoteURL returns the first URL of the default remote, or empty when no
// remote is configured.
func (r *Repo) RemoteURL() string {
	remote, err := r.repo.Remote(DefaultRemoteName)
	if err != nil {
		return ""
	}
	if urls := remote.Config().URLs; len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// SetRemoteURL configures the default remote, replacing any previous one.
func (r *Repo) SetRemoteURL(url string) error {
	_ = r.repo.DeleteRemote(DefaultRemoteName)
	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: DefaultRemoteName,
		URLs: []string{url},
	})
	return WrapErrorf(err, "failed to configure remote %s", DefaultRemoteName)
}
