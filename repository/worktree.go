// Worktree operations: staging and committing. This is the commit
// coordinator of the sync workflow: it stages every pending change as a
// single unit and creates the commit, or signals that there was nothing
// to do.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Signature identifies the author and committer of a commit.
type Signature struct {
	Name  string
	Email string
	// When is the commit timestamp; the zero value means "now".
	When time.Time
}

// CommitResult reports a successful commit.
type CommitResult struct {
	// Hash is the hex SHA of the created commit.
	Hash string
}

// StageAll stages every pending change in the working tree (additions,
// modifications, and deletions) as a single unit. Partial staging is not
// supported.
func (r *Repo) StageAll(ctx context.Context) error {
	if err := r.worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return WrapError(err, "failed to stage changes")
	}
	return nil
}

// HasChanges reports whether the working tree differs from HEAD,
// staged or not.
func (r *Repo) HasChanges(ctx context.Context) (bool, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return false, WrapError(err, "failed to get worktree status")
	}
	return !status.IsClean(), nil
}

// Commit creates a commit from the staged changes with who as both
// author and committer.
//
// It returns ErrNothingToCommit when no changes are staged (a no-op
// signal; no commit object is ever created for an empty tree), and
// ErrEmptyMessage when changes are staged but msg is empty. On failure
// the index is left as it was; no partial commit state is possible.
func (r *Repo) Commit(ctx context.Context, msg string, who Signature) (CommitResult, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return CommitResult{}, WrapError(err, "failed to get worktree status")
	}

	staged := 0
	for _, fileStatus := range status {
		if fileStatus.Staging != git.Untracked && fileStatus.Staging != git.Unmodified {
			staged++
		}
	}
	if staged == 0 {
		return CommitResult{}, ErrNothingToCommit
	}

	if msg == "" {
		return CommitResult{}, ErrEmptyMessage
	}
	if who.Name == "" || who.Email == "" {
		return CommitResult{}, ErrInvalidIdentity
	}
	if who.When.IsZero() {
		who.When = time.Now()
	}

	sig := &object.Signature{
		Name:  who.Name,
		Email: who.Email,
		When:  who.When,
	}
	hash, err := r.worktree.Commit(msg, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return CommitResult{}, ErrNothingToCommit
		}
		return CommitResult{}, WrapError(err, "failed to create commit")
	}

	return CommitResult{Hash: hash.String()}, nil
}
