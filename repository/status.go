package repository

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
)

// Status is a snapshot of the repository state for display.
type Status struct {
	// Branch is the short name of the checked-out branch, or empty in an
	// empty repository.
	Branch string
	// Head is the hex SHA the branch points at, or empty.
	Head string
	// RemoteURL is the configured default remote, or empty.
	RemoteURL string
	// Clean reports whether the working tree matches HEAD.
	Clean bool
}

// Status returns the current branch, head commit, remote, and
// working-tree cleanliness of the repository.
func (r *Repo) Status(ctx context.Context) (Status, error) {
	s := Status{RemoteURL: r.RemoteURL()}

	head, err := r.repo.Head()
	switch {
	case err == nil:
		s.Branch = head.Name().Short()
		s.Head = head.Hash().String()
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Freshly initialized repository without commits.
	default:
		return Status{}, WrapError(err, "failed to get HEAD")
	}

	wtStatus, err := r.worktree.Status()
	if err != nil {
		return Status{}, WrapError(err, "failed to get worktree status")
	}
	s.Clean = wtStatus.IsClean()

	return s, nil
}
