// Synchronization operations against the default remote: fetch, pull,
// push. Error mapping keeps go-git's status conditions behind stable
// sentinels so callers can branch on errors.Is.
package repository

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Fetch fetches changes from the default remote. It returns
// ErrAlreadyUpToDate when there is nothing new.
func (r *Repo) Fetch(ctx context.Context, auth AuthProvider) error {
	fetchOpts := &git.FetchOptions{RemoteName: DefaultRemoteName}

	method, err := r.authMethod(auth)
	if err != nil {
		return err
	}
	fetchOpts.Auth = method

	if err := r.repo.FetchContext(ctx, fetchOpts); err != nil {
		return WrapError(mapTransportError(err), "failed to fetch from remote")
	}
	return nil
}

// PullFFOnly fetches and fast-forwards the current branch. It returns
// ErrNotFastForward when the branches have diverged and
// ErrAlreadyUpToDate when there is nothing to pull.
func (r *Repo) PullFFOnly(ctx context.Context, auth AuthProvider) error {
	pullOpts := &git.PullOptions{RemoteName: DefaultRemoteName}

	method, err := r.authMethod(auth)
	if err != nil {
		return err
	}
	pullOpts.Auth = method

	if err := r.worktree.PullContext(ctx, pullOpts); err != nil {
		return WrapError(mapTransportError(err), "failed to pull from remote")
	}
	return nil
}

// Push pushes the current branch to the default remote. It returns
// ErrNotFastForward when the remote has commits the local branch lacks
// and ErrAlreadyUpToDate when there is nothing to push.
func (r *Repo) Push(ctx context.Context, auth AuthProvider) error {
	pushOpts := &git.PushOptions{RemoteName: DefaultRemoteName}

	method, err := r.authMethod(auth)
	if err != nil {
		return err
	}
	pushOpts.Auth = method

	if err := r.repo.PushContext(ctx, pushOpts); err != nil {
		return WrapError(mapTransportError(err), "failed to push to remote")
	}
	return nil
}

// authMethod resolves the transport auth for the configured remote.
func (r *Repo) authMethod(auth AuthProvider) (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}
	url := r.RemoteURL()
	if url == "" {
		return nil, ErrNoRemote
	}
	method, err := auth.Method(url)
	if err != nil {
		return nil, WrapError(ErrAuthRequired, err.Error())
	}
	return method, nil
}

// mapTransportError translates go-git error values into this package's
// sentinels, leaving unknown errors untouched.
func mapTransportError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return ErrNotFastForward
	case errors.Is(err, transport.ErrAuthenticationRequired):
		return ErrAuthRequired
	case errors.Is(err, transport.ErrAuthorizationFailed):
		return ErrAuthFailed
	case errors.Is(err, git.ErrRemoteNotFound):
		return ErrNoRemote
	default:
		return err
	}
}
