// Package repository provides sentinel errors for its operations.
// All errors can be checked using errors.Is() for programmatic handling.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotRepository is returned when the working directory is not an
// initialized git working tree.
var ErrNotRepository = errors.New("not a git repository")

// ErrNothingToCommit is returned by Commit when the working tree has no
// staged changes. It is a no-op signal, not a failure.
var ErrNothingToCommit = errors.New("nothing to commit")

// ErrEmptyMessage is returned by Commit when there are staged changes but
// no commit message was supplied.
var ErrEmptyMessage = errors.New("commit message cannot be empty")

// ErrInvalidIdentity is returned by Commit when the author name or email
// is missing.
var ErrInvalidIdentity = errors.New("committer name and email are required")

// ErrAlreadyUpToDate is returned when fetch, pull, or push operations
// result in no changes because local and remote are already synchronized.
var ErrAlreadyUpToDate = errors.New("already up to date")

// ErrNotFastForward is returned when a push or pull cannot be performed
// as a fast-forward and requires manual resolution.
var ErrNotFastForward = errors.New("not a fast-forward")

// ErrAuthRequired is returned when an operation requires authentication
// but no credentials were provided or available.
var ErrAuthRequired = errors.New("authentication required")

// ErrAuthFailed is returned when authentication was attempted but the
// remote rejected it.
var ErrAuthFailed = errors.New("authentication failed")

// ErrLocked is returned when another writer already holds the handle's
// working-tree lock.
var ErrLocked = errors.New("repository is locked by another writer")

// ErrNoRemote is returned when an operation needs a remote but the
// repository has none configured.
var ErrNoRemote = errors.New("repository has no remote configured")

// WrapError wraps an error with additional context while preserving the
// ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while
// preserving the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
