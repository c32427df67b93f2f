package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archicontribs/modelrepo/prefs"
	"github.com/archicontribs/modelrepo/repository"
	"github.com/archicontribs/modelrepo/workflow"
)

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123abcd", shortHash("0123abcdef0123abcdef0123abcdef0123abcdef"))
	assert.Equal(t, "abc", shortHash("abc"))
}

func TestFriendlyCommitError(t *testing.T) {
	err := friendlyCommitError(repository.ErrEmptyMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-m")

	err = friendlyCommitError(repository.ErrInvalidIdentity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name")

	passthrough := errors.New("boom")
	assert.Same(t, passthrough, friendlyCommitError(passthrough))
}

func TestCommitIdentity_FlagsOverrideRemembered(t *testing.T) {
	c := workflow.New(nil, &prefs.Preferences{
		CommitName:  "Remembered",
		CommitEmail: "remembered@example.com",
	}, nil)

	commitName, commitEmail = "", ""
	t.Cleanup(func() { commitName, commitEmail = "", "" })

	who := commitIdentity(c)
	assert.Equal(t, "Remembered", who.Name)
	assert.Equal(t, "remembered@example.com", who.Email)

	commitName = "Flag Name"
	who = commitIdentity(c)
	assert.Equal(t, "Flag Name", who.Name)
	assert.Equal(t, "remembered@example.com", who.Email)
}
