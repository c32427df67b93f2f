package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope", "prefs.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Preferences{}, p)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commit_name: [broken"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "prefs.yaml")
	want := &Preferences{
		CommitName:       "Alice",
		CommitEmail:      "alice@example.com",
		StoreCredentials: true,
	}

	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRememberIdentity(t *testing.T) {
	p := &Preferences{}
	p.RememberIdentity("Bob", "bob@example.com")

	assert.Equal(t, "Bob", p.CommitName)
	assert.Equal(t, "bob@example.com", p.CommitEmail)
}
