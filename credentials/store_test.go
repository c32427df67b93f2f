package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	want := Credentials{Username: "alice", Secret: "s3cret-token"}

	require.NoError(t, store.Save(want))
	require.True(t, store.Exists())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_FilePermissions(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	require.NoError(t, store.Save(Credentials{Username: "alice", Secret: "x"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_SecretNotOnDiskInPlaintext(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	require.NoError(t, store.Save(Credentials{Username: "alice", Secret: "hunter2-plaintext"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2-plaintext")
	assert.NotContains(t, string(data), "alice")
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	require.False(t, store.Exists())

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadTampered(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	require.NoError(t, store.Save(Credentials{Username: "alice", Secret: "x"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(store.Path(), data, 0o600))

	_, err = store.Load()
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestStore_LoadWrongFormat(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	require.NoError(t, os.WriteFile(store.Path(), []byte("username: alice\n"), 0o600))

	_, err := store.Load()
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestStore_LoadMissingKeyFile(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	require.NoError(t, store.Save(Credentials{Username: "alice", Secret: "x"}))
	require.NoError(t, os.Remove(filepath.Join(store.dir, keyFileName)))

	_, err := store.Load()
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	require.NoError(t, store.Save(Credentials{Username: "alice", Secret: "old"}))
	require.NoError(t, store.Save(Credentials{Username: "alice", Secret: "new"}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", got.Secret)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(t.TempDir(), "credentials")
	require.NoError(t, store.Save(Credentials{Username: "alice", Secret: "x"}))

	require.NoError(t, store.Delete())
	require.False(t, store.Exists())
	// Absent file: deleting again is a no-op.
	require.NoError(t, store.Delete())
}

func TestCredentials_Redaction(t *testing.T) {
	c := Credentials{Username: "alice", Secret: "hunter2"}

	assert.NotContains(t, c.String(), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%v", c), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%#v", c), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%s", c), "hunter2")
	assert.Equal(t, "<no credentials>", Credentials{}.String())
}
