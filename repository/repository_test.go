package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archicontribs/modelrepo/repository"
)

func testSignature() repository.Signature {
	return repository.Signature{
		Name:  "Test Author",
		Email: "author@example.com",
		When:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func initRepo(t *testing.T) *repository.Repo {
	t.Helper()

	repo, err := repository.Init(context.Background(), t.TempDir())
	require.NoError(t, err)
	return repo
}

func writeFile(t *testing.T, repo *repository.Repo, name, content string) {
	t.Helper()

	path := filepath.Join(repo.Workdir(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func commitFile(t *testing.T, repo *repository.Repo, name, content, msg string) repository.CommitResult {
	t.Helper()

	ctx := context.Background()
	writeFile(t, repo, name, content)
	require.NoError(t, repo.StageAll(ctx))
	result, err := repo.Commit(ctx, msg, testSignature())
	require.NoError(t, err)
	return result
}

func TestOpen_NotRepository(t *testing.T) {
	_, err := repository.Open(context.Background(), t.TempDir())
	require.ErrorIs(t, err, repository.ErrNotRepository)
}

func TestOpen_Existing(t *testing.T) {
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "hello", "add a")

	reopened, err := repository.Open(context.Background(), repo.Workdir())
	require.NoError(t, err)
	assert.Equal(t, repo.Workdir(), reopened.Workdir())
}

func TestCommit_CreatesCommit(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)

	result := commitFile(t, repo, "model/model.xml", "<model/>", "chore: initial projection")
	require.Len(t, result.Hash, 40)

	status, err := repo.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Hash, status.Head)
	assert.True(t, status.Clean)
}

func TestCommit_NothingToCommit(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)

	// The no-op check wins over message validation: an empty message on a
	// clean tree is not an error condition.
	_, err := repo.Commit(ctx, "", testSignature())
	require.ErrorIs(t, err, repository.ErrNothingToCommit)
}

func TestCommit_EmptyMessage(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)

	writeFile(t, repo, "a.txt", "hello")
	require.NoError(t, repo.StageAll(ctx))

	_, err := repo.Commit(ctx, "", testSignature())
	require.ErrorIs(t, err, repository.ErrEmptyMessage)
}

func TestCommit_InvalidIdentity(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)

	writeFile(t, repo, "a.txt", "hello")
	require.NoError(t, repo.StageAll(ctx))

	_, err := repo.Commit(ctx, "msg", repository.Signature{Name: "No Email"})
	require.ErrorIs(t, err, repository.ErrInvalidIdentity)
}

func TestStageAll_IncludesDeletions(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "hello", "add a")

	require.NoError(t, os.Remove(filepath.Join(repo.Workdir(), "a.txt")))

	changed, err := repo.HasChanges(ctx)
	require.NoError(t, err)
	require.True(t, changed)

	require.NoError(t, repo.StageAll(ctx))
	_, err = repo.Commit(ctx, "remove a", testSignature())
	require.NoError(t, err)

	changed, err = repo.HasChanges(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStatus_EmptyRepository(t *testing.T) {
	repo := initRepo(t)

	status, err := repo.Status(context.Background())
	require.NoError(t, err)
	assert.Empty(t, status.Branch)
	assert.Empty(t, status.Head)
	assert.True(t, status.Clean)
}

func TestSetRemoteURL_ReplacesPrevious(t *testing.T) {
	repo := initRepo(t)

	require.NoError(t, repo.SetRemoteURL("https://example.com/first.git"))
	require.NoError(t, repo.SetRemoteURL("https://example.com/second.git"))
	assert.Equal(t, "https://example.com/second.git", repo.RemoteURL())
}

func TestLock_SecondWriterRejected(t *testing.T) {
	repo := initRepo(t)
	require.NoError(t, repo.Lock())
	defer func() { _ = repo.Unlock() }()

	other, err := repository.Open(context.Background(), repo.Workdir())
	require.NoError(t, err)
	require.ErrorIs(t, other.Lock(), repository.ErrLocked)

	require.NoError(t, repo.Unlock())
	require.NoError(t, other.Lock())
	require.NoError(t, other.Unlock())
}

func TestUnlock_WithoutLockIsNoOp(t *testing.T) {
	repo := initRepo(t)
	require.NoError(t, repo.Unlock())
}
