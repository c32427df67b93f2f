package workflow_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archicontribs/modelrepo/credentials"
	"github.com/archicontribs/modelrepo/grafico"
	"github.com/archicontribs/modelrepo/model"
	"github.com/archicontribs/modelrepo/prefs"
	"github.com/archicontribs/modelrepo/repository"
	"github.com/archicontribs/modelrepo/workflow"
)

// scriptedPrompt answers every credential request the same way and
// counts how often it was asked.
type scriptedPrompt struct {
	calls int
	c     credentials.Credentials
	ok    bool
}

func (p *scriptedPrompt) PromptCredentials(ctx context.Context) (credentials.Credentials, bool, error) {
	p.calls++
	return p.c, p.ok, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newCoordinator(t *testing.T, prompt *scriptedPrompt) *workflow.Coordinator {
	t.Helper()
	return workflow.New(prompt, &prefs.Preferences{}, quietLogger())
}

func testIdentity() repository.Signature {
	return repository.Signature{Name: "Alice", Email: "alice@example.com"}
}

func newModel() *model.Model {
	m := model.New("Test Model")
	m.AddElement(&model.Element{Type: "business-actor", Name: "Customer", Layer: model.LayerBusiness})
	return m
}

func initRepo(t *testing.T) *repository.Repo {
	t.Helper()
	repo, err := repository.Init(context.Background(), t.TempDir())
	require.NoError(t, err)
	return repo
}

func TestCommitChanges_EndToEnd(t *testing.T) {
	ctx := context.Background()
	prompt := &scriptedPrompt{}
	c := newCoordinator(t, prompt)
	repo := initRepo(t)
	m := newModel()

	outcome, err := c.CommitChanges(ctx, repo, m, testIdentity(), "feat: initial model")
	require.NoError(t, err)
	require.False(t, outcome.NothingToCommit)
	require.NotEmpty(t, outcome.Commit.Hash)

	status, err := repo.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Clean)

	// The identity sticks as the default for the next commit.
	assert.Equal(t, "Alice", c.Preferences().CommitName)
	assert.Equal(t, "alice@example.com", c.Preferences().CommitEmail)
}

func TestCommitChanges_UnchangedModelIsNoOp(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, &scriptedPrompt{})
	repo := initRepo(t)
	m := newModel()

	_, err := c.CommitChanges(ctx, repo, m, testIdentity(), "feat: initial model")
	require.NoError(t, err)

	// Re-exporting the same model yields an identical tree, so the second
	// attempt has nothing to commit.
	outcome, err := c.CommitChanges(ctx, repo, m, testIdentity(), "feat: again")
	require.NoError(t, err)
	assert.True(t, outcome.NothingToCommit)
	assert.Empty(t, outcome.Commit.Hash)
}

func TestOpenModel_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, &scriptedPrompt{})
	repo := initRepo(t)
	m := newModel()

	_, err := c.CommitChanges(ctx, repo, m, testIdentity(), "feat: initial model")
	require.NoError(t, err)
	c.CloseModel(m)

	got, report, err := c.OpenModel(ctx, repo)
	require.NoError(t, err)
	require.True(t, report.Empty())
	assert.Equal(t, m.ID, got.ID)
	assert.Len(t, got.Elements, 1)
	assert.Equal(t, repo.Workdir(), got.SourcePath)
}

func TestOpenModel_NoModel(t *testing.T) {
	c := newCoordinator(t, &scriptedPrompt{})
	repo := initRepo(t)

	_, _, err := c.OpenModel(context.Background(), repo)
	require.ErrorIs(t, err, grafico.ErrNoModel)
}

func TestOpenModel_ConflictedTreeKeepsReport(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, &scriptedPrompt{})
	repo := initRepo(t)
	m := newModel()

	_, err := c.CommitChanges(ctx, repo, m, testIdentity(), "feat: initial model")
	require.NoError(t, err)
	c.CloseModel(m)

	descriptor := filepath.Join(repo.Workdir(), "model", "model.xml")
	require.NoError(t, os.WriteFile(descriptor, []byte("<<<<<<< HEAD\n"), 0o644))

	_, report, err := c.OpenModel(ctx, repo)
	require.ErrorIs(t, err, grafico.ErrConflicted)
	require.NotErrorIs(t, err, grafico.ErrNoModel)
	require.NotNil(t, report)
	assert.True(t, report.HasConflicts())
}

func TestRefresh_DirtyWorkingTree(t *testing.T) {
	ctx := context.Background()
	prompt := &scriptedPrompt{}
	c := newCoordinator(t, prompt)

	remote := initBareRemote(t)
	repo := initRepo(t)
	require.NoError(t, repo.SetRemoteURL(remote))
	_, err := c.Publish(ctx, repo, newModel(), testIdentity(), "feat: initial model")
	require.NoError(t, err)

	stray := filepath.Join(repo.Workdir(), "scratch.txt")
	require.NoError(t, os.WriteFile(stray, []byte("edits"), 0o644))

	_, err = c.Refresh(ctx, repo)
	require.ErrorIs(t, err, workflow.ErrUncommittedChanges)
	assert.Zero(t, prompt.calls, "the dirty-tree check runs before credential resolution")
}

func TestForgetCredentials(t *testing.T) {
	c := newCoordinator(t, &scriptedPrompt{})
	repo := initRepo(t)

	store := credentials.NewStore(repo.MetadataDir(), "credentials")
	require.NoError(t, store.Save(credentials.Credentials{Username: "alice", Secret: "x"}))

	require.NoError(t, c.ForgetCredentials(repo))
	assert.False(t, store.Exists())
	// Nothing stored: forgetting again is a no-op.
	require.NoError(t, c.ForgetCredentials(repo))
}

func TestCommitChanges_ExclusiveAccess(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, &scriptedPrompt{})
	repo := initRepo(t)

	first := newModel()
	_, err := c.CommitChanges(ctx, repo, first, testIdentity(), "feat: first")
	require.NoError(t, err)

	second := newModel()
	_, err = c.CommitChanges(ctx, repo, second, testIdentity(), "feat: second")
	require.ErrorIs(t, err, workflow.ErrExclusiveAccess)

	// Closing the first instance releases the checkout.
	c.CloseModel(first)
	_, err = c.CommitChanges(ctx, repo, second, testIdentity(), "feat: second")
	require.NoError(t, err)
}

// initBareRemote creates a bare repository standing in for a hosted
// remote; file-path remotes need no credentials.
func initBareRemote(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, true)
	require.NoError(t, err)
	return dir
}

func TestPublish_FileRemote(t *testing.T) {
	ctx := context.Background()
	prompt := &scriptedPrompt{}
	c := newCoordinator(t, prompt)

	remote := initBareRemote(t)
	repo := initRepo(t)
	require.NoError(t, repo.SetRemoteURL(remote))
	m := newModel()

	result, err := c.Publish(ctx, repo, m, testIdentity(), "feat: publish model")
	require.NoError(t, err)
	assert.False(t, result.Cancelled)
	assert.False(t, result.NothingToCommit)
	assert.False(t, result.RemoteUpToDate)
	assert.NotEmpty(t, result.Commit.Hash)
	assert.Zero(t, prompt.calls, "file remotes must not prompt for credentials")

	// Nothing changed: no commit, and the remote is already current.
	result, err = c.Publish(ctx, repo, m, testIdentity(), "feat: again")
	require.NoError(t, err)
	assert.True(t, result.NothingToCommit)
	assert.True(t, result.RemoteUpToDate)
}

func TestPublish_CancelKeepsLocalCommit(t *testing.T) {
	ctx := context.Background()
	prompt := &scriptedPrompt{ok: false}
	c := newCoordinator(t, prompt)

	repo := initRepo(t)
	require.NoError(t, repo.SetRemoteURL("https://example.invalid/model.git"))
	m := newModel()

	result, err := c.Publish(ctx, repo, m, testIdentity(), "feat: publish model")
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.NotEmpty(t, result.Commit.Hash, "the local commit survives a cancelled push")
	assert.Equal(t, 1, prompt.calls)

	entries, err := repo.Log(ctx, repository.LogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRefresh_FileRemote(t *testing.T) {
	ctx := context.Background()
	prompt := &scriptedPrompt{}
	c := newCoordinator(t, prompt)

	remote := initBareRemote(t)
	origin := initRepo(t)
	require.NoError(t, origin.SetRemoteURL(remote))
	m := newModel()
	_, err := c.Publish(ctx, origin, m, testIdentity(), "feat: initial model")
	require.NoError(t, err)

	clone, err := repository.Clone(ctx, remote, t.TempDir(), nil)
	require.NoError(t, err)

	result, err := c.Refresh(ctx, clone)
	require.NoError(t, err)
	assert.True(t, result.UpToDate, "fresh clone has nothing to pull")
	require.NotNil(t, result.Model)
	assert.Len(t, result.Model.Elements, 1)

	// Advance the remote; the next refresh fast-forwards onto it.
	m.AddElement(&model.Element{Type: "application-component", Name: "Portal", Layer: model.LayerApplication})
	_, err = c.Publish(ctx, origin, m, testIdentity(), "feat: add portal")
	require.NoError(t, err)

	result, err = c.Refresh(ctx, clone)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	require.NotNil(t, result.Model)
	assert.Len(t, result.Model.Elements, 2)
	assert.Zero(t, prompt.calls)
}

func TestRefresh_Cancelled(t *testing.T) {
	ctx := context.Background()
	prompt := &scriptedPrompt{ok: false}
	c := newCoordinator(t, prompt)

	repo := initRepo(t)
	require.NoError(t, repo.SetRemoteURL("https://example.invalid/model.git"))

	result, err := c.Refresh(ctx, repo)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Nil(t, result.Model)
	assert.Equal(t, 1, prompt.calls)
}

func TestCloneRepository_FileRemoteSkipsPrompt(t *testing.T) {
	ctx := context.Background()
	prompt := &scriptedPrompt{}
	c := newCoordinator(t, prompt)

	remote := initBareRemote(t)
	origin := initRepo(t)
	require.NoError(t, origin.SetRemoteURL(remote))
	_, err := c.Publish(ctx, origin, newModel(), testIdentity(), "feat: initial model")
	require.NoError(t, err)

	repo, cancelled, err := c.CloneRepository(ctx, remote, filepath.Join(t.TempDir(), "clone"))
	require.NoError(t, err)
	require.False(t, cancelled)
	require.NotNil(t, repo)
	assert.Zero(t, prompt.calls)
}

func TestCloneRepository_CancelBeforeDisk(t *testing.T) {
	ctx := context.Background()
	prompt := &scriptedPrompt{ok: false}
	c := newCoordinator(t, prompt)

	workdir := filepath.Join(t.TempDir(), "clone")
	repo, cancelled, err := c.CloneRepository(ctx, "https://example.invalid/model.git", workdir)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Nil(t, repo)

	_, statErr := os.Stat(workdir)
	assert.True(t, os.IsNotExist(statErr), "a cancelled clone must not touch the disk")
}
