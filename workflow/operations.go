// The host-facing operations. Control flow follows the original actions:
// export the model into the working tree, resolve credentials, commit,
// and sync with the remote, reporting cancellation and no-op outcomes
// as results rather than errors.
package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/archicontribs/modelrepo/credentials"
	"github.com/archicontribs/modelrepo/grafico"
	"github.com/archicontribs/modelrepo/model"
	"github.com/archicontribs/modelrepo/repository"
)

// CommitOutcome reports a commit attempt. NothingToCommit is a no-op
// signal: the working tree already matched the model.
type CommitOutcome struct {
	NothingToCommit bool
	Commit          repository.CommitResult
}

// RefreshResult reports a refresh. Cancelled is set when the user
// aborted credential entry; UpToDate when the remote had nothing new.
type RefreshResult struct {
	Cancelled bool
	UpToDate  bool
	Model     *model.Model
	Report    *grafico.ResolutionReport
}

// PublishResult reports a publish. The commit may have succeeded even
// when the push was cancelled or unnecessary; whatever was committed
// before the cancellation point stays committed.
type PublishResult struct {
	Cancelled       bool
	NothingToCommit bool
	RemoteUpToDate  bool
	Commit          repository.CommitResult
}

// OpenModel imports the model from the repository's working tree and
// checks it out as the single open instance for that path. It returns
// grafico.ErrNoModel when the tree holds no model yet and
// grafico.ErrConflicted when the tree is mid-merge; in the latter case
// the resolution report is still returned with the conflict diagnostics.
func (c *Coordinator) OpenModel(ctx context.Context, repo *repository.Repo) (*model.Model, *grafico.ResolutionReport, error) {
	m, report, err := grafico.Import(osfs.New(repo.Workdir()))
	if err != nil {
		return nil, report, err
	}
	m.SourcePath = repo.Workdir()
	c.checkout(repo.Workdir(), m)

	entry := c.log.WithField("repo", repo.Workdir())
	if !report.Empty() {
		entry.WithField("problems", len(report.Problems)).Warn("model imported with unresolved references")
	} else {
		entry.Info("model imported")
	}
	return m, report, nil
}

// CommitChanges exports m into the repository's working tree, stages
// everything, and commits with the given identity and message. The
// last-used identity is remembered as the default for the next commit.
//
// The repository's writer lock is held for the whole export-stage-commit
// cycle; a concurrent writer gets repository.ErrLocked.
func (c *Coordinator) CommitChanges(ctx context.Context, repo *repository.Repo, m *model.Model, who repository.Signature, msg string) (CommitOutcome, error) {
	if err := c.verifyCheckout(repo.Workdir(), m); err != nil {
		return CommitOutcome{}, err
	}
	if err := repo.Lock(); err != nil {
		return CommitOutcome{}, err
	}
	defer func() { _ = repo.Unlock() }()

	if err := grafico.Export(m, osfs.New(repo.Workdir())); err != nil {
		return CommitOutcome{}, err
	}
	m.SourcePath = repo.Workdir()

	if err := repo.StageAll(ctx); err != nil {
		return CommitOutcome{}, err
	}

	result, err := repo.Commit(ctx, msg, who)
	if err != nil {
		if errors.Is(err, repository.ErrNothingToCommit) {
			c.log.WithField("repo", repo.Workdir()).Info("working tree already up to date with model")
			return CommitOutcome{NothingToCommit: true}, nil
		}
		return CommitOutcome{}, err
	}

	c.prefs.RememberIdentity(who.Name, who.Email)
	c.log.WithFields(map[string]interface{}{
		"repo":   repo.Workdir(),
		"commit": result.Hash,
	}).Info("model changes committed")
	return CommitOutcome{Commit: result}, nil
}

// Refresh fetches and fast-forwards the working tree from the remote,
// then re-imports the model. It refuses to run with a dirty working
// tree (ErrUncommittedChanges): pending edits must be committed before
// they can be reconciled with the remote. A credential-entry cancel
// aborts the whole operation with no side effects.
func (c *Coordinator) Refresh(ctx context.Context, repo *repository.Repo) (RefreshResult, error) {
	dirty, err := repo.HasChanges(ctx)
	if err != nil {
		return RefreshResult{}, err
	}
	if dirty {
		return RefreshResult{}, ErrUncommittedChanges
	}

	auth, cancelled, err := c.resolveAuth(ctx, repo)
	if err != nil {
		return RefreshResult{}, err
	}
	if cancelled {
		return RefreshResult{Cancelled: true}, nil
	}

	upToDate := false
	if err := repo.Fetch(ctx, auth); err != nil {
		if !errors.Is(err, repository.ErrAlreadyUpToDate) {
			return RefreshResult{}, err
		}
	}
	if err := repo.PullFFOnly(ctx, auth); err != nil {
		if errors.Is(err, repository.ErrAlreadyUpToDate) {
			upToDate = true
		} else {
			return RefreshResult{}, err
		}
	}

	m, report, err := c.OpenModel(ctx, repo)
	if err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{UpToDate: upToDate, Model: m, Report: report}, nil
}

// Publish commits any pending model changes and pushes the branch to the
// remote. A credential cancel aborts the push; the local commit created
// before the cancellation point is kept.
func (c *Coordinator) Publish(ctx context.Context, repo *repository.Repo, m *model.Model, who repository.Signature, msg string) (PublishResult, error) {
	outcome, err := c.CommitChanges(ctx, repo, m, who, msg)
	if err != nil {
		return PublishResult{}, err
	}
	result := PublishResult{
		NothingToCommit: outcome.NothingToCommit,
		Commit:          outcome.Commit,
	}

	auth, cancelled, err := c.resolveAuth(ctx, repo)
	if err != nil {
		return PublishResult{}, err
	}
	if cancelled {
		result.Cancelled = true
		return result, nil
	}

	if err := repo.Push(ctx, auth); err != nil {
		if errors.Is(err, repository.ErrAlreadyUpToDate) {
			result.RemoteUpToDate = true
			return result, nil
		}
		return PublishResult{}, err
	}

	c.log.WithField("repo", repo.Workdir()).Info("changes published to remote")
	return result, nil
}

// CloneRepository clones remoteURL into workdir, resolving credentials
// first. cancelled reports a user abort before anything touched disk.
func (c *Coordinator) CloneRepository(ctx context.Context, remoteURL, workdir string) (repo *repository.Repo, cancelled bool, err error) {
	var auth repository.AuthProvider
	var resolved credentials.Credentials

	if remoteNeedsAuth(remoteURL) {
		// The metadata folder does not exist before the clone, so stored
		// credentials cannot apply yet; the prompt is the only source.
		creds, ok, promptErr := c.prompt.PromptCredentials(ctx)
		if promptErr != nil {
			return nil, false, promptErr
		}
		if !ok {
			return nil, true, nil
		}
		resolved = creds
		auth = repository.NewBasicAuthProvider(creds.Username, creds.Secret)
	}

	repo, err = repository.Clone(ctx, remoteURL, workdir, auth)
	if err != nil {
		return nil, false, err
	}

	if c.prefs.StoreCredentials && !resolved.IsZero() {
		store := credentials.NewStore(repo.MetadataDir(), credentialsFileName)
		if err := store.Save(resolved); err != nil {
			c.log.WithError(err).Warn("failed to persist credentials; continuing")
		}
	}
	return repo, false, nil
}

// ForgetCredentials removes the stored credentials for the repository.
// Forgetting when nothing is stored is a no-op.
func (c *Coordinator) ForgetCredentials(repo *repository.Repo) error {
	store := credentials.NewStore(repo.MetadataDir(), credentialsFileName)
	if err := store.Delete(); err != nil {
		return err
	}
	c.log.WithField("repo", repo.Workdir()).Info("stored credentials removed")
	return nil
}

// remoteNeedsAuth reports whether the remote URL is a network remote
// that may require credentials. Local paths and file:// remotes do not.
func remoteNeedsAuth(remoteURL string) bool {
	return strings.HasPrefix(remoteURL, "http://") || strings.HasPrefix(remoteURL, "https://")
}

// resolveAuth obtains an auth provider for the repository's remote via
// the credential resolver. Persistence failures are logged and otherwise
// ignored, per the resolver contract.
func (c *Coordinator) resolveAuth(ctx context.Context, repo *repository.Repo) (repository.AuthProvider, bool, error) {
	if !remoteNeedsAuth(repo.RemoteURL()) {
		return nil, false, nil
	}
	store := credentials.NewStore(repo.MetadataDir(), credentialsFileName)
	res, err := credentials.Resolve(ctx, store, c.prompt, c.prefs.StoreCredentials)
	if err != nil {
		return nil, false, err
	}
	if res.Cancelled {
		return nil, true, nil
	}
	if res.PersistErr != nil {
		c.log.WithError(res.PersistErr).Warn("failed to persist credentials; continuing")
	}
	return repository.NewBasicAuthProvider(res.Credentials.Username, res.Credentials.Secret), false, nil
}
