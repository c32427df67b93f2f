package cli

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archicontribs/modelrepo/repository"
	"github.com/archicontribs/modelrepo/workflow"
)

var (
	commitMessage string
	commitName    string
	commitEmail   string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit pending model changes",
	Long: `Re-export the model into its canonical exploded form, stage every
pending change, and commit. Author name and email default to the values
used for the previous commit.`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message (required when there are changes)")
	commitCmd.Flags().StringVar(&commitName, "name", "", "Author name (default: last used)")
	commitCmd.Flags().StringVar(&commitEmail, "email", "", "Author email (default: last used)")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	repo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	coordinator, path, err := newCoordinator()
	if err != nil {
		return err
	}

	m, report, err := coordinator.OpenModel(ctx, repo)
	if err != nil {
		return err
	}
	defer coordinator.CloseModel(m)
	printReport(report)

	outcome, err := coordinator.CommitChanges(ctx, repo, m, commitIdentity(coordinator), commitMessage)
	if err != nil {
		return friendlyCommitError(err)
	}
	if outcome.NothingToCommit {
		fmt.Println("Nothing to commit; working tree is up to date.")
		return nil
	}

	if err := coordinator.Preferences().Save(path); err != nil {
		logger.WithError(err).Warn("failed to save preferences")
	}
	fmt.Printf("Committed %s\n", shortHash(outcome.Commit.Hash))
	return nil
}

// commitIdentity merges the command flags with the remembered defaults.
func commitIdentity(c *workflow.Coordinator) repository.Signature {
	p := c.Preferences()
	name, email := p.CommitName, p.CommitEmail
	if commitName != "" {
		name = commitName
	}
	if commitEmail != "" {
		email = commitEmail
	}
	return repository.Signature{Name: name, Email: email}
}

// friendlyCommitError maps commit sentinels onto actionable messages.
func friendlyCommitError(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmptyMessage):
		return errors.New("there are changes to commit; provide a message with -m")
	case errors.Is(err, repository.ErrInvalidIdentity):
		return errors.New("author identity required; provide --name and --email")
	default:
		return err
	}
}
