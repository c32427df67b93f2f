package cli

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	publishMessage string
	publishName    string
	publishEmail   string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Commit pending model changes and push them to the remote",
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVarP(&publishMessage, "message", "m", "", "Commit message (required when there are changes)")
	publishCmd.Flags().StringVar(&publishName, "name", "", "Author name (default: last used)")
	publishCmd.Flags().StringVar(&publishEmail, "email", "", "Author email (default: last used)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
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

	p := coordinator.Preferences()
	who := commitIdentity(coordinator)
	if publishName != "" {
		who.Name = publishName
	}
	if publishEmail != "" {
		who.Email = publishEmail
	}

	result, err := coordinator.Publish(ctx, repo, m, who, publishMessage)
	if err != nil {
		return friendlyCommitError(err)
	}

	if !result.NothingToCommit {
		fmt.Printf("Committed %s\n", shortHash(result.Commit.Hash))
		if err := p.Save(path); err != nil {
			logger.WithError(err).Warn("failed to save preferences")
		}
	}
	switch {
	case result.Cancelled:
		logger.Info("push cancelled; local commit kept")
	case result.RemoteUpToDate:
		fmt.Println("Remote already up to date.")
	default:
		fmt.Println("Pushed to remote.")
	}
	return nil
}
