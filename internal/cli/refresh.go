package cli

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archicontribs/modelrepo/workflow"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Update the working tree from the remote and re-import the model",
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	repo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	coordinator, _, err := newCoordinator()
	if err != nil {
		return err
	}

	result, err := coordinator.Refresh(ctx, repo)
	if err != nil {
		if errors.Is(err, workflow.ErrUncommittedChanges) {
			return errors.New("the working tree has uncommitted changes; run 'modelrepo commit' first")
		}
		return err
	}
	if result.Cancelled {
		logger.Info("refresh cancelled")
		return nil
	}

	if result.UpToDate {
		fmt.Println("Already up to date.")
	} else {
		fmt.Println("Working tree updated from remote.")
	}
	fmt.Printf("Model: %s (%d elements, %d relationships, %d diagrams)\n",
		result.Model.Name, len(result.Model.Elements), len(result.Model.Relationships), len(result.Model.Diagrams))
	printReport(result.Report)
	coordinator.CloseModel(result.Model)
	return nil
}
