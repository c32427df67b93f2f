package cli

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <remote-url> [directory]",
	Short: "Clone a model repository",
	Long: `Clone a remote model repository into a local working directory.
Credentials are requested when the remote needs them; entering an empty
username cancels the operation.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runClone,
}

func init() {
	rootCmd.AddCommand(cloneCmd)
}

func runClone(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	remoteURL := args[0]
	workdir := repoPath
	if len(args) == 2 {
		workdir = args[1]
	}

	coordinator, _, err := newCoordinator()
	if err != nil {
		return err
	}

	repo, cancelled, err := coordinator.CloneRepository(ctx, remoteURL, workdir)
	if err != nil {
		return fmt.Errorf("clone failed: %w", err)
	}
	if cancelled {
		logger.Info("clone cancelled")
		return nil
	}

	fmt.Printf("Cloned %s into %s\n", remoteURL, repo.Workdir())
	return nil
}
