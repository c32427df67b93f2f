package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the credentials stored for this repository",
	Long: `Delete the encrypted credential file kept in the repository's metadata
folder. The next remote operation will prompt for credentials again.`,
	Args: cobra.NoArgs,
	RunE: runForget,
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}

func runForget(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	repo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	coordinator, _, err := newCoordinator()
	if err != nil {
		return err
	}

	if err := coordinator.ForgetCredentials(repo); err != nil {
		return err
	}
	fmt.Println("Stored credentials removed.")
	return nil
}
