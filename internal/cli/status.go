package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archicontribs/modelrepo/grafico"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show repository and model status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	repo, err := openRepository(ctx)
	if err != nil {
		return err
	}

	status, err := repo.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Working directory: %s\n", repo.Workdir())
	if status.Branch != "" {
		fmt.Printf("Branch:            %s @ %s\n", status.Branch, shortHash(status.Head))
	} else {
		fmt.Println("Branch:            (no commits yet)")
	}
	if status.RemoteURL != "" {
		fmt.Printf("Remote:            %s\n", status.RemoteURL)
	} else {
		fmt.Println("Remote:            (none)")
	}
	if status.Clean {
		fmt.Println("Working tree:      clean")
	} else {
		fmt.Println("Working tree:      has pending changes")
	}

	coordinator, _, err := newCoordinator()
	if err != nil {
		return err
	}
	m, report, err := coordinator.OpenModel(ctx, repo)
	switch {
	case errors.Is(err, grafico.ErrNoModel):
		fmt.Println("Model:             (none)")
	case errors.Is(err, grafico.ErrConflicted):
		fmt.Println("Model:             unresolved merge conflicts; resolve them before opening the model")
		printReport(report)
	case err != nil:
		return err
	default:
		defer coordinator.CloseModel(m)
		fmt.Printf("Model:             %s (%d elements, %d relationships, %d diagrams)\n",
			m.Name, len(m.Elements), len(m.Relationships), len(m.Diagrams))
		printReport(report)
	}
	return nil
}

func printReport(report *grafico.ResolutionReport) {
	if report.Empty() {
		return
	}
	fmt.Println(report)
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
