package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archicontribs/modelrepo/repository"
)

var (
	logMax    int
	logAuthor string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the repository's commit history",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVarP(&logMax, "max", "n", 20, "Maximum number of commits to show (0 for all)")
	logCmd.Flags().StringVar(&logAuthor, "author", "", "Only show commits by this author")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	repo, err := openRepository(ctx)
	if err != nil {
		return err
	}

	commits, err := repo.Log(ctx, repository.LogFilter{
		Author:   logAuthor,
		MaxCount: logMax,
	})
	if err != nil {
		return err
	}

	for _, c := range commits {
		kind := ""
		if c.Type != "" {
			kind = " [" + c.Type
			if c.Scope != "" {
				kind += "(" + c.Scope + ")"
			}
			if c.Breaking {
				kind += "!"
			}
			kind += "]"
		}
		fmt.Printf("%s  %s  %s%s  %s\n",
			shortHash(c.Hash), c.When.Format("2006-01-02 15:04"), c.Author, kind, c.Subject())
	}
	return nil
}
