// Package cli is the command-line driver for the sync core, the "host"
// side of the workflow. It owns everything the library refuses to own:
// terminal prompting, preference loading, and error presentation.
package cli

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archicontribs/modelrepo/prefs"
	"github.com/archicontribs/modelrepo/repository"
	"github.com/archicontribs/modelrepo/workflow"
)

var (
	// Global flags
	repoPath  string
	prefsPath string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "modelrepo",
	Short: "Synchronize architecture models with a Git repository",
	Long: `modelrepo keeps an architecture model and a Git repository in sync
using an exploded, file-per-element XML representation so that commits
and diffs track individual model edits.

Typical workflow:
  modelrepo clone https://example.com/arch/model.git ./model
  modelrepo status  -r ./model
  modelrepo commit  -r ./model -m "add payment service"
  modelrepo publish -r ./model -m "add payment service"
  modelrepo refresh -r ./model`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "r", ".", "Path to the local repository working directory")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "Path to the preferences file (default: user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// loadPreferences loads the preference file, falling back to the
// standard location when --prefs is not given.
func loadPreferences() (*prefs.Preferences, string, error) {
	path := prefsPath
	if path == "" {
		var err error
		path, err = prefs.DefaultPath()
		if err != nil {
			return nil, "", err
		}
	}
	p, err := prefs.Load(path)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

// newCoordinator builds the workflow coordinator with the terminal
// prompt and loaded preferences.
func newCoordinator() (*workflow.Coordinator, string, error) {
	p, path, err := loadPreferences()
	if err != nil {
		return nil, "", err
	}
	return workflow.New(terminalPrompt{}, p, logger.StandardLogger()), path, nil
}

// openRepository opens the repository addressed by --repo.
func openRepository(ctx context.Context) (*repository.Repo, error) {
	return repository.Open(ctx, repoPath)
}
