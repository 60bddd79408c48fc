package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "taskhelper" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "taskhelper",
		Short:         "Discord assistant that answers questions about the server rules",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.bootstrap(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load variables from this file (default ./.env when present)")

	root.AddCommand(
		newServeCmd(app),
		newAskCmd(app),
		newChatCmd(app),
		newRulesCmd(app),
	)

	return root
}
