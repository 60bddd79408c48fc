package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive console for trying questions locally",
		Long: `Start an interactive console. Every question is answered on its own;
nothing carries over between questions.

Commands during chat:
  /clear  Clear the screen
  /quit   Exit the console`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := newChatView(cmd.Context(), app.Resolver, trace)
			_, err := tea.NewProgram(view,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			view.cancel()
			return err
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "list the stages that failed before each answer")

	return cmd
}
