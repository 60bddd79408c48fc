package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/alexanderramin/taskhelper/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// cliRequester marks questions asked from the terminal.
const cliRequester = "cli"

func newAskCmd(app *App) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question locally through the full fallback chain",
		Long: `Answer one question exactly as the bot would, without Discord.

With no argument the question is read from an interactive prompt, or from
stdin when it is not a terminal.

Examples:
  taskhelper ask "How do I get verified?"
  echo "when are payouts?" | taskhelper ask
  taskhelper ask --trace "what are the task limits?"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(app, cmd, args)
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking...")
			}
			final, err := app.Resolver.Resolve(cmd.Context(), answer.NewQuestion(question, cliRequester))
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAnswer(final, trace))
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "list the stages that failed before the answer")

	return cmd
}

func readQuestion(app *App, cmd *cobra.Command, args []string) (string, error) {
	var question string
	switch {
	case len(args) == 1:
		question = args[0]
	case app.interactive():
		if err := questionForm(&question).Run(); err != nil {
			return "", err
		}
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading question from stdin: %w", err)
		}
		question = string(data)
	}

	question = strings.TrimSpace(question)
	if err := validateQuestion(question); err != nil {
		return "", err
	}
	return question, nil
}
