package cli

import (
	"fmt"

	"github.com/alexanderramin/taskhelper/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRulesCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the loaded knowledge document and keyword rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Document == nil {
				return fmt.Errorf("no knowledge document loaded")
			}
			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, app.Document.Text())
				return nil
			}
			fmt.Fprintln(out, formatter.FormatRules(app.Document, app.Keywords.Rules()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the full document text")

	return cmd
}
