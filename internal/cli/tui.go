package cli

import (
	"todo-web/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(opts *Options) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal task list for one account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, acct, err := creds.login(cmd, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			if err := tui.Run(cmd.Context(), a.Tasks, acct); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}
