package cli

import (
	"github.com/spf13/cobra"
)

func newAccountsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account commands",
	}
	cmd.AddCommand(newAccountsCreateCmd(opts))
	cmd.AddCommand(newAccountsListCmd(opts))
	return cmd
}

func newAccountsCreateCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create an account (same rules as web signup)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			acct, err := a.Auth.Signup(cmd.Context(), args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, opts, map[string]any{"data": acct})
		},
	}
}

func newAccountsListCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts (passwords are never printed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			accounts, err := a.Store.Accounts(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, opts, map[string]any{"data": accounts})
		},
	}
}
