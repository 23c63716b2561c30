package cli

import (
	"fmt"
	"strconv"
	"strings"

	"todo-web/internal/app"
	"todo-web/internal/model"

	"github.com/spf13/cobra"
)

// credentials are the --username/--password pair every task command logs in with.
type credentials struct {
	username string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.username, "username", envOr("TODO_USERNAME", ""), "Account username (or TODO_USERNAME)")
	cmd.Flags().StringVar(&c.password, "password", envOr("TODO_PASSWORD", ""), "Account password (or TODO_PASSWORD)")
}

// login opens the app and authenticates; the caller closes the app.
func (c *credentials) login(cmd *cobra.Command, opts *Options) (*app.App, model.Account, error) {
	a, err := openApp(cmd, opts)
	if err != nil {
		return nil, model.Account{}, err
	}
	acct, err := a.Auth.Login(cmd.Context(), c.username, c.password)
	if err != nil {
		_ = a.Close()
		return nil, model.Account{}, err
	}
	return a, acct, nil
}

func newTasksCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands (scoped to the logged-in account)",
	}
	cmd.AddCommand(newTasksListCmd(opts))
	cmd.AddCommand(newTasksAddCmd(opts))
	cmd.AddCommand(newTasksEditCmd(opts))
	cmd.AddCommand(newTasksRmCmd(opts))
	return cmd
}

func newTasksListCmd(opts *Options) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, acct, err := creds.login(cmd, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			items, err := a.Tasks.List(cmd.Context(), acct.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, opts, map[string]any{"data": items})
		},
	}
	creds.bind(cmd)
	return cmd
}

func newTasksAddCmd(opts *Options) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "add <content...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, acct, err := creds.login(cmd, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			t, err := a.Tasks.Add(cmd.Context(), acct.ID, strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, opts, map[string]any{"data": t})
		},
	}
	creds.bind(cmd)
	return cmd
}

func newTasksEditCmd(opts *Options) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "edit <id> <content...>",
		Short: "Replace a task's content",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			a, acct, err := creds.login(cmd, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			t, err := a.Tasks.Edit(cmd.Context(), acct.ID, id, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, opts, map[string]any{"data": t})
		},
	}
	creds.bind(cmd)
	return cmd
}

func newTasksRmCmd(opts *Options) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			a, acct, err := creds.login(cmd, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			if err := a.Tasks.Delete(cmd.Context(), acct.ID, id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, opts, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
		},
	}
	creds.bind(cmd)
	return cmd
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
