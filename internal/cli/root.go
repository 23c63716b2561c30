package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"todo-web/internal/app"
	"todo-web/internal/config"
	"todo-web/internal/format"
	"todo-web/internal/logging"

	"github.com/spf13/cobra"
)

// Options holds the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Per-account to-do list: web server, JSON API and terminal tools",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Serve the web UI and JSON API
  todo serve --addr 127.0.0.1:5000

  # Create an account from the terminal
  todo accounts create alice pw1

  # Manage alice's tasks without the browser
  todo tasks add --username alice --password pw1 "buy milk"
  todo tui --username alice --password pw1
`),
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", envOr("TODO_CONFIG", ""), "Path to a .yaml/.yml/.toml config file")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides config and TODO_DB)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newAccountsCmd(opts))
	cmd.AddCommand(newTasksCmd(opts))
	cmd.AddCommand(newTUICmd(opts))
	cmd.AddCommand(newDocsCmd(opts))

	return cmd
}

// loadConfig resolves file + env config and applies flag overrides last.
func loadConfig(opts *Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if v := strings.TrimSpace(opts.DBPath); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.Log.Level = v
	}
	return cfg, cfg.Validate()
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
}

// openApp builds the application context for one-shot commands.
func openApp(cmd *cobra.Command, opts *Options) (*app.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, newLogger(cmd, cfg))
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, opts *Options, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, opts.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
