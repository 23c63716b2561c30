package cli

import (
	"fmt"

	"todo-web/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(opts *Options) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show bundled documentation (routes, API, configuration)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, opts, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic, ok := docs.Get(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `todo docs` to list topics)", args[0]))
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), topic.Body)
				return err
			}
			return writeOut(cmd, opts, map[string]any{"data": map[string]any{
				"topic":    topic.Name,
				"title":    topic.Title,
				"markdown": topic.Body,
			}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	return cmd
}
