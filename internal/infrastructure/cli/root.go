// Package cli wires the cobra command tree and owns the terminal:
// prompting, rendering and flag parsing all live here.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nlshell/nlsh/internal/app"
	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd builds the container and wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.QueryService.Prompter = NewPrompter(nil, nil)
	container.QueryService.Presenter = NewRenderer(nil)

	queryCmd := newQueryCommand(container)

	root := &cobra.Command{
		Use:   "nlsh [query]",
		Short: "nlsh - natural language shell",
		Long:  "nlsh turns natural language into shell commands, verifies them, and asks before running anything dangerous.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			queryCmd.SetArgs(args)
			return queryCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(queryCmd)
	root.AddCommand(commands.NewInitCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewRulesCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

func newQueryCommand(container *app.Container) *cobra.Command {
	var (
		model       string
		previewOnly bool
		autoExecute bool
		debug       bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query [natural language]",
		Short: "Generate a command from natural language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			req := domain.QueryRequest{
				Context:       ctx,
				Query:         strings.Join(args, " "),
				ModelOverride: model,
				PreviewOnly:   previewOnly,
				AutoExecute:   autoExecute,
				Debug:         debug,
			}
			_, err := container.QueryService.Run(req)
			return err
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVarP(&previewOnly, "preview-only", "p", false, "Only preview the command, never execute")
	cmd.Flags().BoolVarP(&autoExecute, "auto-execute", "a", false, "Skip the run/edit/cancel prompt (dangerous commands still require confirmation)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Override request timeout")

	return cmd
}
