package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlshell/nlsh/internal/app"
	"github.com/nlshell/nlsh/internal/domain"
)

// NewRulesCommand creates the rules command for inspecting the severity
// rule table.
func NewRulesCommand(container *app.Container) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect severity rules",
	}

	rulesCmd.AddCommand(
		newRulesListCommand(container),
		newRulesCheckCommand(container),
		newRulesPathCommand(container),
	)

	return rulesCmd
}

func newRulesListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the active severity rules in scan order",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, rule := range container.Guardrail.Rules() {
				fmt.Fprintf(out, "%-8s %-45s %s\n", rule.Level, rule.Message, rule.Pattern)
			}
			return nil
		},
	}
}

func newRulesCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command>",
		Short: "Classify a command without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			check := container.QueryService.SecurityService.Classify(command)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "severity: %s\n", check.Level)
			if check.Reason != "" {
				fmt.Fprintf(out, "reason:   %s\n", check.Reason)
			}
			for _, warning := range check.Warnings {
				fmt.Fprintf(out, " - %s\n", warning)
			}
			if domain.RequiresConfirmation(check.Level) {
				fmt.Fprintln(out, "this command would require explicit confirmation")
			}
			return nil
		},
	}
}

func newRulesPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the active rules file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return err
			}
			path := cfg.Security.RulesFile
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "embedded defaults (set security.rules_file to override)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
