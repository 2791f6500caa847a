// Package commands holds the cobra subcommands.
package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nlshell/nlsh/internal/app"
	"github.com/nlshell/nlsh/internal/domain"
)

const defaultHistoryLimit = 20

// NewHistoryCommand creates the history command with its subcommands.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect this terminal's session history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries for this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, "")
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Max entries to show")
	return cmd
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search this terminal's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, args[0])
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Limit search results")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear this terminal's history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.SessionStore.Clear(); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

func listHistoryEntries(out io.Writer, container *app.Container, limit int, search string) error {
	records, err := container.SessionStore.Records(limit, search)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No history recorded for this terminal yet.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %q -> %s\n",
			humanize.Time(rec.Timestamp),
			outcomeLabel(rec),
			rec.Query,
			rec.Command)
	}
	return nil
}

func outcomeLabel(rec domain.SessionRecord) string {
	if rec.Outcome == domain.OutcomeExecuted && rec.ExitCode != nil && *rec.ExitCode != 0 {
		return fmt.Sprintf("executed (exit %d)", *rec.ExitCode)
	}
	return string(rec.Outcome)
}
