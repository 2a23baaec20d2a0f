package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/devflow-go/internal/app"
	"github.com/doeshing/devflow-go/internal/domain"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect devflow invocation history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent invocations",
		Args:  exactArgs(0, "devflow history list [--limit N]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, "")
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search invocations by command or error text",
		Args:  exactArgs(1, "devflow history search <term>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, args[0])
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded invocations",
		Args:  exactArgs(0, "devflow history clear"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := container.OpenHistory()
			defer store.Close()
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			container.Reporter.Success("History cleared")
			return nil
		},
	}
}

// listHistoryEntries prints records newest first
func listHistoryEntries(out io.Writer, container *app.Container, limit int, search string) error {
	if limit <= 0 {
		return domain.ValidationErrorf("--limit must be > 0")
	}
	store := container.OpenHistory()
	defer store.Close()

	records, err := store.Records(limit, search)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			humanize.Time(rec.Timestamp),
			statusLabel(rec),
			time.Duration(rec.DurationMS)*time.Millisecond,
			rec.Command)
	}
	return w.Flush()
}

func statusLabel(rec domain.HistoryRecord) string {
	if rec.Success {
		return "ok"
	}
	return fmt.Sprintf("failed(%d)", rec.ExitCode)
}
