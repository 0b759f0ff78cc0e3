package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfpick/internal/media"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Review past recommendation cycles",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var categoryFlag string
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent cycles, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var category media.Category
			if categoryFlag != "" {
				parsed, err := categoryArg(categoryFlag)
				if err != nil {
					return err
				}
				category = parsed
			}

			journal, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if journal == nil {
				return fmt.Errorf("history is disabled in the configuration")
			}
			defer journal.Close()

			cycles, err := journal.RecentCycles(cmd.Context(), category, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, cycles)
			}

			out := cmd.OutOrStdout()
			if len(cycles) == 0 {
				fmt.Fprintln(out, "No recorded cycles.")
				return nil
			}

			rows := make([][]string, 0, len(cycles))
			for _, cycle := range cycles {
				rows = append(rows, []string{
					cycle.ID,
					string(cycle.Category),
					strconv.Itoa(cycle.Requested),
					strconv.Itoa(cycle.Selected),
					cycle.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Cycle", "Category", "Requested", "Selected", "When"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "Narrow to one category")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum cycles to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <cycle-id>",
		Short: "Show the items one cycle surfaced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if journal == nil {
				return fmt.Errorf("history is disabled in the configuration")
			}
			defer journal.Close()

			items, err := journal.CycleItems(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Cycle has no recorded items.")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for i, item := range items {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					item.Title,
					item.Author,
					item.Source,
					string(item.Disposition),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", "Author", "Source", "Disposition"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete cycles older than the configured retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			journal, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if journal == nil {
				return fmt.Errorf("history is disabled in the configuration")
			}
			defer journal.Close()

			maxAge := cfg.HistoryRetention()
			removed, err := journal.PruneOlderThan(cmd.Context(), maxAge)
			if err != nil {
				return err
			}
			okLine(cmd.OutOrStdout(), "Pruned %d cycles older than %d days.", removed, cfg.History.RetentionDays)
			return nil
		},
	}
	return cmd
}
