package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfpick/internal/media"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and reset the rejected-item state",
	}

	stateCmd.AddCommand(newStateShowCommand(ctx))
	stateCmd.AddCommand(newStateResetCommand(ctx))
	return stateCmd
}

func newStateShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show [film|album|book]",
		Short: "Show rejected item counts, or the rejected keys for one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				category, err := categoryArg(args[0])
				if err != nil {
					return err
				}
				rejected := st.state.Rejected(category)
				if jsonOut {
					return writeJSON(cmd, rejected)
				}
				if len(rejected) == 0 {
					fmt.Fprintf(out, "No rejected %ss.\n", category)
					return nil
				}
				headline(out, "Rejected %ss: %d", category, len(rejected))
				for _, key := range rejected {
					fmt.Fprintf(out, "  %s\n", key)
				}
				return nil
			}

			stats := st.state.Stats()
			if jsonOut {
				return writeJSON(cmd, stats)
			}

			headline(out, "Rejected items: %d", stats.Total)
			rows := make([][]string, 0, len(media.Categories()))
			for _, category := range media.Categories() {
				rows = append(rows, []string{
					string(category),
					strconv.Itoa(stats.ByCategory[category]),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Rejected"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStateResetCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset [film|album|book]",
		Short: "Forget rejections for one category, or for all categories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var category media.Category
			if len(args) == 1 {
				parsed, err := categoryArg(args[0])
				if err != nil {
					return err
				}
				category = parsed
			}
			if !confirmed {
				scope := "all categories"
				if category != "" {
					scope = string(category)
				}
				return fmt.Errorf("refusing to reset rejections for %s without --yes", scope)
			}

			return ctx.withLock(func() error {
				st, err := ctx.openStores()
				if err != nil {
					return err
				}
				if err := st.state.Reset(category); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if category == "" {
					okLine(out, "Cleared rejections for every category.")
				} else {
					okLine(out, "Cleared %s rejections.", category)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Skip the confirmation check")
	return cmd
}
