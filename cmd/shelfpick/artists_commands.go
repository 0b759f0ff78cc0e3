package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newArtistsCommand(ctx *commandContext) *cobra.Command {
	artistsCmd := &cobra.Command{
		Use:   "artists",
		Short: "Inspect and maintain the personalized artist exclusions",
	}

	artistsCmd.AddCommand(newArtistsListCommand(ctx))
	artistsCmd.AddCommand(newArtistsRemoveCommand(ctx))
	artistsCmd.AddCommand(newArtistsRecheckCommand(ctx))
	artistsCmd.AddCommand(newArtistsStatsCommand(ctx))
	artistsCmd.AddCommand(newArtistsPruneCommand(ctx))
	return artistsCmd
}

func newArtistsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List excluded artists",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}

			records := st.artists.Records()
			if jsonOut {
				return writeJSON(cmd, records)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No artists are excluded.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.ArtistName,
					strconv.Itoa(record.SongCount),
					strconv.Itoa(record.CheckCount),
					formatDate(record.LastChecked),
					formatDate(record.AddedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Artist", "Songs", "Checks", "Last checked", "Added"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newArtistsRemoveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Drop an artist's exclusion record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")

			return ctx.withLock(func() error {
				st, err := ctx.openStores()
				if err != nil {
					return err
				}
				removed, err := st.artists.Remove(name)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !removed {
					fmt.Fprintf(out, "%s was not excluded.\n", name)
					return nil
				}
				okLine(out, "Removed %s; the next cycle may recommend them again.", name)
				return nil
			})
		},
	}
	return cmd
}

func newArtistsRecheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "recheck",
		Short: "List artists whose exclusion has gone stale",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}

			due := st.artists.DueForRecheck()
			if jsonOut {
				return writeJSON(cmd, due)
			}

			out := cmd.OutOrStdout()
			if len(due) == 0 {
				fmt.Fprintln(out, "No artists are due for a recheck.")
				return nil
			}

			headline(out, "%d artists due for a catalog recheck (stalest first)", len(due))
			rows := make([][]string, 0, len(due))
			for _, info := range due {
				rows = append(rows, []string{
					info.ArtistName,
					strconv.Itoa(info.DaysSinceCheck),
					strconv.Itoa(info.CheckCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Artist", "Days stale", "Checks"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintln(out, "Record results with `shelfpick outcome artist <name> [--new-work]`.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newArtistsStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the artist exclusion list",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}

			stats := st.artists.Stats()
			if jsonOut {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			headline(out, "Excluded artists: %d", stats.TotalArtists)
			fmt.Fprintf(out, "Due for recheck:   %d\n", stats.DueForRecheck)
			fmt.Fprintf(out, "Added last 30 days: %d\n", stats.RecentAdditions)
			if len(stats.MostChecked) > 0 {
				rows := make([][]string, 0, len(stats.MostChecked))
				for _, tally := range stats.MostChecked {
					rows = append(rows, []string{tally.ArtistName, strconv.Itoa(tally.CheckCount)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Most checked", "Checks"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newArtistsPruneCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete exclusion records older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}

			return ctx.withLock(func() error {
				st, err := ctx.openStores()
				if err != nil {
					return err
				}
				removed, err := st.artists.PruneOlderThan(time.Duration(days) * 24 * time.Hour)
				if err != nil {
					return err
				}
				okLine(cmd.OutOrStdout(), "Pruned %d artist records older than %d days.", removed, days)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 730, "Delete records added more than this many days ago")
	return cmd
}
