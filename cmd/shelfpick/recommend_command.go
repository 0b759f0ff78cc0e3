package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfpick/internal/media"
	"shelfpick/internal/recommend"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var count int
	var perSource int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "recommend <film|album|book>",
		Short: "Run one recommendation cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := categoryArg(args[0])
			if err != nil {
				return err
			}

			engine, cfg, err := ctx.openEngine()
			if err != nil {
				return err
			}

			quota := recommend.Quota{Total: cfg.Selection.Quota, PerSource: cfg.Selection.PerSource}
			if count > 0 {
				quota.Total = count
			}
			if cmd.Flags().Changed("per-source") {
				quota.PerSource = perSource
			}

			selection, err := engine.Recommend(cmd.Context(), category, quota)
			if err != nil {
				return err
			}

			if journal, err := ctx.openHistory(); err != nil {
				return err
			} else if journal != nil {
				defer journal.Close()
				cycleID, err := journal.RecordCycle(cmd.Context(), category, quota.Total, selection)
				if err != nil {
					return fmt.Errorf("record cycle: %w", err)
				}
				defer fmt.Fprintf(cmd.OutOrStdout(), "Cycle recorded as %s\n", cycleID)
			}

			if jsonOut {
				return writeJSON(cmd, selection)
			}

			out := cmd.OutOrStdout()
			if len(selection) == 0 {
				fmt.Fprintf(out, "No %s recommendations available right now.\n", category)
				return nil
			}

			headline(out, "Recommended %ss (%d of %d requested)", category, len(selection), quota.Total)
			rows := make([][]string, 0, len(selection))
			for i, item := range selection {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					item.Title,
					item.Author,
					item.Source.Bucket(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", authorHeader(category), "Source"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of recommendations (overrides config)")
	cmd.Flags().IntVar(&perSource, "per-source", 0, "Cap per source; 0 disables")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func authorHeader(category media.Category) string {
	switch category {
	case media.CategoryFilm:
		return "Director"
	case media.CategoryAlbum:
		return "Artist"
	default:
		return "Author"
	}
}
