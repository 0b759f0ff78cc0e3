package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfpick/internal/archive"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the owned music collection",
	}

	archiveCmd.AddCommand(newArchiveScanCommand(ctx))
	return archiveCmd
}

func newArchiveScanCommand(ctx *commandContext) *cobra.Command {
	var top int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the archive and rank artists by song count",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.ArchiveDir == "" {
				return fmt.Errorf("paths.archive_dir is not configured")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			tallies, err := archive.ScanArtists(cfg.Paths.ArchiveDir, logger)
			if err != nil {
				return err
			}
			if top > 0 && len(tallies) > top {
				tallies = tallies[:top]
			}
			if jsonOut {
				return writeJSON(cmd, tallies)
			}

			out := cmd.OutOrStdout()
			if len(tallies) == 0 {
				fmt.Fprintln(out, "No artists found in the archive.")
				return nil
			}

			headline(out, "Archive artists by song count")
			rows := make([][]string, 0, len(tallies))
			for _, tally := range tallies {
				rows = append(rows, []string{tally.Name, strconv.Itoa(tally.Songs)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Artist", "Songs"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "Show only the N largest artists")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
