package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfpick/internal/media"
)

func newBlacklistCommand(ctx *commandContext) *cobra.Command {
	blacklistCmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Inspect and maintain the no-catalog-match blacklists",
	}

	blacklistCmd.AddCommand(newBlacklistListCommand(ctx))
	blacklistCmd.AddCommand(newBlacklistAddCommand(ctx))
	blacklistCmd.AddCommand(newBlacklistRemoveCommand(ctx))
	blacklistCmd.AddCommand(newBlacklistClearCommand(ctx))
	blacklistCmd.AddCommand(newBlacklistStatsCommand(ctx))
	return blacklistCmd
}

func newBlacklistListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list <film|album|book>",
		Short: "List blacklisted items for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := categoryArg(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.openStores()
			if err != nil {
				return err
			}
			store, err := st.blacklists.ForCategory(category)
			if err != nil {
				return err
			}

			entries := store.Entries()
			if jsonOut {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No blacklisted %ss.\n", category)
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Title,
					entry.Author,
					entry.Reason,
					formatDate(entry.AddedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", authorHeader(category), "Reason", "Added"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newBlacklistAddCommand(ctx *commandContext) *cobra.Command {
	var author string
	var reason string

	cmd := &cobra.Command{
		Use:   "add <film|album|book> <title>",
		Short: "Blacklist an item by hand",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := categoryArg(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")

			return ctx.withLock(func() error {
				st, err := ctx.openStores()
				if err != nil {
					return err
				}
				store, err := st.blacklists.ForCategory(category)
				if err != nil {
					return err
				}
				item := media.Item{Title: title, Author: author, Category: category}
				if err := store.Add(item, reason); err != nil {
					return err
				}
				okLine(cmd.OutOrStdout(), "Blacklisted %s.", item.Display())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author, director, or artist of the work")
	cmd.Flags().StringVarP(&reason, "reason", "r", "added by hand", "Reason to record")
	return cmd
}

func newBlacklistRemoveCommand(ctx *commandContext) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "remove <film|album|book> <title>",
		Short: "Remove an item from the blacklist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := categoryArg(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")

			return ctx.withLock(func() error {
				st, err := ctx.openStores()
				if err != nil {
					return err
				}
				store, err := st.blacklists.ForCategory(category)
				if err != nil {
					return err
				}
				item := media.Item{Title: title, Author: author, Category: category}
				removed, err := store.Remove(item)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !removed {
					fmt.Fprintf(out, "%s was not blacklisted.\n", item.Display())
					return nil
				}
				okLine(out, "Removed %s from the %s blacklist.", item.Display(), category)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author, director, or artist of the work")
	return cmd
}

func newBlacklistClearCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear <film|album|book>",
		Short: "Delete every blacklist entry for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := categoryArg(args[0])
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("refusing to clear the %s blacklist without --yes", category)
			}

			return ctx.withLock(func() error {
				st, err := ctx.openStores()
				if err != nil {
					return err
				}
				store, err := st.blacklists.ForCategory(category)
				if err != nil {
					return err
				}
				count := store.Count()
				if err := store.Clear(); err != nil {
					return err
				}
				okLine(cmd.OutOrStdout(), "Cleared %d %s blacklist entries.", count, category)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Skip the confirmation check")
	return cmd
}

func newBlacklistStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize blacklist contents across categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}

			stats := st.blacklists.Stats()
			if jsonOut {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			headline(out, "Blacklisted items: %d", stats.Total)
			rows := make([][]string, 0, len(stats.ByCategory))
			for _, category := range media.Categories() {
				rows = append(rows, []string{
					string(category),
					strconv.Itoa(stats.ByCategory[category]),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Entries"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
