package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelfpick/internal/media"
	"shelfpick/internal/recommend"
)

func newRejectCommand(ctx *commandContext) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "reject <film|album|book> <title>",
		Short: "Permanently dismiss a recommendation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := categoryArg(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")

			return ctx.withLock(func() error {
				engine, _, err := ctx.openEngine()
				if err != nil {
					return err
				}
				item := media.Item{Title: title, Author: author, Category: category}
				if err := engine.Reject(item); err != nil {
					return err
				}
				okLine(cmd.OutOrStdout(), "Rejected %s; it will not be offered again.", item.Display())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author, director, or artist of the work")
	return cmd
}

func newAcceptCommand(ctx *commandContext) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "accept <film|album|book> <title>",
		Short: "Mark a recommendation as taken for this run",
		Long: "Accepting keeps the item out of later cycles in the current run only;\n" +
			"nothing is persisted, so a future run may offer it again.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := categoryArg(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")

			engine, _, err := ctx.openEngine()
			if err != nil {
				return err
			}
			item := media.Item{Title: title, Author: author, Category: category}
			if err := engine.Accept(item); err != nil {
				return err
			}
			okLine(cmd.OutOrStdout(), "Accepted %s. Enjoy.", item.Display())
			return nil
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author, director, or artist of the work")
	return cmd
}

func newOutcomeCommand(ctx *commandContext) *cobra.Command {
	outcomeCmd := &cobra.Command{
		Use:   "outcome",
		Short: "Record catalog check results",
	}

	outcomeCmd.AddCommand(newOutcomeItemCommand(ctx))
	outcomeCmd.AddCommand(newOutcomeArtistCommand(ctx))
	return outcomeCmd
}

func newOutcomeItemCommand(ctx *commandContext) *cobra.Command {
	var author string
	var available bool
	var unavailable bool

	cmd := &cobra.Command{
		Use:   "item <film|album|book> <title>",
		Short: "Record whether the catalog carries an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if available == unavailable {
				return fmt.Errorf("exactly one of --available or --unavailable is required")
			}
			category, err := categoryArg(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")

			return ctx.withLock(func() error {
				engine, _, err := ctx.openEngine()
				if err != nil {
					return err
				}
				item := media.Item{Title: title, Author: author, Category: category}

				outcome := recommend.OutcomeUnavailable
				if available {
					outcome = recommend.OutcomeAvailable
				}
				if err := engine.RecordOutcome(item, outcome); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if available {
					okLine(out, "Recorded %s as available.", item.Display())
				} else {
					okLine(out, "Recorded %s as unavailable; blacklisted for %s.", item.Display(), category)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Author, director, or artist of the work")
	cmd.Flags().BoolVar(&available, "available", false, "The catalog carries the item")
	cmd.Flags().BoolVar(&unavailable, "unavailable", false, "The catalog has no match")
	return cmd
}

func newOutcomeArtistCommand(ctx *commandContext) *cobra.Command {
	var songCount int
	var newWork bool

	cmd := &cobra.Command{
		Use:   "artist <name>",
		Short: "Record the result of a personalized artist check",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")

			return ctx.withLock(func() error {
				engine, _, err := ctx.openEngine()
				if err != nil {
					return err
				}
				if err := engine.RecordArtistOutcome(name, songCount, newWork); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if newWork {
					okLine(out, "%s has new work; exclusion cleared.", name)
				} else {
					okLine(out, "%s has nothing new; excluded until the next recheck window.", name)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&songCount, "songs", 0, "Number of the artist's songs in the archive")
	cmd.Flags().BoolVar(&newWork, "new-work", false, "The catalog check found new work")
	return cmd
}
