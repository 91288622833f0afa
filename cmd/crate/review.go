package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crate/internal/cli"
	"github.com/mesh-intelligence/crate/pkg/crate"
	"github.com/mesh-intelligence/crate/pkg/types"
)

func newReviewCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Rate items and read their ratings",
	}
	cmd.AddCommand(newReviewRateCmd(a), newReviewStatsCmd(a), newReviewListCmd(a),
		newReviewMineCmd(a), newReviewRemoveCmd(a))
	return cmd
}

func newReviewRateCmd(a *cli.App) *cobra.Command {
	var (
		f  cli.ItemFlags
		in crate.RateInput
	)
	cmd := &cobra.Command{
		Use:   "rate <type> <name>",
		Short: "Rate an item from 0 to 10, replacing the user's earlier rating",
		Args:  cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name, err := cli.ItemArgs(args, 0)
			if err != nil {
				return err
			}
			in.Kind, in.Name, in.Context = kind, name, f.Context()
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				rev, err := c.Reviews.Rate(ctx, in)
				if err != nil {
					return err
				}
				return a.Emit(rev, func() string {
					return fmt.Sprintf("review %d: item %d scored %g", rev.ID, rev.ItemID, rev.Score)
				})
			})
		},
	}
	cmd.ValidArgsFunction = cli.CompleteKindAt(0)
	f.Bind(cmd)
	cmd.Flags().Int64Var(&in.UserID, "user", 0, "user id")
	cmd.Flags().Float64Var(&in.Score, "score", -1, "score from 0 to 10")
	cmd.Flags().StringVar(&in.Title, "title", "", "review title")
	cmd.Flags().StringVar(&in.Body, "body", "", "review text")
	cmd.Flags().BoolVar(&in.Verified, "verified", false, "mark a first review as verified")
	return cmd
}

func newReviewStatsCmd(a *cli.App) *cobra.Command {
	var f cli.ItemFlags
	cmd := &cobra.Command{
		Use:   "stats <type> <name>",
		Short: "Show verified and unverified averages of an item",
		Args:  cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name, err := cli.ItemArgs(args, 0)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				stats, err := c.Reviews.StatsFor(ctx, kind, name, f.Context())
				if err != nil {
					return err
				}
				return a.Emit(stats, func() string { return formatStats(stats) })
			})
		},
	}
	cmd.ValidArgsFunction = cli.CompleteKindAt(0)
	f.Bind(cmd)
	return cmd
}

func newReviewListCmd(a *cli.App) *cobra.Command {
	var (
		verified bool
		limit    int
		cursor   int64
	)
	cmd := &cobra.Command{
		Use:   "list <item-id>",
		Short: "Page an item's reviews, newest first",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("item", args[0])
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				page, err := c.Reviews.ByItem(ctx, id, verified, limit, cursor)
				if err != nil {
					return err
				}
				return a.Emit(page, func() string { return formatReviews(page) })
			})
		},
	}
	cmd.Flags().BoolVar(&verified, "verified", false, "list verified reviews")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().Int64Var(&cursor, "cursor", 0, "cursor returned by the previous page")
	return cmd
}

func newReviewMineCmd(a *cli.App) *cobra.Command {
	var user int64
	cmd := &cobra.Command{
		Use:   "mine <item-id>",
		Short: "Show the user's review of an item",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("item", args[0])
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				rev, found, err := c.Reviews.Mine(ctx, user, id)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("review of item %d by user %d: %w", id, user, types.ErrNotFound)
				}
				return a.Emit(rev, func() string { return formatReview(rev) })
			})
		},
	}
	cmd.Flags().Int64Var(&user, "user", 0, "user id")
	return cmd
}

func newReviewRemoveCmd(a *cli.App) *cobra.Command {
	var user int64
	cmd := &cobra.Command{
		Use:   "remove <review-id>",
		Short: "Delete one of the user's reviews",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("review", args[0])
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				if err := c.Reviews.Remove(ctx, user, id); err != nil {
					return err
				}
				return a.Emit(map[string]int64{"removed": id}, func() string {
					return fmt.Sprintf("review %d removed", id)
				})
			})
		},
	}
	cmd.Flags().Int64Var(&user, "user", 0, "user id")
	return cmd
}

func formatReview(r types.Review) string {
	return fmt.Sprintf("%d	user %d	%g/10	%s", r.ID, r.UserID, r.Score, r.Title)
}

func formatStats(s types.ReviewStats) string {
	avg := func(p *float64) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *p)
	}
	return fmt.Sprintf("verified:   %s (%d)\nunverified: %s (%d)",
		avg(s.Verified), s.VerifiedCount, avg(s.Unverified), s.UnverifiedCount)
}

func formatReviews(p crate.ReviewPage) string {
	if len(p.Reviews) == 0 {
		return "no reviews"
	}
	var b strings.Builder
	for _, r := range p.Reviews {
		b.WriteString(formatReview(r))
		b.WriteByte('\n')
	}
	if p.Next != 0 {
		fmt.Fprintf(&b, "next: --cursor %d", p.Next)
	}
	return strings.TrimRight(b.String(), "\n")
}
