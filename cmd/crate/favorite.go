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

func newFavoriteCmd(a *cli.App) *cobra.Command {
	var (
		user int64
		f    cli.ItemFlags
	)
	cmd := &cobra.Command{
		Use:   "favorite",
		Short: "Manage a user's favorite items",
	}
	cmd.PersistentFlags().Int64Var(&user, "user", 0, "user id")

	add := &cobra.Command{
		Use:   "add <type> <name>",
		Short: "Mark an item as favorite, creating it when unknown",
		Args:  cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name, err := cli.ItemArgs(args, 0)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				id, err := c.Favorites.Add(ctx, user, kind, name, f.Context())
				if err != nil {
					return err
				}
				return a.Emit(cli.ItemResult{ItemID: id, Kind: kind, Name: name}, func() string {
					return fmt.Sprintf("favorite %d added", id)
				})
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <type> <name>",
		Short: "Unmark a favorite",
		Args:  cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name, err := cli.ItemArgs(args, 0)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				removed, err := c.Favorites.Remove(ctx, user, kind, name, f.Context())
				if err != nil {
					return err
				}
				return a.Emit(map[string]bool{"removed": removed}, func() string {
					if removed {
						return "favorite removed"
					}
					return "not a favorite"
				})
			})
		},
	}

	status := &cobra.Command{
		Use:   "status <type> <name>",
		Short: "Report whether an item is a favorite",
		Args:  cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name, err := cli.ItemArgs(args, 0)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				fav, err := c.Favorites.IsFavorite(ctx, user, kind, name, f.Context())
				if err != nil {
					return err
				}
				return a.Emit(map[string]bool{"favorite": fav}, func() string {
					return fmt.Sprint(fav)
				})
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List a user's favorites, newest first",
		Args:  cli.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				favs, err := c.Favorites.ListByUser(ctx, user)
				if err != nil {
					return err
				}
				return a.Emit(favs, func() string { return formatFavorites(favs) })
			})
		},
	}

	for _, sub := range []*cobra.Command{add, remove, status} {
		f.Bind(sub)
		sub.ValidArgsFunction = cli.CompleteKindAt(0)
	}
	cmd.AddCommand(add, remove, status, list)
	return cmd
}

func formatFavorites(favs []types.Favorite) string {
	if len(favs) == 0 {
		return "no favorites"
	}
	var b strings.Builder
	for i, f := range favs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\t%s\t%s", f.ItemID, f.Kind, f.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
