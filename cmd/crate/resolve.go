package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crate/internal/cli"
	"github.com/mesh-intelligence/crate/pkg/crate"
	"github.com/mesh-intelligence/crate/pkg/types"
)

func newResolveCmd(a *cli.App) *cobra.Command {
	var f cli.ItemFlags
	cmd := &cobra.Command{
		Use:   "resolve <type> <name>",
		Short: "Find or create the item for a name",
		Long: `Resolve returns the canonical item id for a name, creating the item and
any missing parent artist, album and links when it does not exist yet.

Types: artist, album, track, venue, genre. Albums and tracks need --artist.`,
		Args: cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name, err := cli.ItemArgs(args, 0)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				id, err := c.ResolveOrCreate(ctx, kind, name, f.Context())
				if err != nil {
					return err
				}
				return a.Emit(cli.ItemResult{ItemID: id, Kind: kind, Name: name}, func() string {
					return fmt.Sprint(id)
				})
			})
		},
	}
	cmd.ValidArgsFunction = cli.CompleteKindAt(0)
	f.Bind(cmd)
	return cmd
}

func newFindCmd(a *cli.App) *cobra.Command {
	var f cli.ItemFlags
	cmd := &cobra.Command{
		Use:   "find <type> <name>",
		Short: "Look up the item for a name without creating it",
		Args:  cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name, err := cli.ItemArgs(args, 0)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				id, found, err := c.FindExisting(ctx, kind, name, f.Context())
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%s %q: %w", kind, name, types.ErrNotFound)
				}
				return a.Emit(cli.ItemResult{ItemID: id, Kind: kind, Name: name}, func() string {
					return fmt.Sprint(id)
				})
			})
		},
	}
	cmd.ValidArgsFunction = cli.CompleteKindAt(0)
	f.Bind(cmd)
	return cmd
}

func newDescribeCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <item-id>",
		Short: "Show the name and context of an item",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("item", args[0])
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				d, err := c.Describe(ctx, id)
				if err != nil {
					return err
				}
				return a.Emit(d, func() string { return describe(d) })
			})
		},
	}
}

// describe renders a descriptor on one line.
func describe(d types.Descriptor) string {
	s := fmt.Sprintf("%d\t%s\t%s", d.ItemID, d.Kind, d.Name)
	if d.ArtistName != "" {
		s += "\tby " + d.ArtistName
	}
	if d.AlbumName != "" {
		s += "\ton " + d.AlbumName
	}
	if d.Location != "" {
		s += "\tin " + d.Location
	}
	return s
}
