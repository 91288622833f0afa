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

func newListCmd(a *cli.App) *cobra.Command {
	var user int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage custom lists",
	}
	cmd.PersistentFlags().Int64Var(&user, "user", 0, "owning user id")

	var kind string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a list, optionally restricted to one item type",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := cli.OptionalKind(kind)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				l, err := c.Lists.Create(ctx, user, args[0], k)
				if err != nil {
					return err
				}
				return a.Emit(l, func() string { return l.ID })
			})
		},
	}
	create.Flags().StringVar(&kind, "type", "", "restrict the list to one item type")

	var f cli.ItemFlags
	add := &cobra.Command{
		Use:               "add <list-id> <type> <name>",
		Short:             "Add an item to a list, creating the item when unknown",
		Args:              cli.ExactArgs(3),
		ValidArgsFunction: cli.CompleteKindAt(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, name, err := cli.ItemArgs(args, 1)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				id, err := c.Lists.AddByName(ctx, user, args[0], k, name, f.Context())
				if err != nil {
					return err
				}
				return a.Emit(cli.ItemResult{ItemID: id, Kind: k, Name: name}, func() string {
					return fmt.Sprintf("item %d added", id)
				})
			})
		},
	}
	f.Bind(add)

	remove := &cobra.Command{
		Use:   "remove <list-id> <item-id>",
		Short: "Remove an item from a list",
		Args:  cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("item", args[1])
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				if err := c.Lists.RemoveItem(ctx, user, args[0], id); err != nil {
					return err
				}
				return a.Emit(map[string]int64{"removed": id}, func() string {
					return fmt.Sprintf("item %d removed", id)
				})
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show one of the user's lists and its items",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				l, err := c.Lists.Get(ctx, user, args[0])
				if err != nil {
					return err
				}
				return a.Emit(l, func() string { return formatList(l) })
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename <list-id> <name>",
		Short: "Rename a list",
		Args:  cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				l, err := c.Lists.Rename(ctx, user, args[0], args[1])
				if err != nil {
					return err
				}
				return a.Emit(l, func() string { return fmt.Sprintf("list %s renamed to %s", l.ID, l.Name) })
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a list and its entries",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				if err := c.Lists.Delete(ctx, user, args[0]); err != nil {
					return err
				}
				return a.Emit(map[string]string{"deleted": args[0]}, func() string {
					return "list " + args[0] + " deleted"
				})
			})
		},
	}

	var mineKind string
	mine := &cobra.Command{
		Use:   "mine",
		Short: "Show the user's lists",
		Args:  cli.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := cli.OptionalKind(mineKind)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				lists, err := c.Lists.ByUser(ctx, user, k)
				if err != nil {
					return err
				}
				return a.Emit(lists, func() string {
					if len(lists) == 0 {
						return "no lists"
					}
					parts := make([]string, len(lists))
					for i, l := range lists {
						parts[i] = formatList(l)
					}
					return strings.Join(parts, "\n\n")
				})
			})
		},
	}
	mine.Flags().StringVar(&mineKind, "type", "", "only lists of this item type")

	cmd.AddCommand(create, add, remove, show, rename, del, mine)
	return cmd
}

func formatList(l types.List) string {
	kind := "any"
	if l.Kind != nil {
		kind = string(*l.Kind)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t(%s, %d items)", l.ID, l.Name, kind, len(l.ItemIDs))
	for _, id := range l.ItemIDs {
		fmt.Fprintf(&b, "\n  %d", id)
	}
	return b.String()
}
