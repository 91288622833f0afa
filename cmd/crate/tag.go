package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crate/internal/cli"
	"github.com/mesh-intelligence/crate/pkg/crate"
)

func newTagCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag articles with items",
	}

	var f cli.ItemFlags
	add := &cobra.Command{
		Use:   "add <article-id> <type> <name>",
		Short: "Tag an article, creating the item when unknown",
		Args:  cli.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := cli.ParseID("article", args[0])
			if err != nil {
				return err
			}
			kind, name, err := cli.ItemArgs(args, 1)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				id, err := c.Tags.Tag(ctx, article, kind, name, f.Context())
				if err != nil {
					return err
				}
				return a.Emit(cli.ItemResult{ItemID: id, Kind: kind, Name: name}, func() string {
					return fmt.Sprintf("article %d tagged with item %d", article, id)
				})
			})
		},
	}
	add.ValidArgsFunction = cli.CompleteKindAt(1)
	f.Bind(add)

	var rf cli.ItemFlags
	remove := &cobra.Command{
		Use:   "remove <article-id> <type> <name>",
		Short: "Remove a tag",
		Args:  cli.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := cli.ParseID("article", args[0])
			if err != nil {
				return err
			}
			kind, name, err := cli.ItemArgs(args, 1)
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				removed, err := c.Tags.Untag(ctx, article, kind, name, rf.Context())
				if err != nil {
					return err
				}
				return a.Emit(map[string]bool{"removed": removed}, func() string {
					if removed {
						return "tag removed"
					}
					return "not tagged"
				})
			})
		},
	}
	remove.ValidArgsFunction = cli.CompleteKindAt(1)
	rf.Bind(remove)

	show := &cobra.Command{
		Use:   "show <article-id>",
		Short: "List the items an article is tagged with",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := cli.ParseID("article", args[0])
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				tags, err := c.Tags.TagsOf(ctx, article)
				if err != nil {
					return err
				}
				return a.Emit(tags, func() string {
					if len(tags) == 0 {
						return "no tags"
					}
					lines := make([]string, len(tags))
					for i, t := range tags {
						lines[i] = fmt.Sprintf("%d\t%s", t.ItemID, t.Kind)
					}
					return strings.Join(lines, "\n")
				})
			})
		},
	}

	articles := &cobra.Command{
		Use:   "articles <item-id>",
		Short: "List the articles tagged with an item",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("item", args[0])
			if err != nil {
				return err
			}
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				ids, err := c.Tags.ArticlesFor(ctx, id)
				if err != nil {
					return err
				}
				return a.Emit(ids, func() string {
					if len(ids) == 0 {
						return "no articles"
					}
					return strings.Trim(fmt.Sprint(ids), "[]")
				})
			})
		},
	}

	cmd.AddCommand(add, remove, show, articles)
	return cmd
}
