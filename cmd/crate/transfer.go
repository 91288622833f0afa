package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crate/internal/cli"
	"github.com/mesh-intelligence/crate/pkg/crate"
)

func newExportCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every item to a JSONL file",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				n, err := c.Export(ctx, args[0])
				if err != nil {
					return err
				}
				return a.Emit(map[string]any{"path": args[0], "lines": n}, func() string {
					return fmt.Sprintf("exported %d lines to %s", n, args[0])
				})
			})
		},
	}
}

func newImportCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Resolve every item of a JSONL export",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				rep, err := c.Import(ctx, args[0])
				if err != nil {
					return err
				}
				return a.Emit(rep, func() string {
					return fmt.Sprintf("resolved %d, skipped %d of %d lines", rep.Resolved, rep.Skipped, rep.Lines)
				})
			})
		},
	}
}
