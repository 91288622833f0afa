package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crate/pkg/crate"
)

func (a *App) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize crate storage",
		Long:  "Create the configuration and data directories and apply the schema.",
		Args:  ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.WithCatalog(cmd, func(ctx context.Context, c *crate.Catalog) error {
				if err := c.Ping(ctx); err != nil {
					return err
				}
				return a.Emit(map[string]string{"backend": c.Backend(), "status": "ok"}, func() string {
					return "crate initialized (" + c.Backend() + ")"
				})
			})
		},
	}
}
