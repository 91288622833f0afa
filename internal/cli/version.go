package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crate/pkg/crate"
)

const modulePath = "github.com/mesh-intelligence/crate"

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the crate version",
		Args:  ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Emit(map[string]string{"version": crate.Version, "module": modulePath}, func() string {
				return fmt.Sprintf("crate v%s\nmodule: %s", crate.Version, modulePath)
			})
		},
	}
}
