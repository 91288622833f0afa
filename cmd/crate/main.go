// Command crate resolves music entities to canonical item ids and manages
// the favorites, reviews, lists and article tags attached to them.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/mesh-intelligence/crate/internal/cli"
)

// commands are registered on the root next to init and version.
var commands = []cli.Command{
	newResolveCmd,
	newFindCmd,
	newDescribeCmd,
	newFavoriteCmd,
	newReviewCmd,
	newListCmd,
	newTagCmd,
	newExportCmd,
	newImportCmd,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return cli.Run(ctx, args, stdout, stderr, commands...)
}
