// Package cli implements the crate command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/crate/pkg/crate"
	"github.com/mesh-intelligence/crate/pkg/types"
)

// Exit codes.
const (
	ExitSuccess   = 0
	ExitUserError = 1
	ExitSysError  = 2
)

// userError marks a failure caused by the invocation rather than the system.
type userError struct{ err error }

func (e userError) Error() string { return e.err.Error() }
func (e userError) Unwrap() error { return e.err }

// Usagef returns an error that exits with ExitUserError.
func Usagef(format string, args ...any) error {
	return userError{fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ue userError
	if errors.As(err, &ue) || types.IsInvalidRequest(err) {
		return ExitUserError
	}
	return ExitSysError
}

// App carries the global flags and the state shared by subcommands.
type App struct {
	configDir string
	dataDir   string
	jsonMode  bool

	out    io.Writer
	errOut io.Writer

	cfg *viper.Viper
	log zerolog.Logger
}

// Command builds a subcommand bound to the app.
type Command func(a *App) *cobra.Command

// NewRootCmd creates the top-level "crate" command with the global flags,
// the init and version commands, and cmds.
func NewRootCmd(stdout, stderr io.Writer, cmds ...Command) *cobra.Command {
	a := &App{out: stdout, errOut: stderr, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "crate",
		Short:         "Canonical item identity for artists, albums, tracks, venues and genres",
		Version:       crate.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError{err}
	})

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory for the sqlite backend")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")

	root.AddCommand(a.newVersionCmd(), a.newInitCmd())
	for _, c := range cmds {
		root.AddCommand(c(a))
	}
	return root
}

// Run executes the CLI with args and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, cmds ...Command) int {
	root := NewRootCmd(stdout, stderr, cmds...)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "crate:", err)
	}
	return exitCode(err)
}

// WithCatalog opens the configured catalog for the duration of fn.
func (a *App) WithCatalog(cmd *cobra.Command, fn func(ctx context.Context, c *crate.Catalog) error) error {
	cfg, err := a.catalogConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := crate.Open(ctx, cfg, crate.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			a.log.Warn().Err(cerr).Msg("closing catalog")
		}
	}()
	return fn(ctx, c)
}
