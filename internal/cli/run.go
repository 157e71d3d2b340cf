package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/winsoft666/node-addon-sample/jsbridge"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Global string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script.js>",
		Short: "Run a JavaScript file with the addon loaded",
		Long: `Run a JavaScript file with the addon loaded, the way node runs a script
using a native addon. The addon is available as a global and through
require("bindings")(...); require("assert") is provided as well.

The command returns once every callback and promise has settled. It fails on
an uncaught exception or an unhandled promise rejection.

Example:
  addonjs run test.js
  addonjs run --config addon.yaml --global sample test.js`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Global, "global", "sample", "global name of the addon exports (empty for none)")

	return cmd
}

func runScript(ctx context.Context, opts *RunOptions, path string, cmd *cobra.Command) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read script", err)
	}

	mod, err := loadModule(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bridge := jsbridge.New(mod, jsbridge.WithStdout(cmd.OutOrStdout()), jsbridge.WithStderr(cmd.ErrOrStderr()))
	if err := bridge.Install(opts.Global); err != nil {
		return WrapExitError(ExitCommandError, "failed to install addon", err)
	}

	mod.Logger().Debug("running script", "path", path)
	if err := bridge.RunScript(ctx, path, string(src)); err != nil {
		return WrapExitError(ExitFailure, "script failed", err)
	}
	return nil
}
