package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winsoft666/node-addon-sample/host"
)

// CallOptions holds flags for the call command.
type CallOptions struct {
	*RootOptions
	Args string
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "call <guest.wasm> <export>",
		Short: "Call an export of a WASM guest linked against the addon",
		Long: `Load a WASM guest importing the addon from the "addon_host" module and
call one of its exports with a JSON request {"args": [...]}. The export must
take and return a packed pointer/length i64.

Example:
  addonjs call guest.wasm call_add --args '[100, 200]'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return callGuest(cmd.Context(), opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "[]", "call arguments as a JSON array")

	return cmd
}

func callGuest(ctx context.Context, opts *CallOptions, path, export string, cmd *cobra.Command) error {
	var args []any
	if err := json.Unmarshal([]byte(opts.Args), &args); err != nil {
		return WrapExitError(ExitCommandError, "invalid --args JSON", err)
	}

	mod, err := loadModule(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	exec, err := host.NewExecutor(ctx, host.WithAddon(mod), host.WithLogger(mod.Logger()))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to start WASM runtime", err)
	}
	defer exec.Close(ctx)

	guest, err := exec.LoadGuestFile(ctx, path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load guest", err)
	}

	resp, err := guest.CallOperation(ctx, export, args...)
	if err != nil {
		return WrapExitError(ExitFailure, "guest call failed", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return json.NewEncoder(out).Encode(resp)
	}
	if resp.IsError() {
		fmt.Fprintln(out, resp.Error.Error())
		return WrapExitError(ExitFailure, "operation failed", resp.Error)
	}
	data, err := json.Marshal(resp.Value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
