package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the addon's operations",
		Long: `Print the addon's operations with their arity and delivery mode.
With --format json the wire request and response schemas are included.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := loadModule(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			desc, err := mod.Describe()
			if err != nil {
				return WrapExitError(ExitFailure, "failed to describe addon", err)
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(desc)
			}

			fmt.Fprintf(out, "%s %s\n\n", desc.Name, desc.Version)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "OPERATION\tARITY\tPARAMS\tMODE\tRETURNS")
			for _, op := range desc.Operations {
				params := make([]string, len(op.Params))
				for i, p := range op.Params {
					params[i] = string(p)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", op.Name, op.Arity, strings.Join(params, ","), op.Mode, op.Returns)
			}
			return tw.Flush()
		},
	}
}
