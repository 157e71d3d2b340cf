// Package cli implements the addonjs command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	addon "github.com/winsoft666/node-addon-sample"
	"github.com/winsoft666/node-addon-sample/application/config"
	addonlog "github.com/winsoft666/node-addon-sample/log"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "addonjs",
		Short: "Run scripts and WASM guests against the sample addon",
		Long: `addonjs hosts the sample native addon (Add, GetFileList, GetPower10,
GetPower20, GetPower30) for JavaScript scripts and WebAssembly guests.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if f == opts.Format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewCallCommand(opts))

	return cmd
}

// loadModule builds the addon from the config flag, logging to logOut.
func loadModule(opts *RootOptions, logOut io.Writer) (*addon.Module, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
	}

	level, _ := addonlog.ParseLevel(cfg.LogLevel)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := addonlog.New(logOut, addonlog.WithLevel(level))

	mod, err := addon.New(addon.WithConfig(cfg), addon.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create addon", err)
	}
	return mod, nil
}
