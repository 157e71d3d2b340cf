// Command addonjs runs JavaScript files and WASM guests against the addon.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/winsoft666/node-addon-sample/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
