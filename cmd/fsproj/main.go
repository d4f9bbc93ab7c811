// Command fsproj projects financial statements from CUE models.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/fsproj/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
