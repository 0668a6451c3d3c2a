// Command replacelib loads a definition catalog and folds duplicate
// definitions into their canonical counterparts.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/replacelib/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
