// Command crit renders, checks and executes YAML query documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/criteria/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
