package main

import (
	"fmt"
	"os"

	"github.com/roach88/visage/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "visage: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
