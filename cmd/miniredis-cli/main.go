// Package main provides the entry point for miniredis-cli.
//
// miniredis-cli sends commands to a miniredis server, either one request
// given on the command line or interactively through a REPL.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/miniredis-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
