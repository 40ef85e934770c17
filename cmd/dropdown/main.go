// Package main is the entry point for the dropdown CLI.
package main

import (
	"os"

	"github.com/runger/dropdown/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
