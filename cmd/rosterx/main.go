// Package main is the entry point for the rosterx CLI.
package main

import (
	"os"

	"github.com/jmylchreest/rosterx/cmd/rosterx/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
