// Package main is the entry point for the tablechat CLI.
package main

import (
	"os"

	"github.com/bitavt/tablechat/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
