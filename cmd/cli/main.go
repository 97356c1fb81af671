// Package main is the entry point for the transfer-cost CLI.
package main

import (
	"os"

	"transfer-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
