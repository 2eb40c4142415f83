// Package main provides the AppShell command-line entry point.
package main

import (
	"os"

	"github.com/leapstack-labs/appshell/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
