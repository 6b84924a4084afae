// Package main provides the entry point for the poolstrap CLI.
package main

import (
	"os"

	"github.com/poolkit/poolstrap/cmd/poolstrap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
