// Package main provides the CLI for the leapreq requirements tracer.
package main

import (
	"os"

	"github.com/leapstack-labs/leapreq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
