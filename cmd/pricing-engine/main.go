// Package main is the entry point for the pricing-engine server.
package main

import (
	"os"

	"github.com/cardstock/pricing-engine/cmd/pricing-engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
