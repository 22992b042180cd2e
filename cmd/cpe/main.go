// Package main is the entry point for the cpe CLI.
package main

import "github.com/cardstock/pricing-engine/cmd/cpe/cmd"

func main() {
	cmd.Execute()
}
