// Package cmd implements the CLI commands for the pricing-engine server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pricing-engine",
	Short: "Card pricing and variant normalization engine",
	Long: "An API-first storefront backend that searches a card marketplace, " +
		"normalizes printing variants, applies rarity-based retail pricing, " +
		"and reconciles results against store inventory.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(versionCommand())
	rootCmd.AddCommand(priceCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
