package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardstock/pricing-engine/pkg/pricing"
)

func priceCommand() *cobra.Command {
	var (
		rarity string
		market float64
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Evaluate the retail price formula locally",
		Long: "Applies the rarity markup formula without a running server " +
			"or marketplace lookup. Unknown rarities price at market.",
		Example: `  pricing-engine price --rarity "Ultra Rare" --market 150
  pricing-engine price --rarity "Code Card" --market 2.50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc := pricing.New().Calculate(rarity, market)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Market:\t$%.2f\n", calc.MarketPrice)
			fmt.Fprintf(tw, "Formula:\t%s\n", calc.Formula)
			fmt.Fprintf(tw, "Calculated:\t$%.2f\n", calc.CalculatedPrice)
			if calc.MinimumApplied {
				fmt.Fprintf(tw, "Minimum:\tapplied\n")
			}
			fmt.Fprintf(tw, "Retail:\t$%.2f\n", calc.FinalPrice)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&rarity, "rarity", "", "marketplace rarity text")
	cmd.Flags().Float64Var(&market, "market", 0, "market price in USD")
	cobra.CheckErr(cmd.MarkFlagRequired("rarity"))
	cobra.CheckErr(cmd.MarkFlagRequired("market"))

	return cmd
}
