package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <rarity> <market-price>",
		Short: "Quote a retail price for a rarity and market price",
		Long: "Applies the rarity markup formula server-side without a " +
			"marketplace lookup. Unknown rarities price at market.",
		Example: `  cpe quote "Secret Rare" 80.00
  cpe quote Rare 10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid market price %q", args[1])
			}

			c := newClient()
			res, err := c.Quote(cmd.Context(), args[0], price)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(res)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			tw.writef("Market:\t$%.2f\n", res.MarketPrice)
			tw.writef("Formula:\t%s\n", res.Formula)
			tw.writef("Calculated:\t$%.2f\n", res.CalculatedPrice)
			if res.MinimumApplied {
				tw.writef("Minimum:\tapplied\n")
			}
			tw.writef("Retail:\t%.2f\n", res.DisplayPrice)
			return tw.finish()
		},
	}
}
