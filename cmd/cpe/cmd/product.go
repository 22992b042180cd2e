package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

func productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show priced detail for one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return cmd.Help()
			}

			c := newClient()
			p, err := c.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(p)
			}
			return printProductDetail(p)
		},
	}
}

func featuredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "List featured cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			cards, err := c.Featured(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(cards)
			}
			return printProductsTable(cards)
		},
	}
}
