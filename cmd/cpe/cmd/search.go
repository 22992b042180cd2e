package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/cardstock/pricing-engine/internal/api/client"
)

func searchCmd() *cobra.Command {
	var (
		setID    string
		pageSize int
		offset   int
		sort     string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a priced card search",
		Long: "Sends a search to the API server and displays priced, " +
			"inventory-reconciled results. Rarity keywords embedded in the " +
			"query filter the results.",
		Example: `  cpe search "pikachu secret rare"
  cpe search charizard --set sv08 --page-size 48`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			res, err := c.Search(cmd.Context(), apiclient.SearchRequest{
				Query:    args[0],
				SetID:    setID,
				PageSize: pageSize,
				Offset:   offset,
				Sort:     sort,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(res)
			}

			total := fmt.Sprintf("%d", res.Total)
			if res.Estimated {
				total = "~" + total
			}
			fmt.Printf("%s results for %q", total, res.Query.CleanQuery)
			if res.Query.RarityFilter != "" {
				fmt.Printf(" (rarity: %s)", res.Query.RarityFilter)
			}
			fmt.Println()

			return printProductsTable(res.Products)
		},
	}

	cmd.Flags().StringVar(&setID, "set", "", "restrict results to one set")
	cmd.Flags().IntVar(&pageSize, "page-size", 24, "results per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "raw result offset")
	cmd.Flags().StringVar(&sort, "sort", "", "sort order (relevance, price-asc, price-desc)")

	return cmd
}
