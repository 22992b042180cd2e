package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/cardstock/pricing-engine/internal/api/client"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload operator CSVs",
		Long: "Uploads a CSV that replaces the stored inventory, blacklist, " +
			"or featured-card list wholesale. Unparseable rows are skipped " +
			"and reported.",
	}

	for _, sub := range []struct {
		use, short string
		send       func(*apiclient.Client, context.Context, []byte) (*apiclient.UploadResult, error)
	}{
		{
			"inventory <file>", "Replace the inventory snapshot",
			(*apiclient.Client).UploadInventory,
		},
		{
			"blacklist <file>", "Replace the product blacklist",
			(*apiclient.Client).UploadBlacklist,
		},
		{
			"featured <file>", "Replace the featured-card list",
			(*apiclient.Client).UploadFeatured,
		},
	} {
		send := sub.send
		cmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := os.ReadFile(args[0]) //nolint:gosec // path from CLI arg
				if err != nil {
					return fmt.Errorf("reading %s: %w", args[0], err)
				}

				res, err := send(newClient(), cmd.Context(), data)
				if err != nil {
					return err
				}

				if jsonOutput() {
					return outputJSON(res)
				}
				fmt.Printf("Accepted %d rows, skipped %d.\n", res.Accepted, res.Skipped)
				return nil
			},
		})
	}

	return cmd
}
