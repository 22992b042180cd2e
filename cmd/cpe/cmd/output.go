package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cardstock/pricing-engine/internal/engine"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProductsTable(products []engine.PricedProduct) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tSET\tRARITY\tPRINTING\tMARKET\tRETAIL\tSTOCK\n")
	for i := range products {
		p := &products[i]
		stock := "-"
		if p.InStock {
			stock = fmt.Sprintf("%d", p.Stock)
		}
		tw.writef("%d\t%s\t%s\t%s\t%s\t$%.2f\t%.2f %s\t%s\n",
			p.ProductID,
			truncate(p.ProductName, 40),
			truncate(p.SetName, 24),
			p.Rarity,
			p.Printing,
			p.MarketPrice,
			p.DisplayPrice,
			p.Currency,
			stock,
		)
	}
	return tw.finish()
}

func printProductDetail(p *engine.PricedProduct) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", p.ProductID)
	tw.writef("Name:\t%s\n", p.ProductName)
	tw.writef("Set:\t%s (%s)\n", p.SetName, p.SetID)
	tw.writef("Number:\t%s\n", p.CardNumber)
	tw.writef("Rarity:\t%s\n", p.Rarity)
	tw.writef("Market:\t$%.2f\n", p.MarketPrice)
	tw.writef("Retail:\t%.2f %s\n", p.DisplayPrice, p.Currency)
	tw.writef("Formula:\t%s\n", p.Retail.Formula)
	tw.writef("Listings:\t%d\n", p.TotalListings)
	tw.writef("In Stock:\t%v (%d)\n", p.InStock, p.Stock)
	for i := range p.Variants {
		v := &p.Variants[i]
		retail := ""
		if calc, ok := p.VariantRetail[v.Printing]; ok {
			retail = fmt.Sprintf("\tretail %.2f", calc.FinalPrice)
		}
		tw.writef("Variant:\t%s\tmarket $%.2f\tstock %d%s\n",
			v.Printing, v.MarketPrice, v.StockQuantity, retail)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
