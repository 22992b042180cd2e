// Package ingest parses operator CSV uploads: inventory snapshots,
// product blacklists, and featured-card lists. Parsing is tolerant by
// design; a single bad row is skipped with a warning instead of
// rejecting the whole upload, since these files come from hand-edited
// spreadsheets.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cardstock/pricing-engine/internal/metrics"
	"github.com/cardstock/pricing-engine/internal/store"
)

// Result summarizes one parsed upload.
type Result struct {
	Accepted int
	Skipped  int
}

// Parser parses CSV uploads.
type Parser struct {
	log *slog.Logger
}

// NewParser creates a Parser.
func NewParser(log *slog.Logger) *Parser {
	return &Parser{log: log}
}

// ParseInventory reads an inventory CSV with columns
// product_id,printing,quantity. A header row is detected and skipped.
// Rows with a non-numeric product ID or quantity, a missing printing,
// or a negative quantity are skipped.
func (p *Parser) ParseInventory(r io.Reader) ([]store.InventoryRow, Result, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, Result{}, err
	}

	var rows []store.InventoryRow
	var res Result
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) < 3 {
			res.Skipped++
			p.warnSkip("inventory", i, "expected 3 columns")
			continue
		}

		productID, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			res.Skipped++
			p.warnSkip("inventory", i, "non-numeric product id")
			continue
		}
		printing := strings.TrimSpace(rec[1])
		if printing == "" {
			res.Skipped++
			p.warnSkip("inventory", i, "missing printing")
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil || quantity < 0 {
			res.Skipped++
			p.warnSkip("inventory", i, "bad quantity")
			continue
		}

		rows = append(rows, store.InventoryRow{
			ProductID: productID,
			Printing:  printing,
			Quantity:  quantity,
		})
		res.Accepted++
	}

	observe("inventory", res)
	return rows, res, nil
}

// ParseBlacklist reads a blacklist CSV whose first column is a numeric
// product ID. Extra columns (names, notes) are ignored, so the same
// spreadsheet the operator annotates can be uploaded directly.
func (p *Parser) ParseBlacklist(r io.Reader) ([]string, Result, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, Result{}, err
	}

	var ids []string
	var res Result
	seen := make(map[string]struct{})
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) == 0 {
			res.Skipped++
			continue
		}

		id := strings.TrimSpace(rec[0])
		if _, err := strconv.Atoi(id); err != nil {
			res.Skipped++
			p.warnSkip("blacklist", i, "non-numeric product id")
			continue
		}
		if _, dup := seen[id]; dup {
			res.Skipped++
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
		res.Accepted++
	}

	observe("blacklist", res)
	return ids, res, nil
}

// ParseFeatured reads a featured-card CSV with columns
// product_id[,position]. Position defaults to the row's order in the
// file when the column is absent or empty.
func (p *Parser) ParseFeatured(r io.Reader) ([]store.FeaturedCard, Result, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, Result{}, err
	}

	var cards []store.FeaturedCard
	var res Result
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) == 0 {
			res.Skipped++
			continue
		}

		productID, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			res.Skipped++
			p.warnSkip("featured", i, "non-numeric product id")
			continue
		}

		position := len(cards) + 1
		if len(rec) > 1 && strings.TrimSpace(rec[1]) != "" {
			pos, err := strconv.Atoi(strings.TrimSpace(rec[1]))
			if err != nil {
				res.Skipped++
				p.warnSkip("featured", i, "bad position")
				continue
			}
			position = pos
		}

		cards = append(cards, store.FeaturedCard{ProductID: productID, Position: position})
		res.Accepted++
	}

	observe("featured", res)
	return cards, res, nil
}

func readAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return records, nil
}

// isHeader reports whether the first row looks like column names
// rather than data: a non-numeric first cell.
func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	return err != nil
}

func (p *Parser) warnSkip(kind string, row int, reason string) {
	p.log.Warn("skipping CSV row", "kind", kind, "row", row+1, "reason", reason)
}

func observe(kind string, res Result) {
	metrics.IngestRowsTotal.WithLabelValues(kind).Add(float64(res.Accepted))
	metrics.IngestSkippedRowsTotal.WithLabelValues(kind).Add(float64(res.Skipped))
}
