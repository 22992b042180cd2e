// Package rarity parses free-text search queries for embedded rarity
// keywords and classifies marketplace rarity strings.
//
// The marketplace does not guarantee a fixed rarity vocabulary, so this
// package treats rarity as untrusted text: matching is substring-based
// and anything unrecognized passes through rather than being rejected.
package rarity

import (
	"strings"

	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// keywords lists the recognized rarity phrases in priority order,
// longest phrase first, so "secret rare" matches before "rare".
var keywords = []string{
	"special illustration rare",
	"shiny ultra rare",
	"illustration rare",
	"black white rare",
	"mega hyper rare",
	"shiny holo rare",
	"classic collection",
	"radiant rare",
	"amazing rare",
	"secret rare",
	"double rare",
	"prism rare",
	"hyper rare",
	"shiny rare",
	"ultra rare",
	"rare break",
	"holo rare",
	"ace spec",
	"uncommon",
	"radiant",
	"promo",
	"holo",
	"rare",
	"common",
}

// ParseQuery extracts at most one rarity keyword from a search query.
//
// The query is lower-cased and scanned against the keyword table in
// priority order. On the first match, exactly that substring occurrence
// is removed, repeated whitespace is collapsed, and the remainder is
// returned as CleanQuery with the keyword as RarityFilter. If nothing
// matches, the original query comes back unchanged with no filter.
//
// Known limitation: only the first keyword is extracted, so queries
// combining two rarity terms ("secret rare holo charizard") keep the
// second term in CleanQuery.
func ParseQuery(query string) domain.RarityQuery {
	lowered := strings.ToLower(query)

	for _, kw := range keywords {
		idx := strings.Index(lowered, kw)
		if idx < 0 {
			continue
		}

		cleaned := lowered[:idx] + lowered[idx+len(kw):]
		cleaned = strings.Join(strings.Fields(cleaned), " ")

		return domain.RarityQuery{
			CleanQuery:   cleaned,
			RarityFilter: kw,
		}
	}

	return domain.RarityQuery{CleanQuery: query}
}
