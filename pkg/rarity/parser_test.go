package rarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantClean  string
		wantFilter string
	}{
		{
			name:       "multi-word phrase wins over bare rare",
			query:      "Pikachu secret rare",
			wantClean:  "pikachu",
			wantFilter: "secret rare",
		},
		{
			name:       "bare rare",
			query:      "charizard rare",
			wantClean:  "charizard",
			wantFilter: "rare",
		},
		{
			name:       "keyword in the middle collapses whitespace",
			query:      "mewtwo ultra rare ex",
			wantClean:  "mewtwo ex",
			wantFilter: "ultra rare",
		},
		{
			name:       "mixed case keyword",
			query:      "Gengar ILLUSTRATION RARE",
			wantClean:  "gengar",
			wantFilter: "illustration rare",
		},
		{
			name:       "no keyword returns query unchanged",
			query:      "Pikachu VMAX",
			wantClean:  "Pikachu VMAX",
			wantFilter: "",
		},
		{
			name:       "holo alone",
			query:      "eevee holo",
			wantClean:  "eevee",
			wantFilter: "holo",
		},
		{
			name:       "only first keyword is extracted",
			query:      "secret rare holo snorlax",
			wantClean:  "holo snorlax",
			wantFilter: "secret rare",
		},
		{
			name:       "empty query",
			query:      "",
			wantClean:  "",
			wantFilter: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseQuery(tt.query)
			assert.Equal(t, tt.wantClean, got.CleanQuery)
			assert.Equal(t, tt.wantFilter, got.RarityFilter)
			assert.Equal(t, tt.wantFilter != "", got.HasFilter())
		})
	}
}

func TestParseQuery_LongestPhraseFirst(t *testing.T) {
	t.Parallel()

	// Every keyword must be found before any of its own substrings.
	for i, kw := range keywords {
		for _, later := range keywords[i+1:] {
			if len(later) > len(kw) {
				assert.NotContains(t, later, kw,
					"keyword %q is ordered before longer phrase %q that contains it", kw, later)
			}
		}
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rarity string
		filter string
		want   bool
	}{
		{"empty filter matches everything", "Ultra Rare", "", true},
		{"holo matches holo rare", "Holo Rare", "holo", true},
		{"holo matches shiny holo rare", "Shiny Holo Rare", "holo", true},
		{"rare matches ultra rare by design", "Ultra Rare", "rare", true},
		{"case insensitive", "SECRET RARE", "secret rare", true},
		{"no rarity never matches a filter", "", "rare", false},
		{"mismatch", "Common", "holo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Matches(tt.rarity, tt.filter))
		})
	}
}

func TestIsCodeCard(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCodeCard("Code Card"))
	assert.True(t, IsCodeCard("code card - online"))
	assert.False(t, IsCodeCard("Ultra Rare"))
	assert.False(t, IsCodeCard(""))
}
