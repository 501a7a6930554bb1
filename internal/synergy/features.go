// Package synergy builds and queries a feature-indexed synergy graph over a
// card corpus.
package synergy

import (
	"strings"

	"github.com/ramonehamilton/decklab/internal/cards"
)

// Fixed lexicons tested against a card's type line and rules text. Matching
// is case-insensitive substring matching; these values are already
// lowercase.
var (
	tribalLexicon = []string{"elf", "goblin", "merfolk", "zombie", "vampire", "dragon", "angel", "demon"}

	mechanicLexicon = []string{"sacrifice", "draw", "discard", "counter", "destroy", "exile", "token", "etb"}

	themeLexicon = []string{"graveyard", "lifegain", "+1/+1 counter", "ramp", "mill"}

	cardTypeLexicon = []string{"artifact", "creature", "enchantment", "instant", "sorcery", "planeswalker"}
)

// FeatureSet holds the synergy-relevant tags derived from one card. It is a
// deterministic function of the card's text fields: identical input always
// yields an identical FeatureSet.
type FeatureSet struct {
	Tribes    []string `json:"tribes,omitempty"`
	Mechanics []string `json:"mechanics,omitempty"`
	Themes    []string `json:"themes,omitempty"`
	CardTypes []string `json:"card_types,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	CMC       float64  `json:"cmc"`
}

// ExtractFeatures derives a FeatureSet from a card. Absent fields default
// to empty values; there are no error conditions.
func ExtractFeatures(card *cards.Card) *FeatureSet {
	typeLine := strings.ToLower(card.TypeLine)
	oracleText := strings.ToLower(card.OracleText)

	fs := &FeatureSet{
		Colors: card.Colors,
		CMC:    card.CMC,
	}

	for _, tribe := range tribalLexicon {
		if strings.Contains(typeLine, tribe) || strings.Contains(oracleText, tribe) {
			fs.Tribes = append(fs.Tribes, tribe)
		}
	}

	for _, mechanic := range mechanicLexicon {
		if strings.Contains(oracleText, mechanic) {
			fs.Mechanics = append(fs.Mechanics, mechanic)
		}
	}

	for _, theme := range themeLexicon {
		if strings.Contains(oracleText, theme) {
			fs.Themes = append(fs.Themes, theme)
		}
	}

	for _, cardType := range cardTypeLexicon {
		if strings.Contains(typeLine, cardType) {
			fs.CardTypes = append(fs.CardTypes, cardType)
		}
	}

	for _, kw := range card.Keywords {
		fs.Keywords = append(fs.Keywords, strings.ToLower(kw))
	}

	return fs
}

// intersects reports whether two tag slices share at least one value.
func intersects(a, b []string) bool {
	return overlapCount(a, b) > 0
}

// overlapCount counts the distinct values present in both slices.
func overlapCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}

	count := 0
	seen := make(map[string]bool, len(b))
	for _, v := range b {
		if set[v] && !seen[v] {
			count++
			seen[v] = true
		}
	}
	return count
}
