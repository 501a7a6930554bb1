// Package cards defines the card record consumed by the analysis core and
// the boundary adapters that convert raw Scryfall data into it.
package cards

import "strings"

// Card represents the metadata about a Magic card that the analysis core
// consumes. The core treats cards as read-only: no component mutates a Card
// after it has been loaded.
type Card struct {
	// Name uniquely identifies a card within a corpus.
	Name     string `json:"name"`
	TypeLine string `json:"type_line"`

	// Rules text. Empty for vanilla creatures and most basic lands.
	OracleText string `json:"oracle_text,omitempty"`

	// Mana information
	ManaCost string  `json:"mana_cost,omitempty"`
	CMC      float64 `json:"cmc"` // Converted mana cost

	// Colors as single-letter codes (W, U, B, R, G)
	Colors []string `json:"colors,omitempty"`

	// Keywords declared by the card (e.g., "Flying", "Haste")
	Keywords []string `json:"keywords,omitempty"`

	// Power/Toughness (creatures only)
	Power     *string `json:"power,omitempty"`
	Toughness *string `json:"toughness,omitempty"`

	// ProducedMana lists the colors this card can produce if it is a mana
	// source (Scryfall's produced_mana field).
	ProducedMana []string `json:"produced_mana,omitempty"`
}

// IsLand reports whether the card's type line contains "Land".
func (c *Card) IsLand() bool {
	return strings.Contains(strings.ToLower(c.TypeLine), "land")
}

// IsCreature reports whether the card's type line contains "Creature".
func (c *Card) IsCreature() bool {
	return strings.Contains(strings.ToLower(c.TypeLine), "creature")
}

// HasKeyword reports whether the card declares the given keyword,
// case-insensitively.
func (c *Card) HasKeyword(keyword string) bool {
	for _, kw := range c.Keywords {
		if strings.EqualFold(kw, keyword) {
			return true
		}
	}
	return false
}

// ScryfallCard matches the subset of Scryfall's card object schema that the
// analysis core needs. It exists so the raw ingestion format stays at the
// boundary; everything past ToCard works with Card.
type ScryfallCard struct {
	Name         string   `json:"name"`
	TypeLine     string   `json:"type_line"`
	OracleText   string   `json:"oracle_text,omitempty"`
	ManaCost     string   `json:"mana_cost,omitempty"`
	CMC          float64  `json:"cmc"`
	Colors       []string `json:"colors,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	Power        string   `json:"power,omitempty"`
	Toughness    string   `json:"toughness,omitempty"`
	ProducedMana []string `json:"produced_mana,omitempty"`
}

// ToCard converts a ScryfallCard to the internal Card representation.
func (sc *ScryfallCard) ToCard() *Card {
	card := &Card{
		Name:         sc.Name,
		TypeLine:     sc.TypeLine,
		OracleText:   sc.OracleText,
		ManaCost:     sc.ManaCost,
		CMC:          sc.CMC,
		Colors:       sc.Colors,
		Keywords:     sc.Keywords,
		ProducedMana: sc.ProducedMana,
	}

	// Power/toughness are optional; absent is nil, not "".
	if sc.Power != "" {
		card.Power = &sc.Power
	}
	if sc.Toughness != "" {
		card.Toughness = &sc.Toughness
	}

	return card
}
