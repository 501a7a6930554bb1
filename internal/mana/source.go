package mana

import (
	"regexp"
	"strings"

	"github.com/ramonehamilton/decklab/internal/cards"
)

// productionRE matches "Add" clauses followed by two or more consecutive
// mana symbols, e.g. "Add {C}{C}" or "Add {G}{G}{G}". Single-symbol clauses
// are deliberately not matched; those cards are covered by produced_mana.
var productionRE = regexp.MustCompile(`Add\s*((?:\{[0-9A-Z/]+\}){2,})`)

// Production is one atomic thing a permanent can produce when activated: a
// mapping from color to quantity.
type Production map[string]int

// Amount returns the total mana points this production yields.
func (p Production) Amount() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Source wraps one permanent's ability to produce mana.
type Source struct {
	Card        *cards.Card
	Tapped      bool
	EnteredTurn int
	CurrentTurn int
	Options     []Production
}

// NewSource creates a mana source for a permanent that entered play on
// enteredTurn, evaluated on currentTurn.
func NewSource(card *cards.Card, enteredTurn, currentTurn int) *Source {
	return &Source{
		Card:        card,
		EnteredTurn: enteredTurn,
		CurrentTurn: currentTurn,
		Options:     ParseProduction(card),
	}
}

// ParseProduction derives the production options a card offers.
//
// Explicit multi-symbol "Add" clauses in the rules text each become one
// option. If none exist but the card declares producible colors, each color
// becomes a one-point "choose one" option. Basic lands with neither signal
// fall back to their land type's color.
func ParseProduction(card *cards.Card) []Production {
	var options []Production

	for _, match := range productionRE.FindAllStringSubmatch(card.OracleText, -1) {
		production := Production{}
		for _, sym := range manaSymbolRE.FindAllStringSubmatch(match[1], -1) {
			if isColor(sym[1]) {
				production[sym[1]]++
			}
		}
		if len(production) > 0 {
			options = append(options, production)
		}
	}

	if len(options) == 0 && len(card.ProducedMana) > 0 {
		for _, color := range card.ProducedMana {
			if isColor(color) {
				options = append(options, Production{color: 1})
			}
		}
	}

	if len(options) == 0 && card.IsLand() {
		basics := []struct {
			landType string
			color    string
		}{
			{"Forest", "G"},
			{"Island", "U"},
			{"Mountain", "R"},
			{"Swamp", "B"},
			{"Plains", "W"},
		}
		for _, b := range basics {
			if strings.Contains(card.TypeLine, b.landType) {
				options = append(options, Production{b.color: 1})
				break
			}
		}
	}

	return options
}

// Usable reports whether the source can be activated right now: it must be
// untapped, and a creature without haste cannot tap the turn it entered
// play (summoning sickness).
func (s *Source) Usable() bool {
	if s.Tapped {
		return false
	}

	if s.Card.IsCreature() && !s.Card.HasKeyword("haste") {
		if s.EnteredTurn == s.CurrentTurn {
			return false
		}
	}

	return true
}

// Untap readies the source and refreshes its view of the current turn.
func (s *Source) Untap(currentTurn int) {
	s.Tapped = false
	s.CurrentTurn = currentTurn
}

// MaxAmount returns the largest amount any single option can produce, or 0
// if the permanent produces no mana.
func (s *Source) MaxAmount() int {
	best := 0
	for _, opt := range s.Options {
		if amt := opt.Amount(); amt > best {
			best = amt
		}
	}
	return best
}
