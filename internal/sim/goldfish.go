package sim

import (
	"github.com/ramonehamilton/decklab/internal/cards"
	"github.com/ramonehamilton/decklab/internal/mana"
)

// OpeningHandResult describes one simulated opening hand.
type OpeningHandResult struct {
	HandSize int
	Lands    int
	Spells   int
	Keep     bool
	Hand     []string
}

// TurnResult is the telemetry recorded for one simulated turn.
type TurnResult struct {
	Turn          int
	LandPlayed    bool
	LandsInPlay   int
	SpellsCast    int
	CardsInHand   int
	AvailableMana int // untapped mana capacity left after casting
}

// GameResult describes one simulated game.
type GameResult struct {
	NumTurns             int
	LandsPlayed          int
	SpellsCast           int
	CardsDrawn           int
	FinalHandSize        int
	FinalBattlefieldSize int
	Turns                []TurnResult
}

// Goldfish simulates playing a deck with no opponent and no interaction,
// casting greedily off the mana solver each turn.
type Goldfish struct {
	deck *Deck
}

// NewGoldfish creates a goldfish simulator over a deck.
func NewGoldfish(deck *Deck) *Goldfish {
	return &Goldfish{deck: deck}
}

// SimulateOpeningHand resets, shuffles, and draws an opening hand. The
// mulligan heuristic keeps any hand with two to five lands.
func (g *Goldfish) SimulateOpeningHand(handSize int) OpeningHandResult {
	g.deck.Reset()
	g.deck.Shuffle()
	g.deck.Draw(handSize)

	lands := g.deck.LandsInHand()

	names := make([]string, 0, len(g.deck.Hand))
	for _, card := range g.deck.Hand {
		names = append(names, card.Name)
	}

	return OpeningHandResult{
		HandSize: handSize,
		Lands:    lands,
		Spells:   g.deck.SpellsInHand(),
		Keep:     lands >= 2 && lands <= 5,
		Hand:     names,
	}
}

// SimulateTurns plays out the first numTurns turns on the play: untap,
// draw (skipped on turn one), one land drop, then greedily cast the most
// expensive payable spell until nothing in hand is payable. Cast permanents
// join the battlefield as potential mana sources.
func (g *Goldfish) SimulateTurns(numTurns, startingHandSize int) GameResult {
	g.deck.Reset()
	g.deck.Shuffle()
	g.deck.Draw(startingHandSize)

	result := GameResult{
		NumTurns:   numTurns,
		CardsDrawn: startingHandSize,
	}

	var sources []*mana.Source

	for turn := 1; turn <= numTurns; turn++ {
		for _, src := range sources {
			src.Untap(turn)
		}

		if turn > 1 {
			if drawn := g.deck.Draw(1); len(drawn) > 0 {
				result.CardsDrawn++
			}
		}

		landPlayed := false
		for _, card := range g.deck.Hand {
			if card.IsLand() {
				g.moveToBattlefield(card)
				sources = append(sources, mana.NewSource(card, turn, turn))
				result.LandsPlayed++
				landPlayed = true
				break
			}
		}

		spellsCast := 0
		for {
			spell, payment := g.pickSpell(sources)
			if spell == nil {
				break
			}

			for _, src := range payment {
				src.Tapped = true
			}
			g.moveToBattlefield(spell)
			sources = append(sources, mana.NewSource(spell, turn, turn))

			spellsCast++
			result.SpellsCast++
		}

		result.Turns = append(result.Turns, TurnResult{
			Turn:          turn,
			LandPlayed:    landPlayed,
			LandsInPlay:   result.LandsPlayed,
			SpellsCast:    spellsCast,
			CardsInHand:   len(g.deck.Hand),
			AvailableMana: untappedCapacity(sources),
		})
	}

	result.FinalHandSize = len(g.deck.Hand)
	result.FinalBattlefieldSize = len(g.deck.Battlefield)
	return result
}

// pickSpell returns the payable non-land card in hand with the highest
// converted mana cost, along with the sources that pay for it. Ties keep
// the first card encountered. Returns nil when nothing is payable.
func (g *Goldfish) pickSpell(sources []*mana.Source) (*cards.Card, []*mana.Source) {
	var best *cards.Card
	var bestPayment []*mana.Source

	for _, card := range g.deck.Hand {
		if card.IsLand() {
			continue
		}
		if best != nil && card.CMC <= best.CMC {
			continue
		}

		ok, payment := mana.CanPay(mana.ParseCost(card.ManaCost), sources)
		if ok {
			best = card
			bestPayment = payment
		}
	}

	return best, bestPayment
}

// moveToBattlefield removes the first occurrence of card from hand and
// places it on the battlefield.
func (g *Goldfish) moveToBattlefield(card *cards.Card) {
	for i, c := range g.deck.Hand {
		if c == card {
			g.deck.Hand = append(g.deck.Hand[:i], g.deck.Hand[i+1:]...)
			break
		}
	}
	g.deck.Battlefield = append(g.deck.Battlefield, card)
}

// untappedCapacity sums the best production of every currently usable
// source.
func untappedCapacity(sources []*mana.Source) int {
	total := 0
	for _, src := range sources {
		if src.Usable() {
			total += src.MaxAmount()
		}
	}
	return total
}
