// Package sim simulates a deck goldfishing through its opening turns and
// aggregates statistics over many simulated games.
package sim

import (
	"math/rand"
	"time"

	"github.com/ramonehamilton/decklab/internal/cards"
)

// Deck is the four-zone state machine for one simulated game. Cards only
// ever move between zones: the multiset union of library, hand, battlefield,
// and graveyard always equals the original decklist.
type Deck struct {
	cards []*cards.Card // original decklist, never mutated

	Library     []*cards.Card
	Hand        []*cards.Card
	Battlefield []*cards.Card
	Graveyard   []*cards.Card

	rng *rand.Rand
}

// NewDeck creates a deck from a fixed card list. The random source drives
// shuffling; pass a seeded source for reproducible games, or nil for a
// time-seeded one.
func NewDeck(cardList []*cards.Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	d := &Deck{
		cards: append([]*cards.Card(nil), cardList...),
		rng:   rng,
	}
	d.Reset()
	return d
}

// Reset restores the library from the original decklist and clears the
// other zones.
func (d *Deck) Reset() {
	d.Library = append([]*cards.Card(nil), d.cards...)
	d.Hand = nil
	d.Battlefield = nil
	d.Graveyard = nil
}

// Shuffle randomizes the library order.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.Library), func(i, j int) {
		d.Library[i], d.Library[j] = d.Library[j], d.Library[i]
	})
}

// Draw moves up to n cards from the front of the library to the hand. An
// exhausted library is not an error; fewer cards are drawn.
func (d *Deck) Draw(n int) []*cards.Card {
	var drawn []*cards.Card
	for i := 0; i < n && len(d.Library) > 0; i++ {
		card := d.Library[0]
		d.Library = d.Library[1:]
		d.Hand = append(d.Hand, card)
		drawn = append(drawn, card)
	}
	return drawn
}

// Mulligan returns the full hand to the library, reshuffles, and draws k
// cards.
func (d *Deck) Mulligan(k int) {
	d.Library = append(d.Library, d.Hand...)
	d.Hand = nil
	d.Shuffle()
	d.Draw(k)
}

// Size returns the number of cards in the original decklist.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Cards returns the original decklist.
func (d *Deck) Cards() []*cards.Card {
	return d.cards
}

// LandsInHand counts the lands currently in hand.
func (d *Deck) LandsInHand() int {
	count := 0
	for _, card := range d.Hand {
		if card.IsLand() {
			count++
		}
	}
	return count
}

// SpellsInHand counts the non-land cards currently in hand.
func (d *Deck) SpellsInHand() int {
	return len(d.Hand) - d.LandsInHand()
}
