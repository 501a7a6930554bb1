package cards

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Corpus is an in-memory card database indexed by name.
type Corpus struct {
	cards  []*Card
	byName map[string]*Card
}

// NewCorpus builds a corpus from a card list. Cards without a name are
// skipped; re-adding a name overwrites the previous entry.
func NewCorpus(cardList []*Card) *Corpus {
	c := &Corpus{
		byName: make(map[string]*Card, len(cardList)),
	}
	for _, card := range cardList {
		if card == nil || card.Name == "" {
			continue
		}
		if _, exists := c.byName[card.Name]; !exists {
			c.cards = append(c.cards, card)
		}
		c.byName[card.Name] = card
	}
	return c
}

// Cards returns all cards in the corpus in insertion order.
func (c *Corpus) Cards() []*Card {
	return c.cards
}

// Get returns the card with the given name, or nil if absent.
func (c *Corpus) Get(name string) *Card {
	return c.byName[name]
}

// Len returns the number of cards in the corpus.
func (c *Corpus) Len() int {
	return len(c.cards)
}

// LoadCorpus reads a Scryfall-style bulk JSON file (an array of card
// objects) and converts it into a Corpus.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var raw []ScryfallCard
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}

	cardList := make([]*Card, 0, len(raw))
	skipped := 0
	for i := range raw {
		if raw[i].Name == "" {
			skipped++
			continue
		}
		cardList = append(cardList, raw[i].ToCard())
	}

	if skipped > 0 {
		log.Printf("[Corpus] Skipped %d unnamed cards while loading %s", skipped, path)
	}

	return NewCorpus(cardList), nil
}

// DecklistEntry is one line of a deck file: a card name and a quantity.
type DecklistEntry struct {
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// Decklist is a named list of cards with quantities.
type Decklist struct {
	Name  string          `yaml:"name"`
	Cards []DecklistEntry `yaml:"cards"`
}

// LoadDecklist reads a YAML deck file.
func LoadDecklist(path string) (*Decklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}

	var deck Decklist
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("parse decklist: %w", err)
	}

	return &deck, nil
}

// Resolve expands the decklist against a corpus, returning one Card pointer
// per copy. Entries whose name is missing from the corpus are logged and
// skipped; a partial deck is still usable for simulation.
func (d *Decklist) Resolve(corpus *Corpus) []*Card {
	var resolved []*Card
	for _, entry := range d.Cards {
		card := corpus.Get(entry.Name)
		if card == nil {
			log.Printf("[Decklist] Card %q not found in corpus, skipping", entry.Name)
			continue
		}
		qty := entry.Quantity
		if qty <= 0 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			resolved = append(resolved, card)
		}
	}
	return resolved
}
