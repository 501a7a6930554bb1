package synergy

import (
	"fmt"
	"testing"

	"github.com/ramonehamilton/decklab/internal/cards"
)

var tribeNames = []string{"Goblin", "Elf", "Zombie", "Vampire", "Merfolk"}
var mechanicTexts = []string{
	"Sacrifice a creature: draw a card.",
	"When this enters the battlefield, each opponent discards a card.",
	"Destroy target creature. You gain 2 life.",
	"Exile target card from a graveyard. Create a 1/1 token.",
	"Counter target spell unless its controller pays {2}.",
}

func benchCorpus(n int) []*cards.Card {
	corpus := make([]*cards.Card, n)
	for i := 0; i < n; i++ {
		corpus[i] = &cards.Card{
			Name:       fmt.Sprintf("Card %04d", i),
			TypeLine:   "Creature — " + tribeNames[i%len(tribeNames)],
			OracleText: mechanicTexts[i%len(mechanicTexts)],
			CMC:        float64(i%7 + 1),
			Colors:     []string{"WUBRG"[i%5 : i%5+1]},
		}
	}
	return corpus
}

func BenchmarkBuildSynergies(b *testing.B) {
	for _, size := range []int{100, 500, 2000} {
		b.Run(fmt.Sprintf("cards_%d", size), func(b *testing.B) {
			corpus := benchCorpus(size)
			for i := 0; i < b.N; i++ {
				g := NewGraph()
				for _, card := range corpus {
					g.AddCard(card)
				}
				g.BuildSynergies()
			}
		})
	}
}

func BenchmarkSynergiesFor(b *testing.B) {
	g := NewGraph()
	for _, card := range benchCorpus(2000) {
		g.AddCard(card)
	}
	g.BuildSynergies()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SynergiesFor("Card 0042", 10)
	}
}
