package synergy

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ramonehamilton/decklab/internal/cards"
)

// goblinCard builds a creature sharing only the goblin tribal tag with its
// siblings: colorless identity and equal cmc so no bonus scores apply.
func goblinCard(name string) *cards.Card {
	return &cards.Card{
		Name:     name,
		TypeLine: "Creature — Goblin",
		CMC:      2,
	}
}

func TestScore_TribalOnly(t *testing.T) {
	a := ExtractFeatures(goblinCard("Goblin A"))
	b := ExtractFeatures(goblinCard("Goblin B"))

	if got := Score(a, b); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Score = %v, want exactly 0.4", got)
	}
}

func TestScore_Symmetry(t *testing.T) {
	cardA := &cards.Card{
		Name:       "A",
		TypeLine:   "Creature — Elf",
		OracleText: "Sacrifice a creature: draw a card.",
		CMC:        1,
		Colors:     []string{"G"},
		Keywords:   []string{"Trample"},
	}
	cardB := &cards.Card{
		Name:       "B",
		TypeLine:   "Creature — Elf Warrior",
		OracleText: "When this creature dies, draw a card, then sacrifice a land.",
		CMC:        4,
		Colors:     []string{"G", "B"},
		Keywords:   []string{"Trample", "Reach"},
	}

	a := ExtractFeatures(cardA)
	b := ExtractFeatures(cardB)

	if Score(a, b) != Score(b, a) {
		t.Errorf("Score is asymmetric: %v vs %v", Score(a, b), Score(b, a))
	}
}

func TestScore_TribalPlusTwoMechanics(t *testing.T) {
	cardA := &cards.Card{
		Name:       "Goblin Butcher",
		TypeLine:   "Creature — Goblin",
		OracleText: "Sacrifice a Goblin: Each opponent discards a card.",
		CMC:        2,
	}
	cardB := &cards.Card{
		Name:       "Goblin Agitator",
		TypeLine:   "Creature — Goblin",
		OracleText: "Whenever you sacrifice a permanent, each player discards a card.",
		CMC:        2,
	}

	a := ExtractFeatures(cardA)
	b := ExtractFeatures(cardB)

	if got := Score(a, b); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("Score = %v, want 0.8 (0.4 tribal + 0.4 capped mechanics)", got)
	}

	types := SynergyTypes(a, b)
	hasTribal, hasMechanic := false, false
	for _, typ := range types {
		if typ == "tribal" {
			hasTribal = true
		}
		if typ == "mechanic" {
			hasMechanic = true
		}
	}
	if !hasTribal || !hasMechanic {
		t.Errorf("SynergyTypes = %v, want tribal and mechanic", types)
	}
}

func TestScore_ClampedAtOne(t *testing.T) {
	card := &cards.Card{
		Name:       "Everything",
		TypeLine:   "Creature — Goblin Elf",
		OracleText: "Sacrifice a creature: draw a card, then each player discards a card. Exile the graveyard. You gain life for lifegain.",
		CMC:        3,
		Colors:     []string{"R", "G"},
		Keywords:   []string{"Flying", "Haste"},
	}
	other := &cards.Card{
		Name:       "Everything Else",
		TypeLine:   "Creature — Goblin Elf",
		OracleText: "Sacrifice a land: draw two cards. Each opponent discards a card. Mill three cards into the graveyard. Lifegain matters.",
		CMC:        5,
		Colors:     []string{"R"},
		Keywords:   []string{"Flying"},
	}

	got := Score(ExtractFeatures(card), ExtractFeatures(other))
	if got > 1.0 {
		t.Errorf("Score = %v, want clamped to 1.0", got)
	}
	if got != 1.0 {
		t.Errorf("Score = %v, want exactly 1.0 for a fully overlapping pair", got)
	}
}

func TestBuildSynergies_ThresholdExcludesWeakPairs(t *testing.T) {
	g := NewGraph()
	g.AddCard(goblinCard("Goblin A"))
	g.AddCard(goblinCard("Goblin B"))
	g.BuildSynergies()

	// Tribal-only pairs score exactly 0.4, which does not exceed the 0.45
	// threshold.
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0 for a pair scoring 0.4", g.EdgeCount())
	}
	if results := g.SynergiesFor("Goblin A", 10); len(results) != 0 {
		t.Errorf("SynergiesFor returned %d results, want 0", len(results))
	}
}

func strongGoblin(name string) *cards.Card {
	return &cards.Card{
		Name:       name,
		TypeLine:   "Creature — Goblin",
		OracleText: "Sacrifice a Goblin: Each opponent discards a card.",
		CMC:        2,
	}
}

func TestBuildSynergies_Invariants(t *testing.T) {
	g := NewGraph()
	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta"} {
		g.AddCard(strongGoblin(name))
	}
	g.BuildSynergies()

	// All pairs share tribal + 2 mechanics, so every unordered pair gets
	// one edge: C(4,2) = 6.
	if g.EdgeCount() != 6 {
		t.Errorf("EdgeCount = %d, want 6", g.EdgeCount())
	}

	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta"} {
		for _, result := range g.SynergiesFor(name, -1) {
			if result.Name == name {
				t.Errorf("self-loop on %q", name)
			}
			if result.Weight <= DefaultThreshold || result.Weight > 1.0 {
				t.Errorf("edge weight %v outside (%v, 1.0]", result.Weight, DefaultThreshold)
			}
		}
	}
}

func TestBuildSynergies_Rebuildable(t *testing.T) {
	g := NewGraph()
	g.AddCard(strongGoblin("Alpha"))
	g.AddCard(strongGoblin("Bravo"))

	g.BuildSynergies()
	first := g.EdgeCount()
	g.BuildSynergies()

	if g.EdgeCount() != first {
		t.Errorf("EdgeCount changed across rebuilds: %d then %d", first, g.EdgeCount())
	}
}

func TestAddCard_ReAddOverwrites(t *testing.T) {
	g := NewGraph()
	g.AddCard(strongGoblin("Shifter"))

	// Re-add the same name as a vanilla elf; the goblin tags must be gone.
	g.AddCard(&cards.Card{Name: "Shifter", TypeLine: "Creature — Elf", CMC: 2})
	g.AddCard(strongGoblin("Payoff"))
	g.BuildSynergies()

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0 after the goblin was overwritten", g.EdgeCount())
	}
}

func TestAddCard_SkipsUnnamed(t *testing.T) {
	g := NewGraph()
	g.AddCard(&cards.Card{TypeLine: "Creature — Goblin"})
	g.AddCard(nil)

	if g.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", g.NodeCount())
	}
}

func TestSynergiesFor_UnknownCard(t *testing.T) {
	g := NewGraph()
	if results := g.SynergiesFor("Not A Card", 10); results != nil {
		t.Errorf("SynergiesFor(unknown) = %v, want nil", results)
	}
}

func TestComboPieces(t *testing.T) {
	g := NewGraph()
	g.AddCard(strongGoblin("Alpha"))
	g.AddCard(strongGoblin("Bravo"))
	g.AddCard(goblinCard("Weak"))
	g.BuildSynergies()

	combos := g.ComboPieces("Alpha", 0.7)
	if len(combos) != 1 || combos[0] != "Bravo" {
		t.Errorf("ComboPieces = %v, want [Bravo]", combos)
	}
}

func TestClusterRecommendations_ExcludesSeeds(t *testing.T) {
	g := NewGraph()
	for _, name := range []string{"A", "B", "C", "D"} {
		g.AddCard(strongGoblin(name))
	}
	g.BuildSynergies()

	recs := g.ClusterRecommendations([]string{"A", "B"}, 5)
	if len(recs) == 0 {
		t.Fatal("ClusterRecommendations returned nothing")
	}
	for _, rec := range recs {
		if rec.Name == "A" || rec.Name == "B" {
			t.Errorf("seed %q appeared in recommendations", rec.Name)
		}
	}

	// Each seed contributes 0.8 to C and D; normalized by 2 seeds = 0.8.
	for _, rec := range recs {
		if math.Abs(rec.Score-0.8) > 1e-9 {
			t.Errorf("recommendation %q score = %v, want 0.8", rec.Name, rec.Score)
		}
	}
}

func TestStats(t *testing.T) {
	g := NewGraph()
	if stats := g.Stats(); stats.AvgPerCard != 0 || stats.EdgeDensity != 0 {
		t.Errorf("empty graph stats = %+v, want zeros", stats)
	}

	for _, name := range []string{"A", "B", "C"} {
		g.AddCard(strongGoblin(name))
	}
	g.BuildSynergies()

	stats := g.Stats()
	if stats.Cards != 3 || stats.Synergies != 3 {
		t.Errorf("stats = %+v, want 3 cards and 3 synergies", stats)
	}
	if math.Abs(stats.AvgPerCard-2.0) > 1e-9 {
		t.Errorf("AvgPerCard = %v, want 2.0", stats.AvgPerCard)
	}
	if math.Abs(stats.EdgeDensity-1.0) > 1e-9 {
		t.Errorf("EdgeDensity = %v, want 1.0 for a complete graph", stats.EdgeDensity)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	g := NewGraph()
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		g.AddCard(strongGoblin(name))
	}
	g.AddCard(goblinCard("Weak"))
	g.BuildSynergies()

	path := filepath.Join(t.TempDir(), "synergy_graph.json")
	if err := g.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadGraph(path)
	if err != nil {
		t.Fatalf("LoadGraph() error: %v", err)
	}

	if loaded.NodeCount() != g.NodeCount() {
		t.Errorf("loaded NodeCount = %d, want %d", loaded.NodeCount(), g.NodeCount())
	}
	if loaded.EdgeCount() != g.EdgeCount() {
		t.Errorf("loaded EdgeCount = %d, want %d", loaded.EdgeCount(), g.EdgeCount())
	}

	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Weak"} {
		if !loaded.HasCard(name) {
			t.Errorf("loaded graph is missing %q", name)
		}

		want := g.SynergiesFor(name, -1)
		got := loaded.SynergiesFor(name, -1)
		if len(want) != len(got) {
			t.Fatalf("loaded graph has %d neighbors for %q, want %d", len(got), name, len(want))
		}
		for i := range want {
			if got[i].Name != want[i].Name || got[i].Weight != want[i].Weight {
				t.Errorf("neighbor %d of %q = %+v, want %+v", i, name, got[i], want[i])
			}
		}
	}
}

func TestLoadGraph_IndexRebuiltForIncrementalAdds(t *testing.T) {
	g := NewGraph()
	g.AddCard(strongGoblin("Alpha"))

	path := filepath.Join(t.TempDir(), "synergy_graph.json")
	if err := g.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadGraph(path)
	if err != nil {
		t.Fatalf("LoadGraph() error: %v", err)
	}

	// A card added after loading must still be paired with cached nodes:
	// the inverted index is rebuilt from the stored feature sets.
	loaded.AddCard(strongGoblin("Bravo"))
	loaded.BuildSynergies()

	if loaded.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d after post-load AddCard, want 1", loaded.EdgeCount())
	}
}

func TestLoadGraph_Failures(t *testing.T) {
	if _, err := LoadGraph(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadGraph(missing) = nil error, want failure")
	}

	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGraph(path); err == nil {
		t.Error("LoadGraph(corrupt) = nil error, want failure")
	}
}
