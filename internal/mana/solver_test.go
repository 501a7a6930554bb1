package mana

import (
	"testing"

	"github.com/ramonehamilton/decklab/internal/cards"
)

func landSource(landType string, tapped bool) *Source {
	src := NewSource(basicLand(landType, landType), 0, 5)
	src.Tapped = tapped
	return src
}

func TestCanPay_FreeCost(t *testing.T) {
	ok, used := CanPay(ParseCost(""), nil)
	if !ok {
		t.Fatal("CanPay() = false for a free cost with no sources")
	}
	if len(used) != 0 {
		t.Errorf("CanPay() consumed %d sources for a free cost", len(used))
	}
}

func TestCanPay_TwoWhiteTwoGeneric(t *testing.T) {
	cost := ParseCost("{2}{W}{W}")

	// A single Plains cannot pay it alone.
	ok, _ := CanPay(cost, []*Source{landSource("Plains", false)})
	if ok {
		t.Error("CanPay() = true with a single Plains, want false")
	}

	// Two Plains still leave the generic portion unpaid.
	ok, _ = CanPay(cost, []*Source{landSource("Plains", false), landSource("Plains", false)})
	if ok {
		t.Error("CanPay() = true with two Plains, want false")
	}

	// Two Plains plus two lands of any color succeed.
	sources := []*Source{
		landSource("Plains", false),
		landSource("Plains", false),
		landSource("Mountain", false),
		landSource("Forest", false),
	}
	ok, used := CanPay(cost, sources)
	if !ok {
		t.Fatal("CanPay() = false with two Plains and two off-color lands, want true")
	}
	if len(used) != 4 {
		t.Errorf("CanPay() consumed %d sources, want 4", len(used))
	}
}

func TestCanPay_IgnoresUnusableSources(t *testing.T) {
	cost := ParseCost("{G}")

	ok, _ := CanPay(cost, []*Source{landSource("Forest", true)})
	if ok {
		t.Error("CanPay() = true using a tapped source")
	}

	sick := NewSource(&cards.Card{
		Name:         "Llanowar Elves",
		TypeLine:     "Creature — Elf Druid",
		ProducedMana: []string{"G"},
	}, 5, 5)
	ok, _ = CanPay(cost, []*Source{sick})
	if ok {
		t.Error("CanPay() = true using a summoning-sick creature")
	}
}

func TestCanPay_HybridAcceptsEitherColor(t *testing.T) {
	cost := ParseCost("{R/G}")

	for _, landType := range []string{"Mountain", "Forest"} {
		ok, used := CanPay(cost, []*Source{landSource(landType, false)})
		if !ok {
			t.Errorf("CanPay({R/G}) = false with a %s, want true", landType)
		}
		if len(used) != 1 {
			t.Errorf("CanPay({R/G}) consumed %d sources, want 1", len(used))
		}
	}

	if ok, _ := CanPay(cost, []*Source{landSource("Island", false)}); ok {
		t.Error("CanPay({R/G}) = true with only an Island, want false")
	}
}

func TestCanPay_MultiProductionCoversGeneric(t *testing.T) {
	// Sol Ring's {C}{C} pays one colorless pip and one generic in a single
	// commitment.
	solRing := NewSource(&cards.Card{
		Name:       "Sol Ring",
		TypeLine:   "Artifact",
		OracleText: "{T}: Add {C}{C}.",
	}, 0, 5)

	ok, used := CanPay(ParseCost("{1}{C}"), []*Source{solRing})
	if !ok {
		t.Fatal("CanPay({1}{C}) = false with a Sol Ring, want true")
	}
	if len(used) != 1 {
		t.Errorf("CanPay() consumed %d sources, want 1", len(used))
	}
}

func TestCanPay_NoFloatingMana(t *testing.T) {
	// {G}{G} producer committed to a single {G} pip discards its leftover;
	// the leftover cannot float to a later colored step.
	doubleGreen := NewSource(&cards.Card{
		Name:       "Gaea's Font",
		TypeLine:   "Land",
		OracleText: "{T}: Add {G}{G}.",
	}, 0, 5)

	// {G}{G} is payable: both pips are covered by the one commitment.
	ok, _ := CanPay(ParseCost("{G}{G}"), []*Source{doubleGreen})
	if !ok {
		t.Fatal("CanPay({G}{G}) = false with a {G}{G} producer, want true")
	}

	// {G}{W} is not: the leftover {G} is discarded and no white exists.
	ok, _ = CanPay(ParseCost("{G}{W}"), []*Source{doubleGreen})
	if ok {
		t.Error("CanPay({G}{W}) = true with only a {G}{G} producer, want false")
	}
}

func TestCanPay_Soundness(t *testing.T) {
	sources := []*Source{
		landSource("Plains", false),
		landSource("Plains", true), // tapped, must never appear in the result
		landSource("Island", false),
		landSource("Forest", false),
	}

	cost := ParseCost("{1}{W}{U}")
	ok, used := CanPay(cost, sources)
	if !ok {
		t.Fatal("CanPay({1}{W}{U}) = false, want true")
	}

	seen := make(map[*Source]bool)
	produced := 0
	for _, src := range used {
		if seen[src] {
			t.Error("a source appears more than once in the consumed list")
		}
		seen[src] = true

		if !src.Usable() {
			t.Errorf("consumed source %s was not usable", src.Card.Name)
		}
		produced += src.MaxAmount()
	}

	if produced < cost.TotalPips() {
		t.Errorf("consumed sources produce %d mana, cost demands %d", produced, cost.TotalPips())
	}
}

func TestCanPay_BacktracksAcrossColors(t *testing.T) {
	// One dual produces W or G; one Plains produces only W. Paying {W}{G}
	// requires the solver to give the dual to green even though it also
	// matches the white pip tried first.
	dual := NewSource(&cards.Card{
		Name:         "Temple Garden",
		TypeLine:     "Land — Forest Plains",
		ProducedMana: []string{"G", "W"},
	}, 0, 5)

	ok, used := CanPay(ParseCost("{W}{G}"), []*Source{dual, landSource("Plains", false)})
	if !ok {
		t.Fatal("CanPay({W}{G}) = false with a dual and a Plains, want true")
	}
	if len(used) != 2 {
		t.Errorf("CanPay() consumed %d sources, want 2", len(used))
	}
}
