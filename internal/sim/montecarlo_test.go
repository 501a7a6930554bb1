package sim

import (
	"math"
	"testing"
)

func TestRunOpeningHandAnalysis_LandMean(t *testing.T) {
	// 24 lands in a 60-card deck: the expected lands in a 7-card hand is
	// 24/60 * 7 = 2.8. Over 10k iterations the sample mean lands well
	// within a loose tolerance.
	mc := NewMonteCarlo(testDeck(24, 36), MonteCarloConfig{Workers: 4, Seed: 42})
	analysis := mc.RunOpeningHandAnalysis(10000)

	if analysis.Iterations != 10000 {
		t.Fatalf("Iterations = %d, want 10000", analysis.Iterations)
	}
	if math.Abs(analysis.AvgLands-2.8) > 0.15 {
		t.Errorf("AvgLands = %v, want within 0.15 of 2.8", analysis.AvgLands)
	}
	if analysis.KeepRate <= 0.5 || analysis.KeepRate > 1.0 {
		t.Errorf("KeepRate = %v, want a majority of hands kept", analysis.KeepRate)
	}

	total := 0
	for _, count := range analysis.LandDistribution {
		total += count
	}
	if total != 10000 {
		t.Errorf("land distribution sums to %d, want 10000", total)
	}
}

func TestRunOpeningHandAnalysis_Reproducible(t *testing.T) {
	config := MonteCarloConfig{Workers: 3, Seed: 99}

	first := NewMonteCarlo(testDeck(24, 36), config).RunOpeningHandAnalysis(2000)
	second := NewMonteCarlo(testDeck(24, 36), config).RunOpeningHandAnalysis(2000)

	if first.AvgLands != second.AvgLands {
		t.Errorf("same seed produced different means: %v vs %v", first.AvgLands, second.AvgLands)
	}
	if first.KeepRate != second.KeepRate {
		t.Errorf("same seed produced different keep rates: %v vs %v", first.KeepRate, second.KeepRate)
	}
}

func TestRunGoldfishAnalysis(t *testing.T) {
	mc := NewMonteCarlo(testDeck(24, 36), MonteCarloConfig{Workers: 4, Seed: 7})
	analysis := mc.RunGoldfishAnalysis(500, 5)

	if analysis.Iterations != 500 {
		t.Fatalf("Iterations = %d, want 500", analysis.Iterations)
	}
	if len(analysis.TurnStats) != 5 {
		t.Fatalf("TurnStats has %d entries, want 5", len(analysis.TurnStats))
	}

	// A 40% land deck casting one-drops reliably plays lands and casts
	// spells across five turns.
	if analysis.AvgLandsPlayed <= 0 || analysis.AvgLandsPlayed > 5 {
		t.Errorf("AvgLandsPlayed = %v, want in (0, 5]", analysis.AvgLandsPlayed)
	}
	if analysis.AvgSpellsCast <= 0 {
		t.Errorf("AvgSpellsCast = %v, want > 0", analysis.AvgSpellsCast)
	}

	// Cumulative lands in play never decrease across turns.
	for i := 1; i < len(analysis.TurnStats); i++ {
		if analysis.TurnStats[i].AvgLandsIn < analysis.TurnStats[i-1].AvgLandsIn {
			t.Errorf("AvgLandsIn decreased from turn %d to %d: %v -> %v",
				i, i+1, analysis.TurnStats[i-1].AvgLandsIn, analysis.TurnStats[i].AvgLandsIn)
		}
	}
}

func TestFullAnalysis(t *testing.T) {
	mc := NewMonteCarlo(testDeck(24, 36), MonteCarloConfig{Workers: 2, Seed: 13})
	analysis := mc.FullAnalysis(200, 50, 4)

	if analysis.DeckSize != 60 {
		t.Errorf("DeckSize = %d, want 60", analysis.DeckSize)
	}
	if analysis.Curve.Lands != 24 || analysis.Curve.Spells != 36 {
		t.Errorf("curve lands/spells = %d/%d, want 24/36", analysis.Curve.Lands, analysis.Curve.Spells)
	}
	if analysis.OpeningHands == nil || analysis.Goldfish == nil {
		t.Fatal("FullAnalysis left a sub-analysis nil")
	}
	if analysis.OpeningHands.Iterations != 200 || analysis.Goldfish.Iterations != 50 {
		t.Errorf("iterations = %d/%d, want 200/50",
			analysis.OpeningHands.Iterations, analysis.Goldfish.Iterations)
	}
}

func TestMonteCarlo_SingleWorkerFallback(t *testing.T) {
	mc := NewMonteCarlo(testDeck(7, 0), MonteCarloConfig{Workers: 0, Seed: 1})
	analysis := mc.RunOpeningHandAnalysis(10)

	if analysis.Iterations != 10 {
		t.Errorf("Iterations = %d, want 10", analysis.Iterations)
	}
}
