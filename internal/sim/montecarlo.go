package sim

import (
	"log"
	"math/rand"
	"sync"

	"github.com/ramonehamilton/decklab/internal/cards"
	"github.com/ramonehamilton/decklab/internal/stats"
)

// MonteCarloConfig configures the Monte Carlo driver.
type MonteCarloConfig struct {
	// Workers is the number of goroutines iterations are spread across.
	// Each worker owns a private deck copy and RNG, so iterations never
	// share mutable state.
	Workers int

	// Seed makes runs reproducible. Worker i derives its RNG from Seed+i.
	// Zero selects a random seed.
	Seed int64
}

// DefaultMonteCarloConfig returns default configuration.
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{
		Workers: 4,
		Seed:    0,
	}
}

// OpeningHandAnalysis aggregates opening-hand simulations.
type OpeningHandAnalysis struct {
	Iterations       int         `json:"iterations"`
	AvgLands         float64     `json:"avg_lands"`
	MedianLands      float64     `json:"median_lands"`
	KeepRate         float64     `json:"keep_rate"`
	LandDistribution map[int]int `json:"land_distribution"`
}

// TurnAverages holds per-turn means across all simulated games.
type TurnAverages struct {
	Turn          int     `json:"turn"`
	AvgLandsIn    float64 `json:"avg_lands"`
	AvgSpellsCast float64 `json:"avg_spells_cast"`
}

// GoldfishAnalysis aggregates goldfish simulations.
type GoldfishAnalysis struct {
	Iterations       int            `json:"iterations"`
	NumTurns         int            `json:"num_turns"`
	AvgLandsPlayed   float64        `json:"avg_lands_played"`
	AvgSpellsCast    float64        `json:"avg_spells_cast"`
	MedianSpellsCast float64        `json:"median_spells_cast"`
	TurnStats        []TurnAverages `json:"turn_stats"`
}

// FullAnalysis is the complete deck report.
type FullAnalysis struct {
	DeckSize     int                  `json:"deck_size"`
	Curve        CurveStats           `json:"mana_curve"`
	OpeningHands *OpeningHandAnalysis `json:"opening_hands"`
	Goldfish     *GoldfishAnalysis    `json:"goldfish"`
}

// MonteCarlo repeats single-game simulations and aggregates statistics.
type MonteCarlo struct {
	cards  []*cards.Card
	config MonteCarloConfig
}

// NewMonteCarlo creates a Monte Carlo driver over a decklist.
func NewMonteCarlo(cardList []*cards.Card, config MonteCarloConfig) *MonteCarlo {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Seed == 0 {
		config.Seed = rand.Int63()
	}
	return &MonteCarlo{
		cards:  cardList,
		config: config,
	}
}

// RunOpeningHandAnalysis simulates many opening hands and reports land
// count statistics and the keep rate.
func (mc *MonteCarlo) RunOpeningHandAnalysis(iterations int) *OpeningHandAnalysis {
	log.Printf("[MonteCarlo] Running %d opening hand simulations...", iterations)

	results := make([]OpeningHandResult, 0, iterations)
	mc.runParallel(iterations, func(g *Goldfish, out chan<- interface{}) {
		out <- g.SimulateOpeningHand(7)
	}, func(v interface{}) {
		results = append(results, v.(OpeningHandResult))
	})

	analysis := &OpeningHandAnalysis{
		Iterations:       len(results),
		LandDistribution: make(map[int]int),
	}
	if len(results) == 0 {
		return analysis
	}

	lands := make([]float64, len(results))
	keeps := 0
	for i, r := range results {
		lands[i] = float64(r.Lands)
		analysis.LandDistribution[r.Lands]++
		if r.Keep {
			keeps++
		}
	}

	analysis.AvgLands = stats.Mean(lands)
	analysis.MedianLands = stats.Median(lands)
	analysis.KeepRate = float64(keeps) / float64(len(results))
	return analysis
}

// RunGoldfishAnalysis simulates many goldfish games and reports aggregate
// and per-turn statistics.
func (mc *MonteCarlo) RunGoldfishAnalysis(iterations, numTurns int) *GoldfishAnalysis {
	log.Printf("[MonteCarlo] Running %d goldfish simulations (%d turns each)...", iterations, numTurns)

	results := make([]GameResult, 0, iterations)
	mc.runParallel(iterations, func(g *Goldfish, out chan<- interface{}) {
		out <- g.SimulateTurns(numTurns, 7)
	}, func(v interface{}) {
		results = append(results, v.(GameResult))
	})

	analysis := &GoldfishAnalysis{
		Iterations: len(results),
		NumTurns:   numTurns,
	}
	if len(results) == 0 {
		return analysis
	}

	landsPlayed := make([]float64, len(results))
	spellsCast := make([]float64, len(results))
	for i, r := range results {
		landsPlayed[i] = float64(r.LandsPlayed)
		spellsCast[i] = float64(r.SpellsCast)
	}
	analysis.AvgLandsPlayed = stats.Mean(landsPlayed)
	analysis.AvgSpellsCast = stats.Mean(spellsCast)
	analysis.MedianSpellsCast = stats.Median(spellsCast)

	for turn := 1; turn <= numTurns; turn++ {
		turnLands := make([]float64, 0, len(results))
		turnSpells := make([]float64, 0, len(results))
		for _, r := range results {
			if turn-1 < len(r.Turns) {
				turnLands = append(turnLands, float64(r.Turns[turn-1].LandsInPlay))
				turnSpells = append(turnSpells, float64(r.Turns[turn-1].SpellsCast))
			}
		}
		analysis.TurnStats = append(analysis.TurnStats, TurnAverages{
			Turn:          turn,
			AvgLandsIn:    stats.Mean(turnLands),
			AvgSpellsCast: stats.Mean(turnSpells),
		})
	}

	return analysis
}

// FullAnalysis runs the static curve analysis plus both Monte Carlo
// analyses.
func (mc *MonteCarlo) FullAnalysis(handIterations, goldfishIterations, numTurns int) *FullAnalysis {
	return &FullAnalysis{
		DeckSize:     len(mc.cards),
		Curve:        AnalyzeCurve(mc.cards),
		OpeningHands: mc.RunOpeningHandAnalysis(handIterations),
		Goldfish:     mc.RunGoldfishAnalysis(goldfishIterations, numTurns),
	}
}

// runParallel spreads iterations over workers. Each worker owns a private
// deck and a seeded RNG; the only shared resource is the read-only card
// list.
func (mc *MonteCarlo) runParallel(iterations int, iterate func(*Goldfish, chan<- interface{}), collect func(interface{})) {
	out := make(chan interface{}, mc.config.Workers)

	var wg sync.WaitGroup
	perWorker := iterations / mc.config.Workers
	remainder := iterations % mc.config.Workers

	for w := 0; w < mc.config.Workers; w++ {
		count := perWorker
		if w < remainder {
			count++
		}
		if count == 0 {
			continue
		}

		wg.Add(1)
		go func(workerID, count int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(mc.config.Seed + int64(workerID)))
			goldfish := NewGoldfish(NewDeck(mc.cards, rng))
			for i := 0; i < count; i++ {
				iterate(goldfish, out)
			}
		}(w, count)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for v := range out {
		collect(v)
	}
}
