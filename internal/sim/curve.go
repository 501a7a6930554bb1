package sim

import (
	"github.com/ramonehamilton/decklab/internal/cards"
	"github.com/ramonehamilton/decklab/internal/stats"
)

// CurveStats holds static mana-curve statistics for a decklist. Lands are
// excluded from the cmc figures.
type CurveStats struct {
	TotalCards   int         `json:"total_cards"`
	Lands        int         `json:"lands"`
	Spells       int         `json:"spells"`
	LandRatio    float64     `json:"land_ratio"`
	AvgCMC       float64     `json:"avg_cmc"`
	MedianCMC    float64     `json:"median_cmc"`
	ModeCMC      *float64    `json:"mode_cmc"` // nil when no single cmc dominates
	Distribution map[int]int `json:"cmc_distribution"`
}

// AnalyzeCurve computes mana-curve statistics over a decklist. It is a pure
// function of the card list and is computed once per analysis, not per
// iteration.
func AnalyzeCurve(cardList []*cards.Card) CurveStats {
	curve := CurveStats{
		TotalCards:   len(cardList),
		Distribution: make(map[int]int),
	}

	var cmcs []float64
	for _, card := range cardList {
		if card.IsLand() {
			curve.Lands++
			continue
		}
		curve.Spells++
		cmcs = append(cmcs, card.CMC)
		curve.Distribution[int(card.CMC)]++
	}

	if curve.TotalCards > 0 {
		curve.LandRatio = float64(curve.Lands) / float64(curve.TotalCards)
	}

	curve.AvgCMC = stats.Mean(cmcs)
	curve.MedianCMC = stats.Median(cmcs)
	if mode, ok := stats.Mode(cmcs); ok {
		curve.ModeCMC = &mode
	}

	return curve
}
