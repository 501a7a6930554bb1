package mana

// CanPay determines whether the given cost can be paid by the given
// sources. On success it returns the ordered list of sources consumed; on
// failure it returns (false, nil). An unpayable cost is an expected
// outcome, not an error.
//
// The search is a depth-first backtrack over untried usable sources, in a
// fixed priority order: single-color requirements first (WUBRG, then
// colorless), then hybrid requirements, then generic. A source chosen for
// any step commits its entire production to the outstanding requirements —
// colored first, then leftover against generic — and is removed from
// consideration for later steps. Unconsumed mana is discarded, never
// floated to a subsequent step. This is deliberately conservative: a cost
// can be reported unpayable even though a cleverer allocation of the same
// sources would succeed.
func CanPay(cost *Cost, sources []*Source) (bool, []*Source) {
	var available []*Source
	for _, s := range sources {
		if s.Usable() && len(s.Options) > 0 {
			available = append(available, s)
		}
	}

	reqColored := make(map[string]int)
	for color, n := range cost.Colored {
		if n > 0 {
			reqColored[color] = n
		}
	}

	used := make([]bool, len(available))
	ok, path := solve(available, used, reqColored, cost.Generic, cost.Hybrid)
	if !ok {
		return false, nil
	}
	return true, path
}

func solve(available []*Source, used []bool, reqColored map[string]int, reqGeneric int, reqHybrid [][]string) (bool, []*Source) {
	if coloredTotal(reqColored) == 0 && reqGeneric == 0 && len(reqHybrid) == 0 {
		return true, nil
	}

	// 1. Satisfy specific colors first (most restrictive).
	targetColor := ""
	for _, r := range ColorOrder {
		if reqColored[string(r)] > 0 {
			targetColor = string(r)
			break
		}
	}

	if targetColor != "" {
		for i, src := range available {
			if used[i] {
				continue
			}
			for _, opt := range src.Options {
				if opt[targetColor] == 0 {
					continue
				}

				nextColored, nextGeneric := applyProduction(opt, reqColored, reqGeneric)

				used[i] = true
				if ok, path := solve(available, used, nextColored, nextGeneric, reqHybrid); ok {
					used[i] = false
					return true, append([]*Source{src}, path...)
				}
				used[i] = false
			}
		}
		return false, nil
	}

	// 2. Satisfy hybrid requirements in order.
	if len(reqHybrid) > 0 {
		acceptable := reqHybrid[0]
		for i, src := range available {
			if used[i] {
				continue
			}
			for _, opt := range src.Options {
				if !providesAny(opt, acceptable) {
					continue
				}

				used[i] = true
				if ok, path := solve(available, used, reqColored, reqGeneric, reqHybrid[1:]); ok {
					used[i] = false
					return true, append([]*Source{src}, path...)
				}
				used[i] = false
				break // one matching option per source is enough to try
			}
		}
		return false, nil
	}

	// 3. Only generic remains: any producing source will do.
	for i, src := range available {
		if used[i] {
			continue
		}
		for _, opt := range src.Options {
			amt := opt.Amount()
			if amt == 0 {
				continue
			}

			nextGeneric := reqGeneric - amt
			if nextGeneric < 0 {
				nextGeneric = 0
			}

			used[i] = true
			if ok, path := solve(available, used, reqColored, nextGeneric, reqHybrid); ok {
				used[i] = false
				return true, append([]*Source{src}, path...)
			}
			used[i] = false
		}
	}
	return false, nil
}

// applyProduction commits an option's entire output against the outstanding
// requirements: colored pips first, then any leftover against generic. The
// inputs are not mutated.
func applyProduction(opt Production, reqColored map[string]int, reqGeneric int) (map[string]int, int) {
	next := make(map[string]int, len(reqColored))
	for color, n := range reqColored {
		next[color] = n
	}

	leftover := 0
	for color, amt := range opt {
		needed := next[color]
		paid := amt
		if paid > needed {
			paid = needed
		}
		next[color] -= paid
		leftover += amt - paid
	}

	if reqGeneric > 0 && leftover > 0 {
		paid := leftover
		if paid > reqGeneric {
			paid = reqGeneric
		}
		reqGeneric -= paid
	}

	return next, reqGeneric
}

func coloredTotal(req map[string]int) int {
	total := 0
	for _, n := range req {
		total += n
	}
	return total
}

func providesAny(opt Production, colors []string) bool {
	for _, color := range colors {
		if opt[color] > 0 {
			return true
		}
	}
	return false
}
