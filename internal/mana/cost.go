// Package mana models structured mana costs, per-permanent mana production,
// and the payability check used by the goldfish simulator.
package mana

import (
	"regexp"
	"strconv"
	"strings"
)

// ColorOrder lists the color channels in canonical WUBRG order, with
// colorless last.
const ColorOrder = "WUBRGC"

// manaSymbolRE finds mana symbols in braces: {1}, {U}, {2/W}, {G/P}.
var manaSymbolRE = regexp.MustCompile(`\{([0-9A-Z/]+)\}`)

// Cost is a structured mana cost: a pip count per color channel, a generic
// total, and an ordered list of hybrid requirements. Each hybrid requirement
// is one mana point payable by any of its acceptable colors.
type Cost struct {
	Colored map[string]int
	Generic int
	Hybrid  [][]string
}

// NewCost returns an empty cost with all six channels initialized to zero.
func NewCost() *Cost {
	return &Cost{
		Colored: map[string]int{"W": 0, "U": 0, "B": 0, "R": 0, "G": 0, "C": 0},
	}
}

// ParseCost tokenizes a mana cost string such as "{2}{W}{W}" into a Cost.
//
// Digits accumulate into the generic total. X is treated as zero for
// feasibility checks. Numeric hybrids like {2/W} fold the numeric half into
// generic. Phyrexian symbols like {G/P} count as their color (the simulator
// always pays mana, never life). Two-color hybrids like {R/G} are recorded
// as one hybrid requirement. Unrecognized symbols are ignored.
func ParseCost(costStr string) *Cost {
	cost := NewCost()

	if costStr == "" {
		return cost
	}

	for _, match := range manaSymbolRE.FindAllStringSubmatch(costStr, -1) {
		symbol := match[1]

		switch {
		case isDigits(symbol):
			n, _ := strconv.Atoi(symbol)
			cost.Generic += n

		case symbol == "X":
			// X is zero for casting-feasibility purposes.

		case strings.Contains(symbol, "/"):
			parts := strings.SplitN(symbol, "/", 2)
			switch {
			case isDigits(parts[0]):
				// {2/W}: payable with generic mana, so fold it in.
				n, _ := strconv.Atoi(parts[0])
				cost.Generic += n
			case parts[1] == "P":
				// Phyrexian: {G/P} requires the color when paying with mana.
				if isColor(parts[0]) {
					cost.Colored[parts[0]]++
				}
			case isColor(parts[0]) && isColor(parts[1]):
				cost.Hybrid = append(cost.Hybrid, []string{parts[0], parts[1]})
			}

		case isColor(symbol):
			cost.Colored[symbol]++
		}
	}

	return cost
}

// ColoredPips returns the total number of single-color requirements.
func (c *Cost) ColoredPips() int {
	total := 0
	for _, n := range c.Colored {
		total += n
	}
	return total
}

// TotalPips returns every mana point the cost demands: colored, hybrid, and
// generic.
func (c *Cost) TotalPips() int {
	return c.ColoredPips() + len(c.Hybrid) + c.Generic
}

// IsFree reports whether the cost demands no mana at all.
func (c *Cost) IsFree() bool {
	return c.TotalPips() == 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isColor(s string) bool {
	return len(s) == 1 && strings.Contains(ColorOrder, s)
}
