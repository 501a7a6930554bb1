package synergy

import (
	"fmt"
	"log"
	"sort"

	"github.com/ramonehamilton/decklab/internal/cards"
)

// DefaultThreshold is the build-time score a pair must exceed for an edge
// to be created.
const DefaultThreshold = 0.45

// Edge carries the weight of a synergy relationship and the list of synergy
// types that produced it.
type Edge struct {
	Weight       float64  `json:"weight"`
	SynergyTypes []string `json:"synergy_types"`
}

// SynergyResult is one neighbor returned from a synergy query.
type SynergyResult struct {
	Name         string
	Weight       float64
	SynergyTypes []string
}

// Recommendation is one candidate returned from a cluster query.
type Recommendation struct {
	Name  string
	Score float64
}

// GraphStats summarizes a built graph.
type GraphStats struct {
	Cards       int     `json:"num_cards"`
	Synergies   int     `json:"num_synergies"`
	AvgPerCard  float64 `json:"avg_synergies_per_card"`
	EdgeDensity float64 `json:"density"`
}

// Graph is an undirected weighted synergy graph over card names. It is
// built once per corpus snapshot and then treated as read-only: concurrent
// readers need no locking, but AddCard and BuildSynergies calls must be
// externally serialized.
type Graph struct {
	nodes map[string]*FeatureSet
	adj   map[string]map[string]*Edge

	// index maps "category:value" tags to the set of card names carrying
	// that tag. It restricts pairwise scoring to cards sharing at least one
	// tag.
	index map[string]map[string]bool
}

// NewGraph creates an empty synergy graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*FeatureSet),
		adj:   make(map[string]map[string]*Edge),
		index: make(map[string]map[string]bool),
	}
}

// AddCard extracts the card's features and adds it as a node, updating the
// inverted feature index. Cards without a name are skipped. Re-adding a
// name overwrites the previous node.
func (g *Graph) AddCard(card *cards.Card) {
	if card == nil || card.Name == "" {
		return
	}

	if old, exists := g.nodes[card.Name]; exists {
		g.unindex(card.Name, old)
	}

	fs := ExtractFeatures(card)
	g.nodes[card.Name] = fs
	g.indexNode(card.Name, fs)
}

// indexNode inserts the card under every category:value tag it carries.
func (g *Graph) indexNode(name string, fs *FeatureSet) {
	for _, tag := range indexTags(fs) {
		if g.index[tag] == nil {
			g.index[tag] = make(map[string]bool)
		}
		g.index[tag][name] = true
	}
}

func (g *Graph) unindex(name string, fs *FeatureSet) {
	for _, tag := range indexTags(fs) {
		delete(g.index[tag], name)
	}
}

func indexTags(fs *FeatureSet) []string {
	var tags []string
	for _, t := range fs.Tribes {
		tags = append(tags, "tribe:"+t)
	}
	for _, m := range fs.Mechanics {
		tags = append(tags, "mechanic:"+m)
	}
	for _, th := range fs.Themes {
		tags = append(tags, "theme:"+th)
	}
	for _, kw := range fs.Keywords {
		tags = append(tags, "keyword:"+kw)
	}
	return tags
}

// BuildSynergies rebuilds all edges from scratch. For each node, only the
// candidates sharing at least one indexed tag are scored, and only the
// canonically greater name of each pair is considered, so every unordered
// pair is scored at most once.
func (g *Graph) BuildSynergies() {
	log.Printf("[SynergyGraph] Building synergies for %d cards...", len(g.nodes))

	g.adj = make(map[string]map[string]*Edge)
	edgeCount := 0

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fs := g.nodes[name]
		for candidate := range g.candidates(name, fs) {
			if candidate <= name {
				continue
			}

			other := g.nodes[candidate]
			score := Score(fs, other)
			if score > DefaultThreshold {
				g.addEdge(name, candidate, &Edge{
					Weight:       score,
					SynergyTypes: SynergyTypes(fs, other),
				})
				edgeCount++
			}
		}
	}

	log.Printf("[SynergyGraph] Created %d synergy relationships", edgeCount)
}

// candidates returns the union of index lookups for each of the node's own
// tags, excluding the node itself.
func (g *Graph) candidates(name string, fs *FeatureSet) map[string]bool {
	result := make(map[string]bool)
	for _, tag := range indexTags(fs) {
		for candidate := range g.index[tag] {
			if candidate != name {
				result[candidate] = true
			}
		}
	}
	return result
}

func (g *Graph) addEdge(a, b string, edge *Edge) {
	if g.adj[a] == nil {
		g.adj[a] = make(map[string]*Edge)
	}
	if g.adj[b] == nil {
		g.adj[b] = make(map[string]*Edge)
	}
	g.adj[a][b] = edge
	g.adj[b][a] = edge
}

// Score computes the synergy score between two feature sets, in [0, 1].
func Score(a, b *FeatureSet) float64 {
	score := 0.0

	// Tribal synergy (strong)
	if intersects(a.Tribes, b.Tribes) {
		score += 0.4
	}

	// Mechanic synergy (medium), capped at two overlapping mechanics
	if overlap := overlapCount(a.Mechanics, b.Mechanics); overlap > 0 {
		if overlap > 2 {
			overlap = 2
		}
		score += 0.2 * float64(overlap)
	}

	// Theme synergy (medium)
	if intersects(a.Themes, b.Themes) {
		score += 0.2
	}

	// Keyword synergy (weak)
	if intersects(a.Keywords, b.Keywords) {
		score += 0.1
	}

	// Shared color identity (weak bonus)
	if len(a.Colors) > 0 && len(b.Colors) > 0 && intersects(a.Colors, b.Colors) {
		score += 0.05
	}

	// Complementary mana curve (very weak bonus)
	diff := a.CMC - b.CMC
	if diff < 0 {
		diff = -diff
	}
	if diff >= 2 && a.CMC < 7 && b.CMC < 7 {
		score += 0.05
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// SynergyTypes lists which tag categories two feature sets overlap in.
func SynergyTypes(a, b *FeatureSet) []string {
	var types []string
	if intersects(a.Tribes, b.Tribes) {
		types = append(types, "tribal")
	}
	if intersects(a.Mechanics, b.Mechanics) {
		types = append(types, "mechanic")
	}
	if intersects(a.Themes, b.Themes) {
		types = append(types, "theme")
	}
	if intersects(a.Keywords, b.Keywords) {
		types = append(types, "keyword")
	}
	return types
}

// SynergiesFor returns up to topN neighbors of the named card sorted by
// weight descending. A card absent from the graph yields an empty result,
// not an error.
func (g *Graph) SynergiesFor(name string, topN int) []SynergyResult {
	if _, exists := g.nodes[name]; !exists {
		return nil
	}

	neighbors := make([]SynergyResult, 0, len(g.adj[name]))
	for neighbor, edge := range g.adj[name] {
		neighbors = append(neighbors, SynergyResult{
			Name:         neighbor,
			Weight:       edge.Weight,
			SynergyTypes: edge.SynergyTypes,
		})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Weight != neighbors[j].Weight {
			return neighbors[i].Weight > neighbors[j].Weight
		}
		return neighbors[i].Name < neighbors[j].Name
	})

	if topN >= 0 && topN < len(neighbors) {
		neighbors = neighbors[:topN]
	}
	return neighbors
}

// ComboPieces returns the neighbors whose weight meets the threshold,
// searched over the card's top 50 synergies.
func (g *Graph) ComboPieces(name string, threshold float64) []string {
	var combos []string
	for _, result := range g.SynergiesFor(name, 50) {
		if result.Weight >= threshold {
			combos = append(combos, result.Name)
		}
	}
	return combos
}

// ClusterRecommendations aggregates the top-50 synergies of every seed,
// sums scores per candidate, normalizes by the seed count, and returns the
// topN candidates. Seed cards themselves are never recommended.
func (g *Graph) ClusterRecommendations(seeds []string, topN int) []Recommendation {
	seedSet := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		seedSet[seed] = true
	}

	scores := make(map[string]float64)
	for _, seed := range seeds {
		if _, exists := g.nodes[seed]; !exists {
			continue
		}
		for _, result := range g.SynergiesFor(seed, 50) {
			if seedSet[result.Name] {
				continue
			}
			scores[result.Name] += result.Weight
		}
	}

	if len(seeds) > 0 {
		for name := range scores {
			scores[name] /= float64(len(seeds))
		}
	}

	recommendations := make([]Recommendation, 0, len(scores))
	for name, score := range scores {
		recommendations = append(recommendations, Recommendation{Name: name, Score: score})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].Name < recommendations[j].Name
	})

	if topN >= 0 && topN < len(recommendations) {
		recommendations = recommendations[:topN]
	}
	return recommendations
}

// HasCard reports whether the named card is a node in the graph.
func (g *Graph) HasCard(name string) bool {
	_, exists := g.nodes[name]
	return exists
}

// NodeCount returns the number of cards in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges in the graph.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, neighbors := range g.adj {
		total += len(neighbors)
	}
	return total / 2
}

// Stats reports node count, edge count, average degree, and edge density.
func (g *Graph) Stats() GraphStats {
	nodes := len(g.nodes)
	edges := g.EdgeCount()

	stats := GraphStats{
		Cards:     nodes,
		Synergies: edges,
	}
	if nodes > 0 {
		stats.AvgPerCard = 2 * float64(edges) / float64(nodes)
	}
	if nodes > 1 {
		stats.EdgeDensity = float64(edges) / (float64(nodes) * float64(nodes-1) / 2)
	}
	return stats
}

// String implements fmt.Stringer for logging.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph(%d cards, %d synergies)", g.NodeCount(), g.EdgeCount())
}
