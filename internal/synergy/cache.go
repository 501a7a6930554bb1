package synergy

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Node is one card's entry in a graph snapshot.
type Node struct {
	Name     string
	Features *FeatureSet
}

// GraphEdge is one undirected edge in a graph snapshot, with U < V.
type GraphEdge struct {
	U    string
	V    string
	Edge *Edge
}

// Snapshot returns the graph's nodes and edges in sorted order, suitable
// for persistence. Each undirected edge appears once with U < V.
func (g *Graph) Snapshot() ([]Node, []GraphEdge) {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]Node, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, Node{Name: name, Features: g.nodes[name]})
	}

	edges := make([]GraphEdge, 0, g.EdgeCount())
	for _, u := range names {
		neighbors := make([]string, 0, len(g.adj[u]))
		for v := range g.adj[u] {
			if u < v {
				neighbors = append(neighbors, v)
			}
		}
		sort.Strings(neighbors)
		for _, v := range neighbors {
			edges = append(edges, GraphEdge{U: u, V: v, Edge: g.adj[u][v]})
		}
	}

	return nodes, edges
}

// FromSnapshot rebuilds a graph from persisted nodes and edges. The
// inverted feature index is reconstructed from each node's stored feature
// set so that AddCard keeps working afterwards. Edges referencing unknown
// cards are rejected.
func FromSnapshot(nodes []Node, edges []GraphEdge) (*Graph, error) {
	g := NewGraph()
	for _, node := range nodes {
		if node.Name == "" || node.Features == nil {
			return nil, fmt.Errorf("snapshot contains an invalid node record")
		}
		g.nodes[node.Name] = node.Features
		g.indexNode(node.Name, node.Features)
	}

	for _, edge := range edges {
		if edge.Edge == nil {
			return nil, fmt.Errorf("snapshot contains an invalid edge record")
		}
		if _, ok := g.nodes[edge.U]; !ok {
			return nil, fmt.Errorf("snapshot edge references unknown card %q", edge.U)
		}
		if _, ok := g.nodes[edge.V]; !ok {
			return nil, fmt.Errorf("snapshot edge references unknown card %q", edge.V)
		}
		g.addEdge(edge.U, edge.V, edge.Edge)
	}

	return g, nil
}

// The cache artifact is a single JSON document with two arrays: nodes as
// [name, attributes] pairs and edges as [nameA, nameB, attributes] triples.
// Load(Save(g)) reproduces the same node set, edge set, and weights.
type graphDocument struct {
	Nodes []nodeRecord `json:"nodes"`
	Edges []edgeRecord `json:"edges"`
}

type nodeRecord struct {
	Name     string
	Features *FeatureSet
}

func (n nodeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{n.Name, n.Features})
}

func (n *nodeRecord) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("node record has %d elements, want 2", len(parts))
	}
	if err := json.Unmarshal(parts[0], &n.Name); err != nil {
		return err
	}
	return json.Unmarshal(parts[1], &n.Features)
}

type edgeRecord struct {
	U    string
	V    string
	Edge *Edge
}

func (e edgeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.U, e.V, e.Edge})
}

func (e *edgeRecord) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("edge record has %d elements, want 3", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.U); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &e.V); err != nil {
		return err
	}
	return json.Unmarshal(parts[2], &e.Edge)
}

// Save serializes the graph to a cache artifact at path. Nodes and edges
// are emitted in sorted order so identical graphs produce identical
// artifacts.
func (g *Graph) Save(path string) error {
	nodes, edges := g.Snapshot()

	doc := graphDocument{
		Nodes: make([]nodeRecord, 0, len(nodes)),
		Edges: make([]edgeRecord, 0, len(edges)),
	}
	for _, node := range nodes {
		doc.Nodes = append(doc.Nodes, nodeRecord{Name: node.Name, Features: node.Features})
	}
	for _, edge := range edges {
		doc.Edges = append(doc.Edges, edgeRecord{U: edge.U, V: edge.V, Edge: edge.Edge})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write graph cache: %w", err)
	}

	log.Printf("[SynergyGraph] Saved %d nodes and %d edges to %s", len(doc.Nodes), len(doc.Edges), path)
	return nil
}

// LoadGraph reads a cache artifact and rebuilds the graph. A missing or
// corrupted artifact is reported as an error; callers fall back to
// rebuilding from the corpus.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph cache: %w", err)
	}

	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse graph cache: %w", err)
	}

	nodes := make([]Node, 0, len(doc.Nodes))
	for _, node := range doc.Nodes {
		nodes = append(nodes, Node{Name: node.Name, Features: node.Features})
	}
	edges := make([]GraphEdge, 0, len(doc.Edges))
	for _, edge := range doc.Edges {
		edges = append(edges, GraphEdge{U: edge.U, V: edge.V, Edge: edge.Edge})
	}

	g, err := FromSnapshot(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("graph cache: %w", err)
	}

	log.Printf("[SynergyGraph] Loaded %d nodes and %d edges from %s", len(doc.Nodes), len(doc.Edges), path)
	return g, nil
}
