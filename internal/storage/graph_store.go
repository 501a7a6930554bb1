package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ramonehamilton/decklab/internal/synergy"
)

// GraphStore persists synergy graphs in the database.
type GraphStore struct {
	db *DB
}

// NewGraphStore creates a graph store over an open database.
func NewGraphStore(db *DB) *GraphStore {
	return &GraphStore{db: db}
}

// SaveGraph replaces the stored graph with the given one inside a single
// transaction. Features and synergy type lists are stored as JSON text.
func (s *GraphStore) SaveGraph(ctx context.Context, g *synergy.Graph) error {
	nodes, edges := g.Snapshot()

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM graph_edges"); err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM graph_nodes"); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO graph_nodes (name, features) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, node := range nodes {
		features, err := json.Marshal(node.Features)
		if err != nil {
			return fmt.Errorf("marshal features for %q: %w", node.Name, err)
		}
		if _, err := nodeStmt.ExecContext(ctx, node.Name, string(features)); err != nil {
			return fmt.Errorf("insert node %q: %w", node.Name, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO graph_edges (source, target, weight, synergy_types) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, edge := range edges {
		types, err := json.Marshal(edge.Edge.SynergyTypes)
		if err != nil {
			return fmt.Errorf("marshal synergy types for %q-%q: %w", edge.U, edge.V, err)
		}
		if _, err := edgeStmt.ExecContext(ctx, edge.U, edge.V, edge.Edge.Weight, string(types)); err != nil {
			return fmt.Errorf("insert edge %q-%q: %w", edge.U, edge.V, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit graph: %w", err)
	}

	log.Printf("[GraphStore] Saved %d nodes and %d edges", len(nodes), len(edges))
	return nil
}

// LoadGraph reads the stored graph. An empty store yields an empty graph.
func (s *GraphStore) LoadGraph(ctx context.Context) (*synergy.Graph, error) {
	nodes, err := s.loadNodes(ctx)
	if err != nil {
		return nil, err
	}

	edges, err := s.loadEdges(ctx)
	if err != nil {
		return nil, err
	}

	g, err := synergy.FromSnapshot(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("rebuild graph: %w", err)
	}

	log.Printf("[GraphStore] Loaded %d nodes and %d edges", len(nodes), len(edges))
	return g, nil
}

func (s *GraphStore) loadNodes(ctx context.Context) ([]synergy.Node, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		"SELECT name, features FROM graph_nodes ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []synergy.Node
	for rows.Next() {
		var name, featuresJSON string
		if err := rows.Scan(&name, &featuresJSON); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}

		var features synergy.FeatureSet
		if err := json.Unmarshal([]byte(featuresJSON), &features); err != nil {
			return nil, fmt.Errorf("unmarshal features for %q: %w", name, err)
		}
		nodes = append(nodes, synergy.Node{Name: name, Features: &features})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}

func (s *GraphStore) loadEdges(ctx context.Context) ([]synergy.GraphEdge, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		"SELECT source, target, weight, synergy_types FROM graph_edges ORDER BY source, target")
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var edges []synergy.GraphEdge
	for rows.Next() {
		var source, target, typesJSON string
		var weight float64
		if err := rows.Scan(&source, &target, &weight, &typesJSON); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}

		var types []string
		if err := json.Unmarshal([]byte(typesJSON), &types); err != nil {
			return nil, fmt.Errorf("unmarshal synergy types for %q-%q: %w", source, target, err)
		}
		edges = append(edges, synergy.GraphEdge{
			U:    source,
			V:    target,
			Edge: &synergy.Edge{Weight: weight, SynergyTypes: types},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}
	return edges, nil
}

// NodeCount returns the number of stored graph nodes.
func (s *GraphStore) NodeCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM graph_nodes").Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	return count, nil
}
