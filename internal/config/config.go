// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Cache locations for graph and database artifacts
	Cache CacheConfig `toml:"cache"`

	// Synergy graph query tuning
	Graph GraphConfig `toml:"graph"`

	// Monte Carlo simulation defaults
	Simulation SimulationConfig `toml:"simulation"`
}

// CacheConfig contains cache file settings.
type CacheConfig struct {
	Dir          string `toml:"dir"`           // Cache directory (empty = ~/.decklab)
	GraphFile    string `toml:"graph_file"`    // Synergy graph JSON artifact
	DatabaseFile string `toml:"database_file"` // SQLite graph store
}

// GraphConfig contains synergy graph query settings.
type GraphConfig struct {
	ComboThreshold float64 `toml:"combo_threshold"` // Minimum weight for combo pieces
	TopN           int     `toml:"top_n"`           // Default result count for queries
}

// SimulationConfig contains Monte Carlo defaults.
type SimulationConfig struct {
	HandIterations     int   `toml:"hand_iterations"`     // Opening hand simulations
	GoldfishIterations int   `toml:"goldfish_iterations"` // Goldfish games
	NumTurns           int   `toml:"num_turns"`           // Turns per goldfish game
	Workers            int   `toml:"workers"`             // Parallel simulation workers
	Seed               int64 `toml:"seed"`                // RNG seed (0 = time-based)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			GraphFile:    "synergy_graph.json",
			DatabaseFile: "decklab.db",
		},
		Graph: GraphConfig{
			ComboThreshold: 0.7,
			TopN:           10,
		},
		Simulation: SimulationConfig{
			HandIterations:     1000,
			GoldfishIterations: 100,
			NumTurns:           5,
			Workers:            4,
			Seed:               0,
		},
	}
}

// CacheDir resolves and creates the cache directory. An empty argument
// selects ~/.decklab.
func CacheDir(dir string) (string, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".decklab")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}
	return dir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := CacheDir("")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if the
// file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Graph.ComboThreshold < 0 || c.Graph.ComboThreshold > 1 {
		return fmt.Errorf("combo_threshold must be in [0, 1]: %v", c.Graph.ComboThreshold)
	}

	if c.Graph.TopN < 1 {
		return fmt.Errorf("top_n must be positive: %d", c.Graph.TopN)
	}

	if c.Simulation.HandIterations < 1 {
		return fmt.Errorf("hand_iterations must be positive: %d", c.Simulation.HandIterations)
	}

	if c.Simulation.GoldfishIterations < 1 {
		return fmt.Errorf("goldfish_iterations must be positive: %d", c.Simulation.GoldfishIterations)
	}

	if c.Simulation.NumTurns < 1 {
		return fmt.Errorf("num_turns must be positive: %d", c.Simulation.NumTurns)
	}

	if c.Simulation.Workers < 1 {
		return fmt.Errorf("workers must be positive: %d", c.Simulation.Workers)
	}

	return nil
}
