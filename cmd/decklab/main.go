// Command decklab analyzes Magic decks: it builds card synergy graphs,
// queries them, and runs Monte Carlo goldfish simulations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ramonehamilton/decklab/internal/cards"
	"github.com/ramonehamilton/decklab/internal/charts"
	"github.com/ramonehamilton/decklab/internal/config"
	"github.com/ramonehamilton/decklab/internal/sim"
	"github.com/ramonehamilton/decklab/internal/storage"
	"github.com/ramonehamilton/decklab/internal/synergy"
	"github.com/ramonehamilton/decklab/internal/version"
	"github.com/ramonehamilton/decklab/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	switch os.Args[1] {
	case "build-graph":
		runBuildGraph(cfg, os.Args[2:])
	case "synergies":
		runSynergies(cfg, os.Args[2:])
	case "combos":
		runCombos(cfg, os.Args[2:])
	case "recommend":
		runRecommend(cfg, os.Args[2:])
	case "simulate":
		runSimulate(cfg, os.Args[2:])
	case "curve":
		runCurve(cfg, os.Args[2:])
	case "fetch":
		runFetch(os.Args[2:])
	case "watch":
		runWatch(cfg, os.Args[2:])
	case "version":
		fmt.Printf("decklab %s\n", version.GetVersion())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("decklab - Magic deck analysis toolkit")
	fmt.Println()
	fmt.Println("Usage: decklab <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  build-graph  Build the synergy graph from a card corpus")
	fmt.Println("  synergies    Show top synergies for a card")
	fmt.Println("  combos       Show high-synergy combo pieces for a card")
	fmt.Println("  recommend    Recommend cards for a seed cluster")
	fmt.Println("  simulate     Run Monte Carlo goldfish simulation for a deck")
	fmt.Println("  curve        Analyze a deck's mana curve")
	fmt.Println("  fetch        Fetch decklist cards from Scryfall into a corpus file")
	fmt.Println("  watch        Re-run simulation whenever a decklist file changes")
	fmt.Println("  version      Print the decklab version")
	fmt.Println()
	fmt.Println("Run 'decklab <command> -h' for command-specific flags.")
}

// graphPath resolves the JSON graph cache location.
func graphPath(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	dir, err := config.CacheDir(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("Failed to resolve cache directory: %v", err)
	}
	return filepath.Join(dir, cfg.Cache.GraphFile)
}

// dbPath resolves the SQLite graph store location.
func dbPath(cfg *config.Config) string {
	dir, err := config.CacheDir(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("Failed to resolve cache directory: %v", err)
	}
	return filepath.Join(dir, cfg.Cache.DatabaseFile)
}

// loadGraph loads the cached synergy graph, preferring the SQLite store
// and falling back to the JSON artifact.
func loadGraph(cfg *config.Config, override string) *synergy.Graph {
	path := dbPath(cfg)
	if override == "" {
		if _, err := os.Stat(path); err == nil {
			db, err := storage.Open(storage.DefaultConfig(path))
			if err == nil {
				defer db.Close()
				g, err := storage.NewGraphStore(db).LoadGraph(context.Background())
				if err == nil && g.NodeCount() > 0 {
					return g
				}
			}
		}
	}

	g, err := synergy.LoadGraph(graphPath(cfg, override))
	if err != nil {
		log.Fatalf("Failed to load synergy graph (run 'decklab build-graph' first): %v", err)
	}
	return g
}

func runBuildGraph(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("build-graph", flag.ExitOnError)
	corpusPath := fs.String("corpus", "", "Path to Scryfall bulk JSON corpus (required)")
	outPath := fs.String("out", "", "Graph cache output path (default: cache dir)")
	useDB := fs.Bool("db", true, "Also persist the graph to the SQLite store")
	_ = fs.Parse(args)

	if *corpusPath == "" {
		log.Fatal("build-graph requires -corpus")
	}

	corpus, err := cards.LoadCorpus(*corpusPath)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	log.Printf("[Decklab] Loaded %d cards from %s", corpus.Len(), *corpusPath)

	g := synergy.NewGraph()
	for _, card := range corpus.Cards() {
		g.AddCard(card)
	}
	g.BuildSynergies()

	if err := g.Save(graphPath(cfg, *outPath)); err != nil {
		log.Fatalf("Failed to save graph cache: %v", err)
	}

	if *useDB {
		dbConfig := storage.DefaultConfig(dbPath(cfg))
		dbConfig.AutoMigrate = true
		db, err := storage.Open(dbConfig)
		if err != nil {
			log.Fatalf("Failed to open graph database: %v", err)
		}
		defer db.Close()

		if err := storage.NewGraphStore(db).SaveGraph(context.Background(), g); err != nil {
			log.Fatalf("Failed to save graph to database: %v", err)
		}
	}

	stats := g.Stats()
	fmt.Printf("Built %s\n", g)
	fmt.Printf("  avg synergies per card: %.2f\n", stats.AvgPerCard)
	fmt.Printf("  edge density:           %.4f\n", stats.EdgeDensity)
}

func runSynergies(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("synergies", flag.ExitOnError)
	cardName := fs.String("card", "", "Card name (required)")
	topN := fs.Int("top", cfg.Graph.TopN, "Number of results")
	graphFile := fs.String("graph", "", "Graph cache path (default: cache dir)")
	_ = fs.Parse(args)

	if *cardName == "" {
		log.Fatal("synergies requires -card")
	}

	g := loadGraph(cfg, *graphFile)
	if !g.HasCard(*cardName) {
		log.Fatalf("Card %q is not in the graph", *cardName)
	}

	results := g.SynergiesFor(*cardName, *topN)
	if len(results) == 0 {
		fmt.Printf("No synergies found for %s\n", *cardName)
		return
	}

	fmt.Printf("Top synergies for %s:\n", *cardName)
	for i, result := range results {
		fmt.Printf("  %2d. %-40s %.2f  [%s]\n",
			i+1, result.Name, result.Weight, strings.Join(result.SynergyTypes, ", "))
	}
}

func runCombos(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("combos", flag.ExitOnError)
	cardName := fs.String("card", "", "Card name (required)")
	threshold := fs.Float64("threshold", cfg.Graph.ComboThreshold, "Minimum synergy weight")
	graphFile := fs.String("graph", "", "Graph cache path (default: cache dir)")
	_ = fs.Parse(args)

	if *cardName == "" {
		log.Fatal("combos requires -card")
	}

	g := loadGraph(cfg, *graphFile)
	combos := g.ComboPieces(*cardName, *threshold)
	if len(combos) == 0 {
		fmt.Printf("No combo pieces found for %s at threshold %.2f\n", *cardName, *threshold)
		return
	}

	fmt.Printf("Combo pieces for %s (weight >= %.2f):\n", *cardName, *threshold)
	for _, name := range combos {
		fmt.Printf("  - %s\n", name)
	}
}

func runRecommend(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	seedList := fs.String("cards", "", "Comma-separated seed card names (required)")
	topN := fs.Int("top", cfg.Graph.TopN, "Number of recommendations")
	graphFile := fs.String("graph", "", "Graph cache path (default: cache dir)")
	_ = fs.Parse(args)

	if *seedList == "" {
		log.Fatal("recommend requires -cards")
	}

	var seeds []string
	for _, name := range strings.Split(*seedList, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			seeds = append(seeds, trimmed)
		}
	}

	g := loadGraph(cfg, *graphFile)
	recommendations := g.ClusterRecommendations(seeds, *topN)
	if len(recommendations) == 0 {
		fmt.Println("No recommendations found for the given seeds")
		return
	}

	fmt.Printf("Recommendations for [%s]:\n", strings.Join(seeds, ", "))
	for i, rec := range recommendations {
		fmt.Printf("  %2d. %-40s %.2f\n", i+1, rec.Name, rec.Score)
	}
}

// resolveDeck loads a decklist and resolves it against a corpus file.
func resolveDeck(deckPath, corpusPath string) (*cards.Decklist, []*cards.Card) {
	deck, err := cards.LoadDecklist(deckPath)
	if err != nil {
		log.Fatalf("Failed to load decklist: %v", err)
	}

	corpus, err := cards.LoadCorpus(corpusPath)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	resolved := deck.Resolve(corpus)
	if len(resolved) == 0 {
		log.Fatalf("Decklist %s resolved to zero cards", deckPath)
	}
	return deck, resolved
}

func runSimulate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to YAML decklist (required)")
	corpusPath := fs.String("corpus", "", "Path to corpus JSON (required)")
	hands := fs.Int("hands", cfg.Simulation.HandIterations, "Opening hand iterations")
	games := fs.Int("games", cfg.Simulation.GoldfishIterations, "Goldfish game iterations")
	turns := fs.Int("turns", cfg.Simulation.NumTurns, "Turns per goldfish game")
	workers := fs.Int("workers", cfg.Simulation.Workers, "Parallel workers")
	seed := fs.Int64("seed", cfg.Simulation.Seed, "RNG seed (0 = random)")
	jsonOut := fs.Bool("json", false, "Emit the full report as JSON")
	chartDir := fs.String("charts", "", "Directory to write HTML charts into")
	_ = fs.Parse(args)

	if *deckPath == "" || *corpusPath == "" {
		log.Fatal("simulate requires -deck and -corpus")
	}

	deck, resolved := resolveDeck(*deckPath, *corpusPath)

	mc := sim.NewMonteCarlo(resolved, sim.MonteCarloConfig{
		Workers: *workers,
		Seed:    *seed,
	})
	analysis := mc.FullAnalysis(*hands, *games, *turns)

	if *jsonOut {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal report: %v", err)
		}
		fmt.Println(string(data))
	} else {
		printAnalysis(deck.Name, analysis)
	}

	if *chartDir != "" {
		writeCharts(deck.Name, analysis, *chartDir)
	}
}

func printAnalysis(deckName string, analysis *sim.FullAnalysis) {
	fmt.Printf("=== %s (%d cards) ===\n\n", deckName, analysis.DeckSize)

	fmt.Printf("Mana curve: %d lands / %d spells (%.0f%% lands), avg CMC %.2f\n",
		analysis.Curve.Lands, analysis.Curve.Spells,
		analysis.Curve.LandRatio*100, analysis.Curve.AvgCMC)

	hands := analysis.OpeningHands
	fmt.Printf("\nOpening hands (%d simulated):\n", hands.Iterations)
	fmt.Printf("  avg lands: %.2f   keep rate: %.1f%%\n", hands.AvgLands, hands.KeepRate*100)

	goldfish := analysis.Goldfish
	fmt.Printf("\nGoldfish (%d games, %d turns):\n", goldfish.Iterations, goldfish.NumTurns)
	fmt.Printf("  avg lands played: %.2f   avg spells cast: %.2f (median %.1f)\n",
		goldfish.AvgLandsPlayed, goldfish.AvgSpellsCast, goldfish.MedianSpellsCast)
	for _, turn := range goldfish.TurnStats {
		fmt.Printf("  turn %d: %.2f lands in play, %.2f spells cast\n",
			turn.Turn, turn.AvgLandsIn, turn.AvgSpellsCast)
	}
}

func writeCharts(deckName string, analysis *sim.FullAnalysis, dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("Failed to create chart directory: %v", err)
	}

	curvePath := filepath.Join(dir, "mana_curve.html")
	if err := charts.RenderCurveChart(&analysis.Curve, deckName, curvePath); err != nil {
		log.Fatalf("Failed to render curve chart: %v", err)
	}

	landsPath := filepath.Join(dir, "opening_hands.html")
	if err := charts.RenderLandDistribution(analysis.OpeningHands, deckName, landsPath); err != nil {
		log.Fatalf("Failed to render land distribution chart: %v", err)
	}

	turnsPath := filepath.Join(dir, "goldfish.html")
	if err := charts.RenderTurnStats(analysis.Goldfish, deckName, turnsPath); err != nil {
		log.Fatalf("Failed to render turn stats chart: %v", err)
	}

	log.Printf("[Decklab] Wrote charts to %s", dir)
}

func runCurve(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("curve", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to YAML decklist (required)")
	corpusPath := fs.String("corpus", "", "Path to corpus JSON (required)")
	chartPath := fs.String("chart", "", "Write an HTML chart to this path")
	_ = fs.Parse(args)

	if *deckPath == "" || *corpusPath == "" {
		log.Fatal("curve requires -deck and -corpus")
	}

	deck, resolved := resolveDeck(*deckPath, *corpusPath)
	curve := sim.AnalyzeCurve(resolved)

	fmt.Printf("=== %s ===\n", deck.Name)
	fmt.Printf("Cards: %d (%d lands, %d spells)\n", curve.TotalCards, curve.Lands, curve.Spells)
	fmt.Printf("Avg CMC: %.2f   Median: %.1f\n", curve.AvgCMC, curve.MedianCMC)
	if curve.ModeCMC != nil {
		fmt.Printf("Mode CMC: %.0f\n", *curve.ModeCMC)
	}
	fmt.Println("Distribution:")
	for cmc := 0; cmc <= 10; cmc++ {
		count, ok := curve.Distribution[cmc]
		if !ok {
			continue
		}
		fmt.Printf("  %2d: %s (%d)\n", cmc, strings.Repeat("#", count), count)
	}

	if *chartPath != "" {
		if err := charts.RenderCurveChart(&curve, deck.Name, *chartPath); err != nil {
			log.Fatalf("Failed to render curve chart: %v", err)
		}
		log.Printf("[Decklab] Wrote chart to %s", *chartPath)
	}
}

func runFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to YAML decklist (required)")
	outPath := fs.String("out", "cards.json", "Output corpus file")
	_ = fs.Parse(args)

	if *deckPath == "" {
		log.Fatal("fetch requires -deck")
	}

	deck, err := cards.LoadDecklist(*deckPath)
	if err != nil {
		log.Fatalf("Failed to load decklist: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := cards.NewClient()
	fetched, missing, err := client.FetchDecklistCards(ctx, deck)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}
	for _, name := range missing {
		log.Printf("[Decklab] Could not resolve %q", name)
	}

	data, err := json.MarshalIndent(fetched, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal cards: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatalf("Failed to write corpus: %v", err)
	}

	fmt.Printf("Fetched %d cards (%d missing) into %s\n", len(fetched), len(missing), *outPath)
}

func runWatch(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to YAML decklist (required)")
	corpusPath := fs.String("corpus", "", "Path to corpus JSON (required)")
	turns := fs.Int("turns", cfg.Simulation.NumTurns, "Turns per goldfish game")
	_ = fs.Parse(args)

	if *deckPath == "" || *corpusPath == "" {
		log.Fatal("watch requires -deck and -corpus")
	}

	corpus, err := cards.LoadCorpus(*corpusPath)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	analyze := func(path string) {
		deck, err := cards.LoadDecklist(path)
		if err != nil {
			log.Printf("[Decklab] Failed to reload decklist: %v", err)
			return
		}
		resolved := deck.Resolve(corpus)
		if len(resolved) == 0 {
			log.Printf("[Decklab] Decklist resolved to zero cards, skipping")
			return
		}

		mc := sim.NewMonteCarlo(resolved, sim.MonteCarloConfig{
			Workers: cfg.Simulation.Workers,
			Seed:    cfg.Simulation.Seed,
		})
		analysis := mc.FullAnalysis(cfg.Simulation.HandIterations, cfg.Simulation.GoldfishIterations, *turns)
		printAnalysis(deck.Name, analysis)
	}

	// Analyze once up front, then on every change.
	analyze(*deckPath)

	watcher, err := watch.New(watch.Config{
		Path:     *deckPath,
		Callback: analyze,
	})
	if err != nil {
		log.Fatalf("Failed to create watcher: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Watcher stopped: %v", err)
	}
}
