// Package main provides a strategy comparison tool for the candidate
// pipeline. It runs scenarios through every requested strategy and compares
// collision counts, scores, and planning time; runs can be persisted for
// later inspection through the API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/wldnjs95/choreoflow/internal/choreo"
	"github.com/wldnjs95/choreoflow/internal/choreo/scenario"
	sqlite "github.com/wldnjs95/choreoflow/internal/choreo/storage/sqlite"
	"github.com/wldnjs95/choreoflow/internal/config"
)

// Config holds configuration for the benchmark run.
type Config struct {
	Scenarios  string
	Strategies string
	TuningFile string
	DBFile     string
	OutputJSON string
	Verbose    bool
}

// BenchResult holds the results across all scenarios.
type BenchResult struct {
	Scenarios   []ScenarioResult      `json:"scenarios"`
	PerStrategy map[string]StratStats `json:"per_strategy"`
}

// ScenarioResult is one scenario's ranked outcome.
type ScenarioResult struct {
	Scenario   string           `json:"scenario"`
	Dancers    int              `json:"dancers"`
	RunID      string           `json:"run_id,omitempty"`
	Candidates []CandidateBrief `json:"candidates"`
}

// CandidateBrief is the comparison view of one candidate.
type CandidateBrief struct {
	Strategy   string  `json:"strategy"`
	Rank       int     `json:"rank"`
	Collisions int     `json:"collisions"`
	Crossings  int     `json:"crossings"`
	SyncScore  float64 `json:"sync_score"`
	Distance   float64 `json:"distance"`
	PlanMs     float64 `json:"plan_ms"`
}

// StratStats aggregates a strategy's standing across scenarios.
type StratStats struct {
	Name          string  `json:"name"`
	Runs          int     `json:"runs"`
	Wins          int     `json:"wins"`
	CleanRuns     int     `json:"clean_runs"`
	AvgCollisions float64 `json:"avg_collisions"`
	AvgPlanMs     float64 `json:"avg_plan_ms"`
}

func main() {
	cfg := parseFlags()

	scenarios, err := resolveScenarios(cfg.Scenarios)
	if err != nil {
		log.Fatalf("Failed to resolve scenarios: %v", err)
	}

	base := choreo.DefaultConfig()
	if cfg.TuningFile != "" {
		tc, err := config.LoadTuningConfig(cfg.TuningFile)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
		if base, err = tc.Apply(base); err != nil {
			log.Fatalf("Invalid tuning config: %v", err)
		}
	}
	strategies, err := resolveStrategies(cfg.Strategies)
	if err != nil {
		log.Fatal(err)
	}

	var store *sqlite.RunStore
	if cfg.DBFile != "" {
		db, err := sqlite.Open(cfg.DBFile)
		if err != nil {
			log.Fatalf("Failed to open run database: %v", err)
		}
		defer db.Close()
		if err := db.MigrateUp(); err != nil {
			log.Fatalf("Failed to migrate run database: %v", err)
		}
		store = sqlite.NewRunStore(db.DB)
	}

	result, err := runBench(scenarios, base, strategies, store, cfg.Verbose)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	printResults(result)

	if cfg.OutputJSON != "" {
		if err := exportJSON(result, cfg.OutputJSON); err != nil {
			log.Printf("Warning: failed to export JSON: %v", err)
		} else {
			log.Printf("Results exported to: %s", cfg.OutputJSON)
		}
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Scenarios, "scenarios", "all", "Comma-separated builtin scenario names, or 'all'")
	flag.StringVar(&cfg.Strategies, "strategies", "", "Comma-separated strategy names (default: all)")
	flag.StringVar(&cfg.TuningFile, "config", "", "Path to a JSON tuning overlay")
	flag.StringVar(&cfg.DBFile, "db", "", "Persist runs to this SQLite database")
	flag.StringVar(&cfg.OutputJSON, "json", "", "Output JSON filename (e.g., results.json)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Log every pipeline stage")

	flag.Parse()
	return cfg
}

func resolveScenarios(names string) ([]*scenario.Scenario, error) {
	if names == "" || names == "all" {
		all := scenario.Builtin()
		out := make([]*scenario.Scenario, len(all))
		for i := range all {
			out[i] = &all[i]
		}
		return out, nil
	}
	var out []*scenario.Scenario
	for _, name := range strings.Split(names, ",") {
		sc, err := scenario.ByName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

func resolveStrategies(names string) ([]choreo.Strategy, error) {
	if names == "" {
		return nil, nil
	}
	var out []choreo.Strategy
	for _, name := range strings.Split(names, ",") {
		s, err := choreo.ParseStrategy(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func runBench(scenarios []*scenario.Scenario, base choreo.Config, strategies []choreo.Strategy, store *sqlite.RunStore, verbose bool) (*BenchResult, error) {
	result := &BenchResult{PerStrategy: make(map[string]StratStats)}

	tr := choreo.NopTrace()
	if verbose {
		tr = choreo.LogTrace("bench")
	}

	for _, sc := range scenarios {
		cfg, err := sc.Config(base)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if len(strategies) > 0 {
			cfg.Strategies = strategies
		}

		candidates, err := choreo.GenerateCandidates(sc.Starts, sc.Ends, cfg, tr)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}

		sr := ScenarioResult{Scenario: sc.Name, Dancers: len(sc.Starts)}
		for rank, c := range candidates {
			sr.Candidates = append(sr.Candidates, CandidateBrief{
				Strategy:   c.Strategy.String(),
				Rank:       rank,
				Collisions: c.Metrics.CollisionCount,
				Crossings:  c.Metrics.CrossingCount,
				SyncScore:  c.Metrics.SimultaneousArrival,
				Distance:   c.Metrics.TotalDistance,
				PlanMs:     c.PlanMillis,
			})

			name := c.Strategy.String()
			st := result.PerStrategy[name]
			st.Name = name
			st.Runs++
			if rank == 0 {
				st.Wins++
			}
			if c.Metrics.CollisionCount == 0 {
				st.CleanRuns++
			}
			st.AvgCollisions += float64(c.Metrics.CollisionCount)
			st.AvgPlanMs += c.PlanMillis
			result.PerStrategy[name] = st
		}

		if store != nil {
			run, err := sqlite.NewPlanRun(sc.Name, cfg, candidates)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			if err := store.Insert(run); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			sr.RunID = run.RunID
		}
		result.Scenarios = append(result.Scenarios, sr)
	}

	for name, st := range result.PerStrategy {
		if st.Runs > 0 {
			st.AvgCollisions /= float64(st.Runs)
			st.AvgPlanMs /= float64(st.Runs)
		}
		result.PerStrategy[name] = st
	}
	return result, nil
}

func printResults(result *BenchResult) {
	fmt.Println("\n=== Strategy Comparison Results ===")

	for _, sr := range result.Scenarios {
		fmt.Printf("\n--- %s (%d dancers) ---\n", sr.Scenario, sr.Dancers)
		for _, c := range sr.Candidates {
			fmt.Printf("  #%d %s: %d collision(s), %d crossing(s), sync %.1f, %.2fm, %.1fms\n",
				c.Rank+1, c.Strategy, c.Collisions, c.Crossings, c.SyncScore, c.Distance, c.PlanMs)
		}
		if sr.RunID != "" {
			fmt.Printf("  stored as run %s\n", sr.RunID)
		}
	}

	fmt.Println("\n--- Per-Strategy Statistics ---")
	for _, s := range choreo.AllStrategies() {
		st, ok := result.PerStrategy[s.String()]
		if !ok {
			continue
		}
		fmt.Printf("\n%s:\n", st.Name)
		fmt.Printf("  Wins: %d of %d\n", st.Wins, st.Runs)
		fmt.Printf("  Clean runs: %d\n", st.CleanRuns)
		fmt.Printf("  Avg collisions: %.2f\n", st.AvgCollisions)
		fmt.Printf("  Avg plan time: %.1fms\n", st.AvgPlanMs)
	}
}

func exportJSON(result *BenchResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
