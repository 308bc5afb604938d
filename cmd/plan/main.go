// Command plan runs the candidate pipeline for one scenario and reports the
// ranked results. Scenarios are builtin names or JSON files; results can go
// to stdout, a JSON file, and per-candidate trajectory PNGs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/wldnjs95/choreoflow/internal/choreo"
	"github.com/wldnjs95/choreoflow/internal/choreo/monitor"
	"github.com/wldnjs95/choreoflow/internal/choreo/scenario"
	"github.com/wldnjs95/choreoflow/internal/config"
	"github.com/wldnjs95/choreoflow/internal/units"
)

var (
	scenarioFlag = flag.String("scenario", "line-to-v", "Builtin scenario name or path to a scenario JSON file")
	strategyFlag = flag.String("strategy", "", "Run a single strategy instead of the configured set")
	tuningFile   = flag.String("config", "", "Path to a JSON tuning overlay")
	outFile      = flag.String("out", "", "Write the full candidate list as JSON to this file")
	plotDir      = flag.String("plot", "", "Write per-candidate trajectory PNGs into this directory")
	bpm          = flag.Float64("bpm", 0, "Tempo for reporting durations in seconds (0 skips)")
	trace        = flag.Bool("trace", false, "Log every pipeline stage")
	listFlag     = flag.Bool("list", false, "List builtin scenarios and exit")
)

func main() {
	flag.Parse()

	if *listFlag {
		for _, sc := range scenario.Builtin() {
			fmt.Printf("%-14s %2d dancers  %s\n", sc.Name, len(sc.Starts), sc.Description)
		}
		return
	}
	if *bpm != 0 && !units.IsValidBPM(*bpm) {
		log.Fatalf("BPM must be between %v and %v", units.MinBPM, units.MaxBPM)
	}

	sc, err := loadScenario(*scenarioFlag)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	base := choreo.DefaultConfig()
	if *tuningFile != "" {
		tc, err := config.LoadTuningConfig(*tuningFile)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
		if base, err = tc.Apply(base); err != nil {
			log.Fatalf("Invalid tuning config: %v", err)
		}
	}
	cfg, err := sc.Config(base)
	if err != nil {
		log.Fatalf("Invalid scenario config: %v", err)
	}
	if *strategyFlag != "" {
		strategy, err := choreo.ParseStrategy(*strategyFlag)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Strategies = []choreo.Strategy{strategy}
	}

	tr := choreo.NopTrace()
	if *trace {
		tr = choreo.LogTrace("plan")
	}

	results, err := choreo.GenerateCandidates(sc.Starts, sc.Ends, cfg, tr)
	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	printResults(sc, cfg, results)

	if *outFile != "" {
		if err := exportJSON(results, *outFile); err != nil {
			log.Printf("Warning: failed to export JSON: %v", err)
		} else {
			log.Printf("Candidates exported to %s", *outFile)
		}
	}
	if *plotDir != "" {
		n, err := writePlots(results, cfg, sc.Name, *plotDir)
		if err != nil {
			log.Printf("Warning: plot output incomplete: %v", err)
		}
		log.Printf("Wrote %d plot(s) to %s", n, *plotDir)
	}
}

// loadScenario resolves a builtin name or a JSON file path.
func loadScenario(name string) (*scenario.Scenario, error) {
	if strings.HasSuffix(name, ".json") {
		return scenario.Load(name)
	}
	return scenario.ByName(name)
}

func printResults(sc *scenario.Scenario, cfg choreo.Config, results []choreo.CandidateResult) {
	fmt.Printf("\n=== %s: %d dancers, %v counts ===\n", sc.Name, len(sc.Starts), cfg.TotalCounts)
	if *bpm != 0 {
		fmt.Printf("Window: %.2fs at %v BPM\n", units.CountsToSeconds(cfg.TotalCounts, *bpm), *bpm)
	}

	for rank, res := range results {
		m := res.Metrics
		fmt.Printf("\n#%d %s (%.1fms)\n", rank+1, res.Strategy, res.PlanMillis)
		fmt.Printf("  Collisions: %d  Crossings: %d\n", m.CollisionCount, m.CrossingCount)
		fmt.Printf("  Scores: symmetry %.1f, smoothness %.1f, sync %.1f\n",
			m.SymmetryScore, m.SmoothnessScore, m.SimultaneousArrival)
		fmt.Printf("  Travel: %.2fm total, max delay %.2f counts\n", m.TotalDistance, m.MaxDelay)
	}

	if len(results) > 0 && results[0].Metrics.CollisionCount == 0 {
		fmt.Printf("\nBest: %s, collision free\n", results[0].Strategy)
	} else if len(results) > 0 {
		fmt.Printf("\nBest: %s, %d collision(s) remain\n",
			results[0].Strategy, results[0].Metrics.CollisionCount)
	}
}

func exportJSON(results []choreo.CandidateResult, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// writePlots renders one PNG per candidate, named by rank and strategy.
func writePlots(results []choreo.CandidateResult, cfg choreo.Config, name, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create plot dir: %w", err)
	}
	written := 0
	for rank, res := range results {
		png, err := monitor.RenderPathsPNG(res.Paths, cfg, fmt.Sprintf("%s: %s", name, res.Strategy))
		if err != nil {
			return written, fmt.Errorf("candidate %s: %w", res.ID, err)
		}
		file := filepath.Join(dir, fmt.Sprintf("%02d_%s.png", rank+1, res.Strategy))
		if err := os.WriteFile(file, png, 0644); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
