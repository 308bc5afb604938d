// Package scenario defines named formation-change problems: a start
// formation, an end formation, and optional planner tuning. Scenarios are
// the unit of work for the bench tool and the seed data for the API's
// example endpoints.
package scenario

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/wldnjs95/choreoflow/internal/choreo"
	"github.com/wldnjs95/choreoflow/internal/config"
)

// Scenario is one formation change to plan. Starts and Ends are parallel
// lists; index i is dancer i in both.
type Scenario struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Starts      []choreo.Position `json:"starts"`
	Ends        []choreo.Position `json:"ends"`

	// Tuning optionally overrides planner configuration for this scenario
	// only. Nil means the caller's base config is used untouched.
	Tuning *config.TuningConfig `json:"config,omitempty"`
}

// Validate rejects scenarios the planner cannot accept.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(s.Starts) == 0 {
		return fmt.Errorf("scenario %q has no dancers", s.Name)
	}
	if len(s.Starts) != len(s.Ends) {
		return fmt.Errorf("scenario %q: %d starts but %d ends", s.Name, len(s.Starts), len(s.Ends))
	}
	for i, p := range s.Starts {
		if !finite(p) {
			return fmt.Errorf("scenario %q: start %d is not finite", s.Name, i)
		}
	}
	for i, p := range s.Ends {
		if !finite(p) {
			return fmt.Errorf("scenario %q: end %d is not finite", s.Name, i)
		}
	}
	if s.Tuning != nil {
		if err := s.Tuning.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return nil
}

func finite(p choreo.Position) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Config resolves the effective planner configuration for this scenario by
// applying its tuning overlay, if any, to base.
func (s *Scenario) Config(base choreo.Config) (choreo.Config, error) {
	if s.Tuning == nil {
		return base, nil
	}
	return s.Tuning.Apply(base)
}

// Load reads a scenario from a JSON file. The same size and extension
// checks apply as for tuning files.
func Load(path string) (*Scenario, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("scenario file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scenario file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("scenario file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	if s.Name == "" {
		// Fall back to the file name so hand-written files can skip it.
		s.Name = baseName(cleanPath)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func baseName(path string) string {
	b := filepath.Base(path)
	return b[:len(b)-len(filepath.Ext(b))]
}

// Save writes the scenario to a JSON file, indented for hand editing.
func (s *Scenario) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
