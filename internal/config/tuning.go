// Package config loads optional JSON tuning overlays for the planner
// configuration. An overlay is a partial document: only the fields it names
// are changed, everything else keeps the value of the config it is applied
// to. The schema matches choreo.Config's JSON form so the same document
// works as a startup file and as the config block of an API request.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wldnjs95/choreoflow/internal/choreo"
)

// TuningConfig is a partial planner configuration. Nil fields are "not set".
type TuningConfig struct {
	TotalCounts        *float64 `json:"total_counts,omitempty"`
	CollisionRadius    *float64 `json:"collision_radius,omitempty"`
	StageWidth         *float64 `json:"stage_width,omitempty"`
	StageHeight        *float64 `json:"stage_height,omitempty"`
	GridResolution     *float64 `json:"grid_resolution,omitempty"`
	TimeResolution     *float64 `json:"time_resolution,omitempty"`
	CollisionCheckStep *float64 `json:"collision_check_step,omitempty"`
	TimeStep           *float64 `json:"time_step,omitempty"`
	NumPoints          *int     `json:"num_points,omitempty"`
	MaxSpeed           *float64 `json:"max_speed,omitempty"`
	MaxIterations      *int     `json:"max_iterations,omitempty"`
	CBSMaxExpansions   *int     `json:"cbs_max_expansions,omitempty"`
	RepairIterations   *int     `json:"repair_iterations,omitempty"`
	SyncMode           *string  `json:"sync_mode,omitempty"`
	AssignMode         *string  `json:"assign_mode,omitempty"`

	// Strategies replaces the planner list wholesale when present; there is
	// no per-entry merge.
	Strategies []string `json:"strategies,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// ParseTuningConfig parses a JSON overlay document and validates it against
// the default planner configuration. API handlers use this directly for the
// config block of request payloads.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain the values of the
// config the overlay is later applied to, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseTuningConfig(data)
}

// Validate checks that applying the overlay to the default configuration
// yields a config the planner accepts. A tuning file must not be able to
// smuggle in values choreo.Config.Validate rejects.
func (c *TuningConfig) Validate() error {
	_, err := c.Apply(choreo.DefaultConfig())
	return err
}

// Apply overlays the set fields onto base and returns the validated result.
// Base is not modified.
func (c *TuningConfig) Apply(base choreo.Config) (choreo.Config, error) {
	out := base
	if c.TotalCounts != nil {
		out.TotalCounts = *c.TotalCounts
	}
	if c.CollisionRadius != nil {
		out.CollisionRadius = *c.CollisionRadius
	}
	if c.StageWidth != nil {
		out.StageWidth = *c.StageWidth
	}
	if c.StageHeight != nil {
		out.StageHeight = *c.StageHeight
	}
	if c.GridResolution != nil {
		out.GridResolution = *c.GridResolution
	}
	if c.TimeResolution != nil {
		out.TimeResolution = *c.TimeResolution
	}
	if c.CollisionCheckStep != nil {
		out.CollisionCheckStep = *c.CollisionCheckStep
	}
	if c.TimeStep != nil {
		out.TimeStep = *c.TimeStep
	}
	if c.NumPoints != nil {
		out.NumPoints = *c.NumPoints
	}
	if c.MaxSpeed != nil {
		out.MaxSpeed = *c.MaxSpeed
	}
	if c.MaxIterations != nil {
		out.MaxIterations = *c.MaxIterations
	}
	if c.CBSMaxExpansions != nil {
		out.CBSMaxExpansions = *c.CBSMaxExpansions
	}
	if c.RepairIterations != nil {
		out.RepairIterations = *c.RepairIterations
	}
	if c.SyncMode != nil {
		out.SyncMode = choreo.SyncMode(*c.SyncMode)
	}
	if c.AssignMode != nil {
		out.AssignMode = choreo.AssignMode(*c.AssignMode)
	}
	if c.Strategies != nil {
		strategies := make([]choreo.Strategy, 0, len(c.Strategies))
		for _, name := range c.Strategies {
			s, err := choreo.ParseStrategy(name)
			if err != nil {
				return choreo.Config{}, err
			}
			strategies = append(strategies, s)
		}
		out.Strategies = strategies
	}
	if err := out.Validate(); err != nil {
		return choreo.Config{}, err
	}
	return out, nil
}
