// Package config provides the selector engine's operating configuration:
// logging verbosity, validation disposition, per-observatory class-list
// defaults, and the special-case warning threshold. It never configures
// or parses rule trees themselves — those are constructed directly
// through the selector package's API, keeping rule-file syntax out of
// scope.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Disposition selects how selector.Validate reports collected problems,
// matching three validation dispositions.
type Disposition string

const (
	// DispositionRaise stops at the first validation failure.
	DispositionRaise Disposition = "raise"
	// DispositionCollect gathers every failure into a MultiError and
	// logs warnings as it goes ("trap_exceptions = true" behavior).
	DispositionCollect Disposition = "collect"
	// DispositionDebug behaves like DispositionRaise but preserves the
	// originating stack by never wrapping the error further.
	DispositionDebug Disposition = "debug"
)

// LoggingConfig controls the log package's verbosity and colorization.
type LoggingConfig struct {
	Level string `yaml:"level" default:"warn"`
	Color bool   `yaml:"color" default:"true"`
}

// ValidationConfig controls how Validate and the special-case
// detector behave.
type ValidationConfig struct {
	Disposition           Disposition `yaml:"disposition" default:"raise"`
	SpecialCaseThreshold   int        `yaml:"special_case_threshold" default:"0"`
}

// EngineConfig is the complete configuration surface for an embedding
// application. It is deliberately small: the engine itself is a pure
// decision function, so there is no engine tuning knob
// beyond how strictly it validates and how loudly it logs.
type EngineConfig struct {
	Logging    LoggingConfig        `yaml:"logging"`
	Validation ValidationConfig     `yaml:"validation"`
	ClassList  map[string][]string  `yaml:"class_list"`
}

// Default returns the zero-config fallback: warn-level colored logging,
// raise-on-first-error validation, and the HST/JWST class-list defaults.
func Default() *EngineConfig {
	return &EngineConfig{
		Logging: LoggingConfig{Level: "warn", Color: true},
		Validation: ValidationConfig{
			Disposition:          DispositionRaise,
			SpecialCaseThreshold: 0,
		},
		ClassList: map[string][]string{
			"hst":  {"Match", "UseAfter"},
			"jwst": {"Match"},
		},
	}
}

// Load reads an EngineConfig from a YAML file, filling in defaults for
// anything unset. Config files are a thin, optional ambient concern —
// most embedders will call Default() directly.
func Load(path string) (*EngineConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.ClassList == nil {
		cfg.ClassList = Default().ClassList
	}
	return cfg, nil
}

// ClassListFor returns the configured class list for an observatory
// name, falling back to the JWST-style single-level default when the
// observatory is unrecognized.
func (c *EngineConfig) ClassListFor(observatory string) []string {
	if classes, ok := c.ClassList[observatory]; ok {
		return classes
	}
	return []string{"Match"}
}
