// Package config loads the YAML run configuration, applies environment
// overrides and converts it into a linker.Policy.
//
// # Schema Overview
//
//	version: "1"
//	threshold: 90
//	scorer: token_sort
//	fold_diacritics: false
//	workers: 0
//	areas:
//	  path: id=24.xlsx
//	  column: Area
//	countries:
//	  path: country.xlsx
//	  long_name_column: longName_EN
//	  short_name_column: shortName_EN
//	  iso3_column: ISO3Code
//	output:
//	  path: id=24_with_fuzzy_ISO3.xlsx
//	  column: ISO3Code
//	  unresolved: unresolved.csv
//	  report: report.json
//	overrides:
//	  czechia: CZE
//
// Override keys are raw names. They are normalized and merged over the
// built-in table when the policy is built; an empty code removes an entry.
//
// # Precedence
//
//  1. Command-line flags (only when explicitly set)
//  2. Environment (COUNTRY_LINKER_*, optionally from .env)
//  3. Config file
//  4. Defaults
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"country-linker/internal/linker"
	"country-linker/internal/match"
	"country-linker/internal/normalize"
)

// ErrInvalid marks configuration that failed validation.
var ErrInvalid = errors.New("invalid config")

// Config is the full run configuration.
type Config struct {
	Version        string            `yaml:"version"`
	Threshold      int               `yaml:"threshold"`
	Scorer         string            `yaml:"scorer"`
	FoldDiacritics bool              `yaml:"fold_diacritics"`
	Workers        int               `yaml:"workers"`
	Areas          AreasConfig       `yaml:"areas"`
	Countries      CountriesConfig   `yaml:"countries"`
	Output         OutputConfig      `yaml:"output"`
	Overrides      map[string]string `yaml:"overrides,omitempty"`

	// thresholdSet keeps an explicit 0 apart from "absent".
	thresholdSet bool
}

// AreasConfig locates the labor-statistics table.
type AreasConfig struct {
	Path   string `yaml:"path"`
	Sheet  string `yaml:"sheet,omitempty"`
	Column string `yaml:"column"`
}

// CountriesConfig locates the country reference table.
type CountriesConfig struct {
	Path            string `yaml:"path"`
	Sheet           string `yaml:"sheet,omitempty"`
	LongNameColumn  string `yaml:"long_name_column"`
	ShortNameColumn string `yaml:"short_name_column"`
	ISO3Column      string `yaml:"iso3_column"`
}

// OutputConfig names the artifacts of a run.
type OutputConfig struct {
	Path       string `yaml:"path"`
	Column     string `yaml:"column"`
	Unresolved string `yaml:"unresolved,omitempty"`
	Report     string `yaml:"report,omitempty"`
}

// Default column names of the ILO and reference exports.
const (
	DefaultAreaColumn      = "Area"
	DefaultLongNameColumn  = "longName_EN"
	DefaultShortNameColumn = "shortName_EN"
	DefaultISO3Column      = "ISO3Code"
	DefaultOutputSuffix    = "_with_fuzzy_ISO3.xlsx"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Overrides: linker.DefaultOverrides()}
	applyDefaults(cfg)

	return cfg
}

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// A second pass tells an explicit "threshold: 0" from an absent key.
	var probe struct {
		Threshold *int `yaml:"threshold"`
	}
	if err := yaml.Unmarshal(data, &probe); err == nil && probe.Threshold != nil {
		cfg.thresholdSet = true
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}

	if !cfg.thresholdSet {
		cfg.Threshold = linker.DefaultThreshold
		cfg.thresholdSet = true
	}

	if cfg.Scorer == "" {
		cfg.Scorer = match.DefaultScorer
	}

	if cfg.Areas.Column == "" {
		cfg.Areas.Column = DefaultAreaColumn
	}

	if cfg.Countries.LongNameColumn == "" {
		cfg.Countries.LongNameColumn = DefaultLongNameColumn
	}

	if cfg.Countries.ShortNameColumn == "" {
		cfg.Countries.ShortNameColumn = DefaultShortNameColumn
	}

	if cfg.Countries.ISO3Column == "" {
		cfg.Countries.ISO3Column = DefaultISO3Column
	}

	if cfg.Output.Column == "" {
		cfg.Output.Column = DefaultISO3Column
	}
}

// SetThreshold sets the threshold explicitly.
func (c *Config) SetThreshold(t int) {
	c.Threshold = t
	c.thresholdSet = true
}

// OutputPath returns the augmented-table path, deriving it from the areas
// path when unset ("id=24.xlsx" -> "id=24_with_fuzzy_ISO3.xlsx").
func (c *Config) OutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}

	if c.Areas.Path == "" {
		return ""
	}

	base := strings.TrimSuffix(c.Areas.Path, filepath.Ext(c.Areas.Path))

	return base + DefaultOutputSuffix
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var problems []string

	if c.Threshold < 0 || c.Threshold > match.MaxScore {
		problems = append(problems, fmt.Sprintf("threshold %d outside [0, %d]", c.Threshold, match.MaxScore))
	}

	if _, err := match.ScorerByName(c.Scorer); err != nil {
		problems = append(problems, err.Error())
	}

	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers %d is negative", c.Workers))
	}

	for name, value := range map[string]string{
		"areas.column":                c.Areas.Column,
		"countries.long_name_column":  c.Countries.LongNameColumn,
		"countries.short_name_column": c.Countries.ShortNameColumn,
		"countries.iso3_column":       c.Countries.ISO3Column,
		"output.column":               c.Output.Column,
	} {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, name+" is empty")
		}
	}

	if _, err := c.mergeOverrides(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) == 0 {
		return nil
	}

	// Map iteration above is unordered.
	sort.Strings(problems)

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// RequireInputs checks that both input paths are present.
func (c *Config) RequireInputs() error {
	var missing []string

	if strings.TrimSpace(c.Areas.Path) == "" {
		missing = append(missing, "areas.path")
	}

	if strings.TrimSpace(c.Countries.Path) == "" {
		missing = append(missing, "countries.path")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
	}

	return nil
}

// Normalizer returns the key normalizer selected by the configuration.
func (c *Config) Normalizer() normalize.Func {
	return normalize.New(normalize.Options{FoldDiacritics: c.FoldDiacritics})
}

// Policy converts the configuration into a matching policy.
func (c *Config) Policy() (linker.Policy, error) {
	scorer, err := match.ScorerByName(c.Scorer)
	if err != nil {
		return linker.Policy{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	overrides, err := c.EffectiveOverrides()
	if err != nil {
		return linker.Policy{}, err
	}

	return linker.Policy{
		SimilarityThreshold: c.Threshold,
		Overrides:           overrides,
		Scorer:              scorer,
	}, nil
}

// EffectiveOverrides merges Overrides over the built-in table, keyed by the
// normalizer in effect now. An empty code removes an entry.
func (c *Config) EffectiveOverrides() (map[string]string, error) {
	merged, err := c.mergeOverrides()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return merged, nil
}

func (c *Config) mergeOverrides() (map[string]string, error) {
	norm := c.Normalizer()
	merged := linker.DefaultOverrides()
	seen := make(map[string]string, len(c.Overrides))

	for _, raw := range slices.Sorted(maps.Keys(c.Overrides)) {
		code := strings.TrimSpace(c.Overrides[raw])

		key := norm(raw)
		if key == "" {
			return nil, fmt.Errorf("override %q normalizes to an empty key", raw)
		}

		if prev, ok := seen[key]; ok && prev != code {
			return nil, fmt.Errorf("overrides for %q disagree (%q vs %q)", key, prev, code)
		}

		seen[key] = code

		if code == "" {
			delete(merged, key)
			continue
		}

		merged[key] = code
	}

	return merged, nil
}

// Marshal serializes a Config to YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteFile writes a Config to the given path.
func WriteFile(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
