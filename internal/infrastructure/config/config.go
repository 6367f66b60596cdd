// Package config loads engine configuration in layers: compiled-in
// defaults, then an optional YAML file, then ROSTER_-prefixed
// environment variables. Configuration errors are fatal at startup,
// before any input is read.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/4adex/hilabs/internal/service/outlier"
	"github.com/4adex/hilabs/internal/service/quality"
	"github.com/4adex/hilabs/internal/service/scoring"
)

type Config struct {
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn error"`

	Engine  EngineConfig  `koanf:"engine"`
	Input   InputConfig   `koanf:"input"`
	Output  OutputConfig  `koanf:"output"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type EngineConfig struct {
	// DuplicateThreshold is the minimum overall similarity for a pair
	// to count as a duplicate. Range (0.0, 1.0].
	DuplicateThreshold float64 `koanf:"duplicate_threshold" validate:"gt=0,lte=1"`
	// NPIMatchThreshold gates fuzzy registry linkage; stricter than the
	// duplicate threshold. Range (0.0, 1.0].
	NPIMatchThreshold float64 `koanf:"npi_match_threshold" validate:"gt=0,lte=1"`
	// MaxBlockSize skips degenerate blocks larger than this
	MaxBlockSize int `koanf:"max_block_size" validate:"gte=2"`
	// Workers sizes the scoring fan-out pool
	Workers int `koanf:"workers" validate:"gte=1"`

	Weights scoring.Weights `koanf:"weights"`
	Outlier outlier.Config  `koanf:"outlier"`
	Quality quality.Config  `koanf:"quality"`
}

type InputConfig struct {
	Dir        string `koanf:"dir" validate:"required"`
	RosterFile string `koanf:"roster_file" validate:"required"`
	CAFile     string `koanf:"ca_file" validate:"required"`
	NYFile     string `koanf:"ny_file" validate:"required"`
	NPIFile    string `koanf:"npi_file" validate:"required"`
}

type OutputConfig struct {
	Dir         string `koanf:"dir" validate:"required"`
	FinalFile   string `koanf:"final_file" validate:"required"`
	ClusterFile string `koanf:"cluster_file" validate:"required"`
	SummaryFile string `koanf:"summary_file" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// Default returns the compiled-in configuration
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Engine: EngineConfig{
			DuplicateThreshold: 0.72,
			NPIMatchThreshold:  0.85,
			MaxBlockSize:       500,
			Workers:            4,
			Weights:            scoring.DefaultWeights(),
			Outlier:            outlier.DefaultConfig(),
			Quality:            quality.DefaultConfig(),
		},
		Input: InputConfig{
			Dir:        "data",
			RosterFile: "roster.csv",
			CAFile:     "ca.csv",
			NYFile:     "ny.csv",
			NPIFile:    "npi.csv",
		},
		Output: OutputConfig{
			Dir:         "out",
			FinalFile:   "providers_final.csv",
			ClusterFile: "clusters.json",
			SummaryFile: "summary.json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9464",
		},
	}
}

// Load builds the layered configuration. An empty path skips the file
// layer; a named file that cannot be read is a startup error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Double underscore separates nesting levels so single underscores
	// survive inside key names: ROSTER_ENGINE__MAX_BLOCK_SIZE maps to
	// engine.max_block_size
	if err := k.Load(env.Provider("ROSTER_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "ROSTER_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the documented ranges; violations are fatal at startup
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Engine.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Engine.Outlier.Validate(); err != nil {
		return err
	}
	if err := c.Engine.Quality.Validate(); err != nil {
		return err
	}
	if c.Engine.NPIMatchThreshold < c.Engine.DuplicateThreshold {
		return fmt.Errorf("invalid configuration: npi_match_threshold must not be below duplicate_threshold")
	}
	return nil
}
