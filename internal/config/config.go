// Package config loads visualizer settings.
//
// Config file locations (priority order):
//  1. $VISUALIZER_CONFIG
//  2. ./visualizer.yaml
//
// A .env file in the working directory is read first; VISUALIZER_* variables
// override values from the YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mattulau/Algo-Visualizer/internal/generator"
	"github.com/mattulau/Algo-Visualizer/internal/geometry"
)

const (
	// EnvConfigPath names the variable holding an explicit config path
	EnvConfigPath = "VISUALIZER_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "visualizer.yaml"
)

var (
	ErrInvalidListen = errors.New("config: listen address is empty")
	ErrInvalidDelay  = errors.New("config: step delay must be non-negative")
)

// Config is the root of visualizer.yaml
type Config struct {
	Graph  GraphConfig  `yaml:"graph"`
	Search SearchConfig `yaml:"search"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`

	// Seed fixes the random source. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// GraphConfig controls generation and manual editing
type GraphConfig struct {
	NodeCount       int                   `yaml:"node_count"`
	NodeSize        float64               `yaml:"node_size"`
	Canvas          geometry.Canvas       `yaml:"canvas"`
	MinSeparation   float64               `yaml:"min_separation"`
	MinDegree       int                   `yaml:"min_degree"`
	MaxDegree       int                   `yaml:"max_degree"`
	MaxDistance     float64               `yaml:"max_distance"`
	SpanningWeights generator.WeightRange `yaml:"spanning_weights"`
	ExtraWeights    generator.WeightRange `yaml:"extra_weights"`
	ManualWeights   generator.WeightRange `yaml:"manual_weights"`
}

// SearchConfig controls playback and A* behaviour
type SearchConfig struct {
	StepDelay Duration `yaml:"step_delay"`
	// AStarAdmissible scales the A* heuristic by the graph's smallest
	// weight/length ratio so it never overestimates.
	AStarAdmissible bool `yaml:"astar_admissible"`
}

// ServerConfig configures the HTTP transport
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration is a time.Duration written as "250ms" in YAML
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the value as a time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load finds and loads the config file, or returns defaults if none found.
// The .env file and VISUALIZER_* overrides are applied in both cases.
func Load() (*Config, string, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, "", err
	}

	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", cfg.Validate()
	}

	cfg, path, err := LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	return cfg, path, cfg.Validate()
}

// LoadFromPath loads config from a specific path. Keys missing from the file
// keep their default values.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, path, nil
}

// FindConfigPath returns the first existing config file, or ""
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}
	if fileExists(ConfigFileName) {
		return ConfigFileName
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DefaultConfig returns the default canvas settings
func DefaultConfig() *Config {
	gen := generator.DefaultOptions()
	return &Config{
		Graph: GraphConfig{
			NodeCount:       gen.Count,
			NodeSize:        gen.NodeSize,
			Canvas:          gen.Canvas,
			MinSeparation:   gen.MinSeparation,
			MinDegree:       gen.MinDegree,
			MaxDegree:       gen.MaxDegree,
			MaxDistance:     gen.MaxDistance,
			SpanningWeights: gen.SpanningWeights,
			ExtraWeights:    gen.ExtraWeights,
			ManualWeights:   generator.WeightRange{Min: 1, Max: 10},
		},
		Search: SearchConfig{
			StepDelay: Duration(50 * time.Millisecond),
		},
		Server: ServerConfig{Listen: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// applyDefaults fills in values a file may have blanked
func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Graph.ManualWeights == (generator.WeightRange{}) {
		c.Graph.ManualWeights = generator.WeightRange{Min: 1, Max: 10}
	}
}

// Validate checks the settings that generation does not check itself
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return ErrInvalidListen
	}
	if c.Search.StepDelay < 0 {
		return fmt.Errorf("step_delay=%s: %w", c.Search.StepDelay.Duration(), ErrInvalidDelay)
	}
	if !c.Graph.ManualWeights.Valid() {
		return fmt.Errorf("manual_weights [%d,%d]: %w",
			c.Graph.ManualWeights.Min, c.Graph.ManualWeights.Max, generator.ErrBadWeightRange)
	}
	opts := c.GeneratorOptions()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	return nil
}

// GeneratorOptions converts the graph section into generator options
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		Count:           c.Graph.NodeCount,
		NodeSize:        c.Graph.NodeSize,
		MinSeparation:   c.Graph.MinSeparation,
		Canvas:          c.Graph.Canvas,
		MinDegree:       c.Graph.MinDegree,
		MaxDegree:       c.Graph.MaxDegree,
		MaxDistance:     c.Graph.MaxDistance,
		SpanningWeights: c.Graph.SpanningWeights,
		ExtraWeights:    c.Graph.ExtraWeights,
	}
}
