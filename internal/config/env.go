package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment overrides. Values from the process environment win over
// values read from .env, which godotenv never overwrites.
const (
	EnvListen          = "VISUALIZER_LISTEN"
	EnvLogLevel        = "VISUALIZER_LOG_LEVEL"
	EnvSeed            = "VISUALIZER_SEED"
	EnvNodeCount       = "VISUALIZER_NODE_COUNT"
	EnvStepDelay       = "VISUALIZER_STEP_DELAY"
	EnvAStarAdmissible = "VISUALIZER_ASTAR_ADMISSIBLE"
)

// loadDotEnv reads path into the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvListen); ok && v != "" {
		c.Server.Listen = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSeed, v, err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvNodeCount); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvNodeCount, v, err)
		}
		c.Graph.NodeCount = n
	}
	if v, ok := os.LookupEnv(EnvStepDelay); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvStepDelay, v, err)
		}
		c.Search.StepDelay = Duration(d)
	}
	if v, ok := os.LookupEnv(EnvAStarAdmissible); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvAStarAdmissible, v, err)
		}
		c.Search.AStarAdmissible = b
	}
	return nil
}
