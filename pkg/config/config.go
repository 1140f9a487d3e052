// Package config loads LipidKey run configuration from TOML and the environment
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/ChrisMcGann/LipidKey/pkg/adduct"
	"github.com/ChrisMcGann/LipidKey/pkg/filter"
	"github.com/ChrisMcGann/LipidKey/pkg/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "LIPIDKEY_"

type DetectionConfig struct {
	PPMTolerance int `toml:"ppm_tolerance"`
}

// AdductsConfig names optional custom adduct table files (.csv, .yaml or .yml).
// An empty path keeps the built-in table.
type AdductsConfig struct {
	Positive string `toml:"positive"`
	Negative string `toml:"negative"`
}

type FilterConfig struct {
	TopN         int     `toml:"top_n"`
	Cutoff       float64 `toml:"cutoff"`
	MinIntensity float64 `toml:"min_intensity"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type RunConfig struct {
	Threads int `toml:"threads"`
}

type Config struct {
	Detection DetectionConfig `toml:"detection"`
	Adducts   AdductsConfig   `toml:"adducts"`
	Filter    FilterConfig    `toml:"filter"`
	Logging   LoggingConfig   `toml:"logging"`
	Run       RunConfig       `toml:"run"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{PPMTolerance: adduct.DefaultPPMTolerance},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Run:       RunConfig{Threads: runtime.NumCPU()},
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides values from LIPIDKEY_* environment variables
func (c *Config) ApplyEnv() error {
	if err := envInt("PPM_TOLERANCE", &c.Detection.PPMTolerance); err != nil {
		return err
	}
	envString("POSITIVE_ADDUCTS", &c.Adducts.Positive)
	envString("NEGATIVE_ADDUCTS", &c.Adducts.Negative)
	if err := envInt("TOP_N", &c.Filter.TopN); err != nil {
		return err
	}
	if err := envFloat("CUTOFF", &c.Filter.Cutoff); err != nil {
		return err
	}
	if err := envFloat("MIN_INTENSITY", &c.Filter.MinIntensity); err != nil {
		return err
	}
	envString("LOG_LEVEL", &c.Logging.Level)
	envString("LOG_FORMAT", &c.Logging.Format)
	return envInt("THREADS", &c.Run.Threads)
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	if c.Detection.PPMTolerance < 0 {
		return fmt.Errorf("ppm tolerance must be non-negative, got %d", c.Detection.PPMTolerance)
	}
	if err := c.PeakFilter().Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format '%s', must be text or json", c.Logging.Format)
	}
	if c.Run.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Run.Threads)
	}
	return nil
}

// PeakFilter returns the peak filter described by the [filter] section
func (c *Config) PeakFilter() *filter.Config {
	return &filter.Config{
		TopN:            c.Filter.TopN,
		IntensityCutoff: c.Filter.Cutoff,
		MinIntensity:    c.Filter.MinIntensity,
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s '%s': %w", EnvPrefix, key, v, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s%s '%s': %w", EnvPrefix, key, v, err)
	}
	*dst = f
	return nil
}
