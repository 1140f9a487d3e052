package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lipidkey.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.Detection.PPMTolerance)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.GreaterOrEqual(t, cfg.Run.Threads, 1)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[detection]
ppm_tolerance = 5

[adducts]
positive = "positive.csv"

[filter]
top_n = 20
cutoff = 1.5

[logging]
level = "debug"

[run]
threads = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Detection.PPMTolerance)
	assert.Equal(t, "positive.csv", cfg.Adducts.Positive)
	assert.Empty(t, cfg.Adducts.Negative)
	assert.Equal(t, 20, cfg.Filter.TopN)
	assert.Equal(t, 1.5, cfg.Filter.Cutoff)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format, "absent keys keep defaults")
	assert.Equal(t, 2, cfg.Run.Threads)
	assert.NoError(t, cfg.Validate())

	pf := cfg.PeakFilter()
	assert.Equal(t, 20, pf.TopN)
	assert.Equal(t, 1.5, pf.IntensityCutoff)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[detection\nppm_tolerance = "))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LIPIDKEY_PPM_TOLERANCE", "3")
	t.Setenv("LIPIDKEY_NEGATIVE_ADDUCTS", "neg.yaml")
	t.Setenv("LIPIDKEY_CUTOFF", "2.5")
	t.Setenv("LIPIDKEY_LOG_FORMAT", "json")
	t.Setenv("LIPIDKEY_THREADS", "4")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 3, cfg.Detection.PPMTolerance)
	assert.Equal(t, "neg.yaml", cfg.Adducts.Negative)
	assert.Equal(t, 2.5, cfg.Filter.Cutoff)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Run.Threads)
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("LIPIDKEY_TOP_N", "many")
	assert.Error(t, Default().ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative ppm", func(c *Config) { c.Detection.PPMTolerance = -1 }},
		{"cutoff above 100", func(c *Config) { c.Filter.Cutoff = 150 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"no threads", func(c *Config) { c.Run.Threads = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
