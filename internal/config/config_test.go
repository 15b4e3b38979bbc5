package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.Error)
	assert.True(t, cfg.Train)
	assert.Equal(t, 0.9, cfg.Split)
	assert.Equal(t, 0.3, cfg.Momentum)
	assert.Equal(t, 0.2, cfg.Rate)
	assert.Equal(t, 1000, cfg.LogInterval)
	assert.Equal(t, []int{12, 8, 5}, cfg.Hidden)
	assert.Equal(t, uint64(1), cfg.Seed)
	assert.Equal(t, 1.0, cfg.AwayFactor)
	assert.True(t, cfg.SortClubs)
	assert.Equal(t, "default", cfg.Generator)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, "network.json", cfg.Model.Path)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GURU_SPLIT", "0.75")
	t.Setenv("GURU_MODEL_PATH", "/tmp/net.json")
	t.Setenv("GURU_LOG_JSON", "true")

	v, err := New("")
	require.NoError(t, err)
	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Split)
	assert.Equal(t, "/tmp/net.json", cfg.Model.Path)
	assert.True(t, cfg.Log.JSON)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guru.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data: matches.yaml
hidden: [16, 4]
model:
  save: true
`), 0o644))

	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, "matches.yaml", cfg.Data)
	assert.Equal(t, []int{16, 4}, cfg.Hidden)
	assert.True(t, cfg.Model.Save)
	assert.Equal(t, "network.json", cfg.Model.Path)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := map[string]any{
		"momentum":    1.5,
		"rate":        -0.1,
		"split":       0,
		"error":       0,
		"away_factor": 0,
		"folds":       1,
		"hidden":      []int{12, 0},
		"generator":   "magic",
		"log.level":   "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			v, err := New("")
			require.NoError(t, err)
			v.Set(key, value)

			_, err = Load(v)

			assert.Error(t, err)
		})
	}
}
