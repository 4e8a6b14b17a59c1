package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/cutflow/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("n_bins: 40\ntopology: sequential\nplot_dir: plots\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.NBins)
	assert.Equal(t, "sequential", cfg.Topology)
	assert.Equal(t, "plots", cfg.PlotDir)
	assert.Equal(t, LossCrossEntropy, cfg.Loss)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("n_bins: [1\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cutflow.yaml")
	cfg := Default()
	cfg.NBins = 64
	cfg.Loss = LossBalanced
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CUTFLOW_LOG_LEVEL", "debug")
	t.Setenv("CUTFLOW_WORKERS", "4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Workers)

	t.Setenv("CUTFLOW_WORKERS", "many")
	_, err = Load("")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"n_bins":   func(c *Config) { c.NBins = 1 },
		"topology": func(c *Config) { c.Topology = "diagonal" },
		"loss":     func(c *Config) { c.Loss = "hinge" },
		"workers":  func(c *Config) { c.Workers = 0 },
	}
	for param, mutate := range tests {
		t.Run(param, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			var valErr *errors.ValidationError
			require.True(t, errors.As(cfg.Validate(), &valErr))
			assert.Equal(t, param, valErr.ParamName)
		})
	}
}
