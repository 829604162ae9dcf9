package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
policy: out/policy.json
train:
  episodes: 5000
  epsilon: 0.2
  seed: 42
server:
  addr: ":9000"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "out/policy.json", cfg.Policy)
	require.Equal(t, 5000, cfg.Train.Episodes)
	require.Equal(t, 0.2, cfg.Train.Epsilon)
	require.Equal(t, uint64(42), cfg.Train.Seed)
	require.Equal(t, ":9000", cfg.Server.Addr)

	// untouched fields keep their defaults
	require.Equal(t, 0.1, cfg.Train.Alpha)
	require.Equal(t, 0.9, cfg.Train.Gamma)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("train: [1, 2"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Policy = ""
	cfg.Train.Episodes = 0
	cfg.Train.Alpha = 0
	cfg.Train.Epsilon = 1.5
	cfg.Train.Gamma = 2

	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 5)
}
