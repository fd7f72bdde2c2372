package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fee:
  min_bps: 25
  max_bps: 3000
arb:
  refine_rounds: 5
  gas_price: 0.000000001
metrics:
  listen_addr: ":9091"
redis:
  addr: "localhost:6379"
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25.0, c.Fee.MinBps)
	assert.Equal(t, 3000.0, c.Fee.MaxBps)
	assert.Equal(t, 5, c.Arb.RefineRounds)
	assert.Equal(t, 1e-9, c.Arb.GasPrice)
	assert.Equal(t, ":9091", c.Metrics.ListenAddr)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)

	// unset fields fall back to defaults
	assert.Equal(t, 1.0, c.Fee.Divisor)
	assert.Equal(t, 120000.0, c.Arb.GasPerSwap)
	assert.Equal(t, "engine:arb", c.Redis.Stream)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 30.0, c.Fee.MinBps)
	assert.Equal(t, 5000.0, c.Fee.MaxBps)
	assert.Equal(t, 3, c.Arb.RefineRounds)
}
