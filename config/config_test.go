package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avargasm/edgebot/config"
)

const validYAML = `
strategy: both
log:
  level: debug
risk:
  starting_balance: 100
  min_balance: 8
  max_daily_loss: 20
mirror:
  source: "@whale"
  size_mode: percent
  my_balance_usdc: 100
  source_balance_usdc: 20000
  max_order_usdc: 10
fairvalue:
  coins: [BTC, ETH]
  min_edge: 0.05
  max_spread: 0.10
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidWithDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "both", cfg.Strategy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	// Defaults fill the gaps.
	assert.Equal(t, 10, cfg.Mirror.PollSeconds)
	assert.InDelta(t, 0.01, cfg.Mirror.MinPrice, 1e-9)
	assert.InDelta(t, 0.99, cfg.Mirror.MaxPrice, 1e-9)
	assert.Equal(t, 300, cfg.Mirror.BootstrapSeconds)
	assert.Equal(t, 2, cfg.FairValue.MaxTradesPerWindow)
	assert.Equal(t, 900, cfg.FairValue.WindowSeconds)
	assert.Equal(t, 3, cfg.Risk.MaxConsecutiveLosses)
	assert.Equal(t, 5, cfg.Risk.MaxConsecutiveErrors)
	assert.NotEmpty(t, cfg.FairValue.Series["BTC"])
	assert.Equal(t, "edgebot.db", cfg.Journal.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsBadStrategy(t *testing.T) {
	yaml := `
strategy: yolo
risk:
  starting_balance: 100
  max_daily_loss: 20
`
	_, err := config.Load(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy")
}

func TestLoad_RejectsNonPositiveBalance(t *testing.T) {
	yaml := `
strategy: fairvalue
risk:
  starting_balance: 0
  max_daily_loss: 20
`
	_, err := config.Load(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting_balance")
}

func TestLoad_RejectsInvertedPriceBand(t *testing.T) {
	yaml := `
strategy: mirror
risk:
  starting_balance: 100
  max_daily_loss: 20
mirror:
  source: "0x1234"
  size_mode: fixed
  fixed_order_usdc: 5
  min_price: 0.90
  max_price: 0.10
`
	_, err := config.Load(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price band")
}

func TestLoad_RejectsPercentModeWithoutBalances(t *testing.T) {
	yaml := `
strategy: mirror
risk:
  starting_balance: 100
  max_daily_loss: 20
mirror:
  source: "0x1234"
  size_mode: percent
`
	_, err := config.Load(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "percent sizing")
}

func TestLoad_RejectsMissingSeriesSlug(t *testing.T) {
	yaml := `
strategy: fairvalue
risk:
  starting_balance: 100
  max_daily_loss: 20
fairvalue:
  coins: [BTC, DOGE]
  series:
    BTC: btc-up-or-down-15-minute
    DOGE: ""
`
	_, err := config.Load(writeConfig(t, yaml))
	require.Error(t, err)
}

func TestMirrorScaleFactor(t *testing.T) {
	m := config.MirrorConfig{SizeMode: "percent", MyBalanceUSDC: 100, SourceBalanceUSDC: 20000}
	assert.InDelta(t, 0.005, m.ScaleFactor(), 1e-9)

	// Sub-dollar source balances divide by the real value, not a floor.
	m.SourceBalanceUSDC = 0.5
	assert.InDelta(t, 200, m.ScaleFactor(), 1e-9)

	m.SizeMode = "fixed"
	assert.Zero(t, m.ScaleFactor())
}

func TestLoad_EnvOverridesSource(t *testing.T) {
	t.Setenv("MIRROR_SOURCE", "0xenvwallet")

	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "0xenvwallet", cfg.Mirror.Source)
}

func TestLoad_MirrorOnlySkipsFairValueValidation(t *testing.T) {
	yaml := `
strategy: mirror
risk:
  starting_balance: 100
  max_daily_loss: 20
mirror:
  source: "0x1234"
  size_mode: fixed
  fixed_order_usdc: 5
`
	cfg, err := config.Load(writeConfig(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "mirror", cfg.Strategy)
}
