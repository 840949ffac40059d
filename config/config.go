// Package config loads and validates the trader configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete trader configuration. Treated as immutable
// after Load returns: nothing mutates it at runtime.
type Config struct {
	Strategy  string          `yaml:"strategy"` // mirror | fairvalue | both
	Log       LogConfig       `yaml:"log"`
	API       APIConfig       `yaml:"api"`
	Journal   JournalConfig   `yaml:"journal"`
	Risk      RiskConfig      `yaml:"risk"`
	Mirror    MirrorConfig    `yaml:"mirror"`
	FairValue FairValueConfig `yaml:"fairvalue"`
}

// LogConfig controls log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// APIConfig holds the API base URLs. Empty values fall back to
// production inside the adapters.
type APIConfig struct {
	DataBase    string `yaml:"data_base"`
	GammaBase   string `yaml:"gamma_base"`
	CLOBBase    string `yaml:"clob_base"`
	BinanceBase string `yaml:"binance_base"`
	PolygonRPC  string `yaml:"polygon_rpc"`
}

// JournalConfig controls trade persistence.
type JournalConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// RiskConfig holds the risk gate limits, shared by both strategies.
type RiskConfig struct {
	StartingBalance      float64 `yaml:"starting_balance"`
	MinBalance           float64 `yaml:"min_balance"`
	MaxDailyLoss         float64 `yaml:"max_daily_loss"`
	MaxConsecutiveLosses int     `yaml:"max_consecutive_losses"`
	MaxConsecutiveErrors int     `yaml:"max_consecutive_errors"`
}

// MirrorConfig controls the copy-trading strategy.
type MirrorConfig struct {
	Source            string  `yaml:"source"` // wallet address or @handle
	PollSeconds       int     `yaml:"poll_seconds"`
	SizeMode          string  `yaml:"size_mode"` // percent | fixed
	MyBalanceUSDC     float64 `yaml:"my_balance_usdc"`
	SourceBalanceUSDC float64 `yaml:"source_balance_usdc"`
	FixedOrderUSDC    float64 `yaml:"fixed_order_usdc"`
	MaxOrderUSDC      float64 `yaml:"max_order_usdc"` // 0 = no cap
	MinPrice          float64 `yaml:"min_price"`
	MaxPrice          float64 `yaml:"max_price"`
	BootstrapSeconds  int     `yaml:"bootstrap_seconds"`
	ActivityLimit     int     `yaml:"activity_limit"`
}

// FairValueConfig controls the fair-value strategy.
type FairValueConfig struct {
	Coins              []string          `yaml:"coins"`
	Series             map[string]string `yaml:"series"` // coin → gamma series slug
	PollSeconds        int               `yaml:"poll_seconds"`
	SizeUSD            float64           `yaml:"size_usd"`
	UsePercentSizing   bool              `yaml:"use_percent_sizing"`
	PercentSize        float64           `yaml:"percent_size"`
	MinEdge            float64           `yaml:"min_edge"`
	MaxSpread          float64           `yaml:"max_spread"`
	Lookback           int               `yaml:"lookback"`
	MaxTradesPerWindow int               `yaml:"max_trades_per_window"`
	WindowSeconds      int               `yaml:"window_seconds"`
	BootstrapSeconds   int               `yaml:"bootstrap_seconds"`
}

// Load reads the YAML config and the .env file if present, applies env
// overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	// Load .env if present (silences the error when there is none)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// PrivateKey returns the trading wallet key from the environment. It is
// never read from YAML.
func PrivateKey() string {
	return os.Getenv("POLY_PRIVATE_KEY")
}

// ScaleFactor returns the percent-mode sizing ratio, computed once
// from the configured reference balances. Zero in fixed mode, where
// the balances are legitimately unset.
func (m MirrorConfig) ScaleFactor() float64 {
	if m.SizeMode != "percent" || m.SourceBalanceUSDC <= 0 {
		return 0
	}
	return m.MyBalanceUSDC / m.SourceBalanceUSDC
}

// MirrorPollInterval returns the mirror poll cadence.
func (c *Config) MirrorPollInterval() time.Duration {
	return time.Duration(c.Mirror.PollSeconds) * time.Second
}

// FairValuePollInterval returns the fair-value poll cadence.
func (c *Config) FairValuePollInterval() time.Duration {
	return time.Duration(c.FairValue.PollSeconds) * time.Second
}

// Validate rejects configurations that would trade on nonsense limits.
func (c *Config) Validate() error {
	switch c.Strategy {
	case "mirror", "fairvalue", "both":
	default:
		return fmt.Errorf("strategy must be mirror, fairvalue or both, got %q", c.Strategy)
	}

	if c.Risk.StartingBalance <= 0 {
		return fmt.Errorf("risk.starting_balance must be positive, got %g", c.Risk.StartingBalance)
	}
	if c.Risk.MinBalance < 0 {
		return fmt.Errorf("risk.min_balance must not be negative, got %g", c.Risk.MinBalance)
	}
	if c.Risk.MaxDailyLoss <= 0 {
		return fmt.Errorf("risk.max_daily_loss must be positive, got %g", c.Risk.MaxDailyLoss)
	}
	if c.Risk.MaxConsecutiveLosses <= 0 {
		return fmt.Errorf("risk.max_consecutive_losses must be positive, got %d", c.Risk.MaxConsecutiveLosses)
	}
	if c.Risk.MaxConsecutiveErrors <= 0 {
		return fmt.Errorf("risk.max_consecutive_errors must be positive, got %d", c.Risk.MaxConsecutiveErrors)
	}

	if c.Strategy == "mirror" || c.Strategy == "both" {
		if err := c.validateMirror(); err != nil {
			return err
		}
	}
	if c.Strategy == "fairvalue" || c.Strategy == "both" {
		if err := c.validateFairValue(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateMirror() error {
	m := c.Mirror
	if m.Source == "" {
		return fmt.Errorf("mirror.source is required")
	}
	switch m.SizeMode {
	case "percent":
		if m.MyBalanceUSDC <= 0 || m.SourceBalanceUSDC <= 0 {
			return fmt.Errorf("mirror percent sizing needs positive balances, got my=%g source=%g",
				m.MyBalanceUSDC, m.SourceBalanceUSDC)
		}
	case "fixed":
		if m.FixedOrderUSDC <= 0 {
			return fmt.Errorf("mirror.fixed_order_usdc must be positive, got %g", m.FixedOrderUSDC)
		}
	default:
		return fmt.Errorf("mirror.size_mode must be percent or fixed, got %q", m.SizeMode)
	}
	if m.MaxOrderUSDC < 0 {
		return fmt.Errorf("mirror.max_order_usdc must not be negative, got %g", m.MaxOrderUSDC)
	}
	if m.MinPrice >= m.MaxPrice {
		return fmt.Errorf("mirror price band is inverted: [%g, %g]", m.MinPrice, m.MaxPrice)
	}
	if m.MinPrice <= 0 || m.MaxPrice > 1 {
		return fmt.Errorf("mirror price band must stay within (0, 1], got [%g, %g]", m.MinPrice, m.MaxPrice)
	}
	return nil
}

func (c *Config) validateFairValue() error {
	f := c.FairValue
	if len(f.Coins) == 0 {
		return fmt.Errorf("fairvalue.coins is required")
	}
	for _, coin := range f.Coins {
		if f.Series[coin] == "" {
			return fmt.Errorf("fairvalue.series is missing a slug for coin %q", coin)
		}
	}
	if f.SizeUSD <= 0 && !f.UsePercentSizing {
		return fmt.Errorf("fairvalue.size_usd must be positive, got %g", f.SizeUSD)
	}
	if f.UsePercentSizing && (f.PercentSize <= 0 || f.PercentSize > 100) {
		return fmt.Errorf("fairvalue.percent_size must be in (0, 100], got %g", f.PercentSize)
	}
	if f.MinEdge <= 0 {
		return fmt.Errorf("fairvalue.min_edge must be positive, got %g", f.MinEdge)
	}
	if f.MaxSpread <= 0 {
		return fmt.Errorf("fairvalue.max_spread must be positive, got %g", f.MaxSpread)
	}
	if f.Lookback < 2 {
		return fmt.Errorf("fairvalue.lookback must be at least 2 candles, got %d", f.Lookback)
	}
	return nil
}

// applyEnvOverrides lets the environment override selected keys.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MIRROR_SOURCE"); v != "" {
		cfg.Mirror.Source = v
	}
	if v := os.Getenv("POLYGON_RPC"); v != "" {
		cfg.API.PolygonRPC = v
	}
}

// setDefaults fills in sensible values for everything optional.
func setDefaults(cfg *Config) {
	if cfg.Strategy == "" {
		cfg.Strategy = "mirror"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.API.PolygonRPC == "" {
		cfg.API.PolygonRPC = "https://polygon-rpc.com"
	}
	if cfg.Journal.DSN == "" {
		cfg.Journal.DSN = "edgebot.db"
	}

	if cfg.Risk.MaxConsecutiveLosses <= 0 {
		cfg.Risk.MaxConsecutiveLosses = 3
	}
	if cfg.Risk.MaxConsecutiveErrors <= 0 {
		cfg.Risk.MaxConsecutiveErrors = 5
	}

	m := &cfg.Mirror
	if m.PollSeconds <= 0 {
		m.PollSeconds = 10
	}
	if m.SizeMode == "" {
		m.SizeMode = "percent"
	}
	if m.MinPrice == 0 {
		m.MinPrice = 0.01
	}
	if m.MaxPrice == 0 {
		m.MaxPrice = 0.99
	}
	if m.BootstrapSeconds <= 0 {
		m.BootstrapSeconds = 300
	}
	if m.ActivityLimit <= 0 {
		m.ActivityLimit = 100
	}

	f := &cfg.FairValue
	if len(f.Coins) == 0 {
		f.Coins = []string{"BTC", "ETH", "SOL", "XRP"}
	}
	if f.Series == nil {
		f.Series = defaultSeries()
	}
	if f.PollSeconds <= 0 {
		f.PollSeconds = 30
	}
	if f.SizeUSD <= 0 && !f.UsePercentSizing {
		f.SizeUSD = 1
	}
	if f.MinEdge <= 0 {
		f.MinEdge = 0.05
	}
	if f.MaxSpread <= 0 {
		f.MaxSpread = 0.10
	}
	if f.Lookback < 2 {
		f.Lookback = 15
	}
	if f.MaxTradesPerWindow <= 0 {
		f.MaxTradesPerWindow = 2
	}
	if f.WindowSeconds <= 0 {
		f.WindowSeconds = 900
	}
	if f.BootstrapSeconds <= 0 {
		f.BootstrapSeconds = 120
	}
}

func defaultSeries() map[string]string {
	return map[string]string{
		"BTC": "btc-up-or-down-15-minute",
		"ETH": "eth-up-or-down-15-minute",
		"SOL": "sol-up-or-down-15-minute",
		"XRP": "xrp-up-or-down-15-minute",
	}
}
