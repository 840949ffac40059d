package main

import (
	"time"

	"github.com/avargasm/edgebot/config"
	"github.com/avargasm/edgebot/internal/adapters/binance"
	"github.com/avargasm/edgebot/internal/adapters/notify"
	"github.com/avargasm/edgebot/internal/adapters/polymarket"
	"github.com/avargasm/edgebot/internal/adapters/storage"
	"github.com/avargasm/edgebot/internal/engine"
	"github.com/avargasm/edgebot/internal/risk"
	"github.com/avargasm/edgebot/internal/strategy"
)

// buildFairValue wires the fair-value engine.
func buildFairValue(
	cfg *config.Config,
	client *polymarket.Client,
	executor *polymarket.TradingClient,
	notifier *notify.Console,
	journal *storage.SQLiteJournal,
	startBalance float64,
	paper bool,
) *engine.Engine {
	f := cfg.FairValue

	eval := strategy.NewFairValue(
		binance.NewClient(cfg.API.BinanceBase),
		polymarket.NewQuoteClient(client, f.Series),
		strategy.FairValueConfig{
			Coins:     f.Coins,
			Lookback:  f.Lookback,
			MinEdge:   f.MinEdge,
			MaxSpread: f.MaxSpread,
		},
	)

	sizer := engine.FlatSizer{
		SizeUSD:    f.SizeUSD,
		UsePercent: f.UsePercentSizing,
		Percent:    f.PercentSize,
	}

	gate := risk.New(risk.Config{
		StartingBalance:      startBalance,
		MinBalance:           cfg.Risk.MinBalance,
		MaxDailyLoss:         cfg.Risk.MaxDailyLoss,
		MaxConsecutiveLosses: cfg.Risk.MaxConsecutiveLosses,
		MaxConsecutiveErrors: cfg.Risk.MaxConsecutiveErrors,
	})

	return engine.New(
		engine.Config{
			PollInterval:    cfg.FairValuePollInterval(),
			BootstrapWindow: time.Duration(f.BootstrapSeconds) * time.Second,
			WindowLength:    time.Duration(f.WindowSeconds) * time.Second,
			MaxPerWindow:    f.MaxTradesPerWindow,
			Simulate:        paper,
		},
		eval,
		sizer,
		gate,
		engine.NewDispatcher(executor, paper, eval.Name()),
		notifier,
		journal,
	)
}
