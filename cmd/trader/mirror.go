package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avargasm/edgebot/config"
	"github.com/avargasm/edgebot/internal/adapters/notify"
	"github.com/avargasm/edgebot/internal/adapters/polymarket"
	"github.com/avargasm/edgebot/internal/adapters/storage"
	"github.com/avargasm/edgebot/internal/engine"
	"github.com/avargasm/edgebot/internal/risk"
	"github.com/avargasm/edgebot/internal/strategy"
)

// buildMirror wires the copy-trading engine. The source handle is
// resolved to a wallet once, at startup.
func buildMirror(
	ctx context.Context,
	cfg *config.Config,
	client *polymarket.Client,
	executor *polymarket.TradingClient,
	notifier *notify.Console,
	journal *storage.SQLiteJournal,
	startBalance float64,
	paper bool,
) (*engine.Engine, error) {
	m := cfg.Mirror

	wallet, err := client.ResolveWallet(ctx, m.Source)
	if err != nil {
		return nil, fmt.Errorf("resolve mirror source: %w", err)
	}
	slog.Info("mirror source resolved", "source", m.Source, "wallet", wallet)

	eval := strategy.NewMirror(client, wallet, m.ActivityLimit, strategy.Normalizer{
		MinPrice: m.MinPrice,
		MaxPrice: m.MaxPrice,
	})

	// The percent scale is fixed here and never rescaled at runtime.
	sizer := engine.MirrorSizer{
		Percent: m.SizeMode == "percent",
		Scale:   m.ScaleFactor(),
		Fixed:   m.FixedOrderUSDC,
		HardCap: m.MaxOrderUSDC,
	}
	slog.Info("mirror sizing",
		"mode", m.SizeMode,
		"scale", fmt.Sprintf("%.6f", sizer.Scale),
		"fixed", m.FixedOrderUSDC,
		"hard_cap", m.MaxOrderUSDC,
	)

	gate := risk.New(risk.Config{
		StartingBalance:      startBalance,
		MinBalance:           cfg.Risk.MinBalance,
		MaxDailyLoss:         cfg.Risk.MaxDailyLoss,
		MaxConsecutiveLosses: cfg.Risk.MaxConsecutiveLosses,
		MaxConsecutiveErrors: cfg.Risk.MaxConsecutiveErrors,
	})

	return engine.New(
		engine.Config{
			PollInterval:    cfg.MirrorPollInterval(),
			BootstrapWindow: time.Duration(m.BootstrapSeconds) * time.Second,
			Simulate:        paper,
		},
		eval,
		sizer,
		gate,
		engine.NewDispatcher(executor, paper, eval.Name()),
		notifier,
		journal,
	), nil
}
