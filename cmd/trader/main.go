package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avargasm/edgebot/config"
	"github.com/avargasm/edgebot/internal/adapters/notify"
	"github.com/avargasm/edgebot/internal/adapters/polymarket"
	"github.com/avargasm/edgebot/internal/adapters/storage"
	"github.com/avargasm/edgebot/internal/engine"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	paper := flag.Bool("paper", false, "simulate order execution, no real orders")
	strategyFlag := flag.String("strategy", "", "mirror|fairvalue|both (overrides config)")
	once := flag.Bool("once", false, "run one cycle per strategy and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *strategyFlag != "" {
		cfg.Strategy = *strategyFlag
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid config", "err", err)
			os.Exit(1)
		}
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("edgebot starting",
		"config", *configPath,
		"strategy", cfg.Strategy,
		"paper", *paper,
		"once", *once,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase, cfg.API.DataBase)

	// Live mode needs the signing wallet; paper mode never touches it.
	var executor *polymarket.TradingClient
	startBalance := cfg.Risk.StartingBalance
	if !*paper {
		key := config.PrivateKey()
		if key == "" {
			slog.Error("POLY_PRIVATE_KEY is required for live trading (or pass --paper)")
			os.Exit(1)
		}
		auth, err := polymarket.NewAuthClient(cfg.API.CLOBBase, cfg.API.GammaBase, cfg.API.DataBase, key)
		if err != nil {
			slog.Error("failed to init auth client", "err", err)
			os.Exit(1)
		}
		executor, err = polymarket.NewTradingClient(auth, cfg.API.PolygonRPC)
		if err != nil {
			slog.Error("failed to init trading client", "err", err)
			os.Exit(1)
		}

		bal, err := executor.GetBalance(ctx)
		if err != nil {
			slog.Warn("balance sync failed, using configured starting balance",
				"err", err, "configured", cfg.Risk.StartingBalance)
		} else {
			startBalance = bal
			slog.Info("balance synced", "wallet", executor.Address(), "usdc", fmt.Sprintf("%.2f", bal))
		}
	}

	journal, err := storage.NewSQLiteJournal(cfg.Journal.DSN)
	if err != nil {
		slog.Error("failed to open journal", "err", err, "dsn", cfg.Journal.DSN)
		os.Exit(1)
	}
	defer journal.Close()

	notifier := notify.NewConsole()

	var engines []*engine.Engine
	if cfg.Strategy == "mirror" || cfg.Strategy == "both" {
		eng, err := buildMirror(ctx, cfg, client, executor, notifier, journal, startBalance, *paper)
		if err != nil {
			slog.Error("failed to build mirror engine", "err", err)
			os.Exit(1)
		}
		engines = append(engines, eng)
	}
	if cfg.Strategy == "fairvalue" || cfg.Strategy == "both" {
		engines = append(engines,
			buildFairValue(cfg, client, executor, notifier, journal, startBalance, *paper))
	}

	for _, eng := range engines {
		if stats, err := journal.Stats(ctx, eng.Stats().Strategy); err == nil && stats.Trades > 0 {
			slog.Info("journal history",
				"strategy", eng.Stats().Strategy,
				"trades", stats.Trades,
				"live", stats.Live,
				"simulated", stats.Simulated,
				"notional", fmt.Sprintf("$%.2f", stats.NotionalUSD),
				"last", stats.LastTrade.Format("2006-01-02 15:04"),
			)
		}
	}

	if *once {
		for _, eng := range engines {
			res := eng.RunOnce(ctx)
			slog.Info("cycle result",
				"strategy", eng.Stats().Strategy,
				"observed", res.Observed,
				"fresh", res.Fresh,
				"executed", res.Executed,
				"skipped", res.Skipped,
				"err", res.Err,
			)
		}
		return
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(engines))
	for _, eng := range engines {
		wg.Add(1)
		go func(e *engine.Engine) {
			defer wg.Done()
			if err := e.Run(ctx); err != nil {
				errs <- err
				cancel() // one halted engine stops the process
			}
		}(eng)
	}
	wg.Wait()
	close(errs)

	failed := false
	for err := range errs {
		slog.Error("engine exited with error", "err", err)
		failed = true
	}
	if failed {
		os.Exit(1)
	}
	slog.Info("edgebot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
