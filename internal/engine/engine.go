package engine

// engine.go — the shared strategy loop.
//
// One Engine drives one strategy instance through the same pass every
// poll interval: poll → dedup → evaluate → risk-gate → size → dispatch.
// Cycles are independent except for the ledger and the risk gate, which
// persist across cycles for the process lifetime.

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/avargasm/edgebot/internal/domain"
	"github.com/avargasm/edgebot/internal/ports"
	"github.com/avargasm/edgebot/internal/risk"
)

// Evaluator is one strategy's view of the feed. Poll fetches raw records
// and normalizes them into Observations; Evaluate turns a single
// surviving Observation into an Intent, or a skip with a reason.
type Evaluator interface {
	Name() string
	Poll(ctx context.Context) ([]domain.Observation, error)
	Evaluate(ctx context.Context, obs domain.Observation) (*domain.Intent, string)
}

// CycleKind classifies the outcome of one cycle. The caller decides
// continue-vs-halt from the kind; nothing inside the loop recovers
// blindly.
type CycleKind int

const (
	CycleOK CycleKind = iota
	CycleRecoverable
	CycleFatal
)

// CycleResult is the explicit per-cycle outcome.
type CycleResult struct {
	Kind     CycleKind
	Reason   string
	Err      error
	Observed int // observations returned by Poll
	Fresh    int // unseen and within the bootstrap window
	Executed int
	Skipped  int
}

// Config holds the engine's loop parameters. Validated upstream by the
// config package.
type Config struct {
	PollInterval    time.Duration
	BootstrapWindow time.Duration
	LedgerRetention time.Duration
	WindowLength    time.Duration
	MaxPerWindow    int // 0 = unlimited
	Simulate        bool
}

// Engine drives one strategy instance. Instances share no mutable state;
// each gets its own gate and ledger.
type Engine struct {
	cfg        Config
	eval       Evaluator
	sizer      Sizer
	gate       *risk.Gate
	dispatcher *Dispatcher
	notifier   ports.Notifier
	journal    ports.Journal // optional

	stats       domain.EngineStats
	ledger      *Ledger
	windowStart time.Time
	windowCount int
	now         func() time.Time
}

// New wires an engine. notifier and journal may be nil.
func New(
	cfg Config,
	eval Evaluator,
	sizer Sizer,
	gate *risk.Gate,
	dispatcher *Dispatcher,
	notifier ports.Notifier,
	journal ports.Journal,
) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.WindowLength <= 0 {
		cfg.WindowLength = 15 * time.Minute
	}

	now := time.Now
	start := now().UTC()
	return &Engine{
		cfg:        cfg,
		eval:       eval,
		sizer:      sizer,
		gate:       gate,
		dispatcher: dispatcher,
		notifier:   notifier,
		journal:    journal,
		ledger:     NewLedger(cfg.BootstrapWindow, cfg.LedgerRetention, start),
		stats: domain.EngineStats{
			Strategy:     eval.Name(),
			StartBalance: gate.Balance(),
			Balance:      gate.Balance(),
			StartedAt:    start,
		},
		windowStart: start.Truncate(cfg.WindowLength),
		now:         now,
	}
}

// Run executes the poll loop until the context is cancelled or the gate
// halts. The first cycle runs immediately; cancellation is only observed
// between cycles so a cycle in flight finishes its dispatches.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"strategy", e.eval.Name(),
		"interval", e.cfg.PollInterval,
		"simulate", e.cfg.Simulate,
		"balance", fmt.Sprintf("$%.2f", e.gate.Balance()),
	)

	if halted, err := e.step(ctx); halted {
		e.finish()
		return err
	}

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopped", "strategy", e.eval.Name())
			e.finish()
			return nil
		case <-ticker.C:
			if halted, err := e.step(ctx); halted {
				e.finish()
				return err
			}
		}
	}
}

// RunOnce executes exactly one cycle and returns its result.
func (e *Engine) RunOnce(ctx context.Context) CycleResult {
	return e.runCycle(ctx)
}

// Stats returns the current counters merged with the gate snapshot.
func (e *Engine) Stats() domain.EngineStats {
	s := e.stats
	snap := e.gate.Snapshot()
	s.Balance = snap.Balance
	s.DailyLoss = snap.DailyLoss
	return s
}

// step runs one cycle and maps its result kind onto the loop decision.
func (e *Engine) step(ctx context.Context) (halted bool, err error) {
	res := e.runCycle(ctx)
	switch res.Kind {
	case CycleFatal:
		slog.Error("engine halting", "strategy", e.eval.Name(), "reason", res.Reason)
		return true, fmt.Errorf("engine %s halted: %s", e.eval.Name(), res.Reason)
	case CycleRecoverable:
		slog.Warn("cycle error", "strategy", e.eval.Name(), "err", res.Err)
	default:
		slog.Debug("cycle complete",
			"strategy", e.eval.Name(),
			"observed", res.Observed,
			"fresh", res.Fresh,
			"executed", res.Executed,
			"skipped", res.Skipped,
		)
	}
	return false, nil
}

func (e *Engine) runCycle(ctx context.Context) CycleResult {
	now := e.now().UTC()
	e.rolloverWindow(ctx, now)

	// The gate is consulted once per cycle, before anything is sized.
	decision := e.gate.Check()
	if decision.State == risk.StateHalted {
		return CycleResult{Kind: CycleFatal, Reason: decision.Reason}
	}
	paused := decision.State == risk.StatePaused
	if paused {
		slog.Warn("risk gate paused", "strategy", e.eval.Name(), "reason", decision.Reason)
	}

	obs, err := e.eval.Poll(ctx)
	if err != nil {
		e.gate.RecordError()
		e.stats.Errors++
		return CycleResult{Kind: CycleRecoverable, Err: fmt.Errorf("poll: %w", err)}
	}
	e.gate.RecordSuccess()

	// Feeds return newest-first; replay strictly oldest-first so a batch
	// of unseen observations is acted on in true chronological order.
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].ObservedAt.Before(obs[j].ObservedAt)
	})

	res := CycleResult{Observed: len(obs)}
	for _, o := range obs {
		if e.ledger.Seen(o.RawKey) {
			continue
		}
		// Mark before evaluating: a missed action is preferred to a
		// double action if the process dies mid-cycle.
		e.ledger.MarkSeen(o.RawKey, o.ObservedAt, now)
		if !e.ledger.Eligible(o.ObservedAt, now) {
			continue
		}
		res.Fresh++

		if paused {
			res.Skipped++
			continue
		}
		if e.cfg.MaxPerWindow > 0 && e.windowCount >= e.cfg.MaxPerWindow {
			res.Skipped++
			slog.Debug("window cap reached",
				"strategy", e.eval.Name(), "instrument", o.InstrumentID)
			continue
		}

		intent, skip := e.eval.Evaluate(ctx, o)
		if intent == nil {
			e.stats.Skips++
			res.Skipped++
			if skip != "" {
				slog.Info("skip", "strategy", e.eval.Name(),
					"instrument", o.InstrumentID, "reason", skip)
			}
			continue
		}

		order, ok := e.sizer.Size(*intent, e.gate.Balance())
		if !ok {
			e.stats.Skips++
			res.Skipped++
			continue
		}

		rec := e.dispatcher.Dispatch(ctx, order, *intent)
		e.windowCount++
		e.stats.Trades++
		e.gate.RecordTrade(order.InstrumentID, order.Side, order.NotionalUSD)
		if !rec.Success {
			e.gate.RecordError()
			e.stats.Errors++
		}
		res.Executed++

		if e.notifier != nil {
			e.notifier.TradeExecuted(ctx, rec)
		}
		if e.journal != nil {
			if err := e.journal.SaveTrade(ctx, rec); err != nil {
				slog.Warn("journal error", "strategy", e.eval.Name(), "err", err)
			}
		}
	}
	return res
}

// rolloverWindow resets the per-window intent counter and emits a
// summary when the market window changes.
func (e *Engine) rolloverWindow(ctx context.Context, now time.Time) {
	ws := now.Truncate(e.cfg.WindowLength)
	if !ws.After(e.windowStart) {
		return
	}
	stats := e.Stats()
	if e.notifier != nil {
		e.notifier.WindowSummary(ctx, stats)
	}
	if e.journal != nil {
		if err := e.journal.SaveSummary(ctx, stats); err != nil {
			slog.Warn("journal error", "strategy", e.eval.Name(), "err", err)
		}
	}
	e.windowStart = ws
	e.windowCount = 0
}

func (e *Engine) finish() {
	if e.notifier != nil {
		e.notifier.FinalSummary(e.Stats())
	}
}
