package risk

// gate.go — trading circuit breaker.
//
// The gate is the sole writer of the risk state. Everything else reads
// it through Snapshot; mutation happens only through the named recording
// operations and the UTC day rollover inside Check.

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/avargasm/edgebot/internal/domain"
)

// State of the trading circuit.
type State string

const (
	// StateOpen allows trading.
	StateOpen State = "OPEN"
	// StatePaused suspends trading until a recovery condition (day
	// rollover, a win, or a successful feed read) clears it.
	StatePaused State = "PAUSED"
	// StateHalted is terminal for the process: the engine loop must stop.
	StateHalted State = "HALTED"
)

// Config bounds the gate. Zero thresholds disable the corresponding rule,
// except MinBalance, which is always enforced.
type Config struct {
	StartingBalance      float64
	MinBalance           float64
	MaxDailyLoss         float64
	MaxConsecutiveLosses int
	MaxConsecutiveErrors int
}

// Decision is the outcome of one Check call.
type Decision struct {
	State  State
	Reason string
}

// Tradeable reports whether intents may proceed to sizing.
func (d Decision) Tradeable() bool { return d.State == StateOpen }

// TradeEntry is one line of the daily trade log.
type TradeEntry struct {
	Time         time.Time
	InstrumentID string
	Side         domain.Side
	NotionalUSD  float64
}

// Snapshot is a read-only copy of the gate's state.
type Snapshot struct {
	Balance           float64
	DailyLoss         float64
	ConsecutiveLosses int
	ConsecutiveErrors int
	TradesToday       int
	LastResetDay      time.Time
}

// Gate is the circuit breaker consulted once per cycle before any intent
// is sized.
type Gate struct {
	cfg Config
	now func() time.Time

	balance           float64
	dailyLoss         float64
	consecutiveLosses int
	consecutiveErrors int
	lastResetDay      time.Time
	dailyTrades       []TradeEntry
}

// New creates a gate with the configured starting balance.
func New(cfg Config) *Gate {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(cfg Config, now func() time.Time) *Gate {
	g := &Gate{cfg: cfg, now: now, balance: cfg.StartingBalance}
	g.lastResetDay = utcDay(g.now())
	return g
}

// Check evaluates the transition rules in fixed order; first match wins.
// The balance floor is checked first so a simultaneous daily-loss breach
// still halts rather than pauses.
func (g *Gate) Check() Decision {
	g.rollover()

	if g.balance < g.cfg.MinBalance {
		return Decision{StateHalted, fmt.Sprintf(
			"STOP: balance $%.2f below $%.2f floor", g.balance, g.cfg.MinBalance)}
	}
	if g.cfg.MaxDailyLoss > 0 && g.dailyLoss >= g.cfg.MaxDailyLoss {
		return Decision{StatePaused, fmt.Sprintf(
			"daily loss $%.2f >= $%.2f cap", g.dailyLoss, g.cfg.MaxDailyLoss)}
	}
	if g.cfg.MaxConsecutiveLosses > 0 && g.consecutiveLosses >= g.cfg.MaxConsecutiveLosses {
		return Decision{StatePaused, fmt.Sprintf(
			"%d consecutive losses", g.consecutiveLosses)}
	}
	if g.cfg.MaxConsecutiveErrors > 0 && g.consecutiveErrors >= g.cfg.MaxConsecutiveErrors {
		return Decision{StatePaused, fmt.Sprintf(
			"%d consecutive feed errors", g.consecutiveErrors)}
	}
	return Decision{StateOpen, "OK"}
}

// rollover clears the daily counters when the UTC day changes.
func (g *Gate) rollover() {
	today := utcDay(g.now())
	if today.Equal(g.lastResetDay) {
		return
	}
	g.dailyLoss = 0
	g.dailyTrades = g.dailyTrades[:0]
	g.lastResetDay = today
	slog.Info("risk: daily reset, counters cleared", "day", today.Format("2006-01-02"))
}

// RecordWin credits a settled profit and clears the loss streak.
func (g *Gate) RecordWin(pnl float64) {
	g.balance += pnl
	g.consecutiveLosses = 0
}

// RecordLoss debits a settled loss. The sign of loss is ignored.
func (g *Gate) RecordLoss(loss float64) {
	if loss < 0 {
		loss = -loss
	}
	g.balance -= loss
	g.dailyLoss += loss
	g.consecutiveLosses++
}

// RecordError counts a feed or submission failure.
func (g *Gate) RecordError() {
	g.consecutiveErrors++
}

// RecordSuccess clears the error streak after a successful feed read.
func (g *Gate) RecordSuccess() {
	g.consecutiveErrors = 0
}

// RecordTrade appends a dispatched order to the daily trade log.
func (g *Gate) RecordTrade(instrumentID string, side domain.Side, notionalUSD float64) {
	g.dailyTrades = append(g.dailyTrades, TradeEntry{
		Time:         g.now().UTC(),
		InstrumentID: instrumentID,
		Side:         side,
		NotionalUSD:  notionalUSD,
	})
}

// SyncBalance replaces the tracked balance with an externally observed
// one. Intended for startup sync against the venue in live mode.
func (g *Gate) SyncBalance(balance float64) {
	g.balance = balance
}

// Balance returns the currently tracked balance.
func (g *Gate) Balance() float64 { return g.balance }

// Snapshot returns a read-only copy of the state.
func (g *Gate) Snapshot() Snapshot {
	return Snapshot{
		Balance:           g.balance,
		DailyLoss:         g.dailyLoss,
		ConsecutiveLosses: g.consecutiveLosses,
		ConsecutiveErrors: g.consecutiveErrors,
		TradesToday:       len(g.dailyTrades),
		LastResetDay:      g.lastResetDay,
	}
}

func utcDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
