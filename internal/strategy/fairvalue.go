package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/avargasm/edgebot/internal/domain"
	"github.com/avargasm/edgebot/internal/ports"
)

var binanceSymbols = map[string]string{
	"BTC": "BTCUSDT",
	"ETH": "ETHUSDT",
	"SOL": "SOLUSDT",
	"XRP": "XRPUSDT",
}

// FairValueConfig holds the evaluator's thresholds.
type FairValueConfig struct {
	Coins     []string
	Lookback  int     // 1m candles per change computation
	MinEdge   float64 // minimum fair-vs-quoted gap to act
	MaxSpread float64 // skip when |1 - up - down| exceeds this
}

// FairValue prices short-window up/down markets from the recent spot
// move on Binance. Each closed 1-minute candle yields one observation
// per coin; the candle close time keys deduplication so a candle is
// priced at most once no matter how often the loop polls.
type FairValue struct {
	candles ports.CandleProvider
	quotes  ports.QuoteProvider
	cfg     FairValueConfig

	// snapshot of the latest poll, keyed by observation RawKey. Evaluate
	// runs in the same cycle as Poll, so entries never go stale.
	snapshots map[string]fvSnapshot
}

type fvSnapshot struct {
	coin      string
	changePct float64
	quote     domain.MarketQuote
}

// NewFairValue creates the fair-value evaluator.
func NewFairValue(candles ports.CandleProvider, quotes ports.QuoteProvider, cfg FairValueConfig) *FairValue {
	if cfg.Lookback < 2 {
		cfg.Lookback = 15
	}
	return &FairValue{
		candles:   candles,
		quotes:    quotes,
		cfg:       cfg,
		snapshots: make(map[string]fvSnapshot),
	}
}

func (f *FairValue) Name() string { return "fairvalue" }

// Poll computes the recent change and fetches the live quote for each
// configured coin. A coin that fails is logged and skipped; Poll errors
// only when every coin fails, so one flaky feed cannot stall the rest.
func (f *FairValue) Poll(ctx context.Context) ([]domain.Observation, error) {
	f.snapshots = make(map[string]fvSnapshot, len(f.cfg.Coins))

	var obs []domain.Observation
	var lastErr error
	for _, coin := range f.cfg.Coins {
		o, err := f.pollCoin(ctx, coin)
		if err != nil {
			lastErr = err
			slog.Warn("fairvalue poll", "coin", coin, "err", err)
			continue
		}
		obs = append(obs, o)
	}
	if len(obs) == 0 && lastErr != nil {
		return nil, fmt.Errorf("fairvalue.Poll: %w", lastErr)
	}
	return obs, nil
}

func (f *FairValue) pollCoin(ctx context.Context, coin string) (domain.Observation, error) {
	symbol, ok := binanceSymbols[coin]
	if !ok {
		return domain.Observation{}, fmt.Errorf("unknown coin %q", coin)
	}

	closes, err := f.candles.FetchCloses(ctx, symbol, f.cfg.Lookback)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("fetch closes %s: %w", symbol, err)
	}
	change, err := changePct(closes)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("change %s: %w", symbol, err)
	}

	quote, err := f.quotes.FetchQuote(ctx, coin)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("fetch quote %s: %w", coin, err)
	}

	last := closes[len(closes)-1]
	key := fmt.Sprintf("binance|%s|%d|%.4f", coin, last.CloseTime.Unix(), change)
	f.snapshots[key] = fvSnapshot{coin: coin, changePct: change, quote: quote}

	return domain.Observation{
		SourceID:     "binance",
		InstrumentID: quote.UpTokenID,
		Side:         domain.SideBuy,
		Price:        quote.UpPrice,
		ObservedAt:   last.CloseTime,
		RawKey:       key,
	}, nil
}

// Evaluate prices the snapshot behind the observation and emits an
// intent when either side's edge clears the threshold. The up side is
// preferred when both clear it.
func (f *FairValue) Evaluate(_ context.Context, o domain.Observation) (*domain.Intent, string) {
	snap, ok := f.snapshots[o.RawKey]
	if !ok {
		return nil, "no snapshot for observation"
	}
	q := snap.quote

	if spread := q.Spread(); spread > f.cfg.MaxSpread {
		return nil, fmt.Sprintf("%s spread %.4f above %.4f", snap.coin, spread, f.cfg.MaxSpread)
	}

	fairUp, ok := fairUpFromChange(snap.changePct)
	if !ok {
		return nil, fmt.Sprintf("%s change %.4f%% inside dead zone", snap.coin, snap.changePct)
	}
	fairDown := 1 - fairUp

	edgeUp := fairUp - q.UpPrice
	edgeDown := fairDown - q.DownPrice

	switch {
	case edgeUp >= f.cfg.MinEdge:
		return &domain.Intent{
			InstrumentID:   q.UpTokenID,
			Side:           domain.SideBuy,
			ReferencePrice: q.UpPrice,
			Edge:           edgeUp,
			Rationale: fmt.Sprintf("%s up: change %.4f%% fair %.2f quoted %.2f edge %.4f",
				snap.coin, snap.changePct, fairUp, q.UpPrice, edgeUp),
		}, ""
	case edgeDown >= f.cfg.MinEdge:
		return &domain.Intent{
			InstrumentID:   q.DownTokenID,
			Side:           domain.SideBuy,
			ReferencePrice: q.DownPrice,
			Edge:           edgeDown,
			Rationale: fmt.Sprintf("%s down: change %.4f%% fair %.2f quoted %.2f edge %.4f",
				snap.coin, snap.changePct, fairDown, q.DownPrice, edgeDown),
		}, ""
	}
	return nil, fmt.Sprintf("%s no edge: up %.4f down %.4f below %.4f",
		snap.coin, edgeUp, edgeDown, f.cfg.MinEdge)
}

// fairUpFromChange maps a percent move onto the fair probability of the
// up outcome. Moves inside [-0.02%, 0.02%] carry no signal. The two
// directions mirror around 0.50, exact tier edges included:
// fairUp(c) + fairUp(-c) = 1.
func fairUpFromChange(c float64) (float64, bool) {
	switch {
	case c > 0.30:
		return 0.75, true
	case c > 0.20:
		return 0.70, true
	case c > 0.15:
		return 0.65, true
	case c > 0.10:
		return 0.60, true
	case c > 0.05:
		return 0.57, true
	case c > 0.02:
		return 0.54, true
	case c < -0.30:
		return 0.25, true
	case c < -0.20:
		return 0.30, true
	case c < -0.15:
		return 0.35, true
	case c < -0.10:
		return 0.40, true
	case c < -0.05:
		return 0.43, true
	case c < -0.02:
		return 0.46, true
	default:
		return 0, false
	}
}

// changePct computes the percent move across the candle series, rounded
// to four decimals.
func changePct(closes []domain.Candle) (float64, error) {
	if len(closes) < 2 {
		return 0, fmt.Errorf("need at least 2 closes, got %d", len(closes))
	}
	first := closes[0].Close
	last := closes[len(closes)-1].Close
	if first == 0 {
		return 0, fmt.Errorf("zero first close")
	}
	c := (last - first) / first * 100
	return math.Round(c*10000) / 10000, nil
}
