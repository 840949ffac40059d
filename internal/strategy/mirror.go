package strategy

import (
	"context"
	"fmt"

	"github.com/avargasm/edgebot/internal/domain"
	"github.com/avargasm/edgebot/internal/ports"
)

// Mirror follows a source wallet's activity and copies its trades
// one-for-one: side and entry price come straight from the observation,
// no edge is computed. Sizing later scales the source notional down to
// our account.
type Mirror struct {
	feed       ports.ActivityProvider
	wallet     string
	limit      int
	normalizer Normalizer
}

// NewMirror creates the mirror evaluator for one source wallet.
func NewMirror(feed ports.ActivityProvider, wallet string, limit int, normalizer Normalizer) *Mirror {
	if limit <= 0 {
		limit = 100
	}
	return &Mirror{feed: feed, wallet: wallet, limit: limit, normalizer: normalizer}
}

func (m *Mirror) Name() string { return "mirror" }

// Poll fetches the source wallet's recent activity and normalizes it.
// Not-applicable records are dropped here; they carry no signal.
func (m *Mirror) Poll(ctx context.Context) ([]domain.Observation, error) {
	records, err := m.feed.FetchActivity(ctx, m.wallet, m.limit)
	if err != nil {
		return nil, fmt.Errorf("mirror.Poll: fetch activity: %w", err)
	}

	obs := make([]domain.Observation, 0, len(records))
	for _, rec := range records {
		if o, ok := m.normalizer.Normalize(rec); ok {
			obs = append(obs, o)
		}
	}
	return obs, nil
}

// Evaluate passes the observation through as an intent: the source's
// entry is the signal.
func (m *Mirror) Evaluate(_ context.Context, o domain.Observation) (*domain.Intent, string) {
	return &domain.Intent{
		InstrumentID:   o.InstrumentID,
		Side:           o.Side,
		ReferencePrice: o.Price,
		SourceNotional: o.Notional,
		Rationale:      fmt.Sprintf("copy %s src=$%.2f @ %.4f", o.Side, o.Notional, o.Price),
	}, ""
}
