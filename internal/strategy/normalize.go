package strategy

import (
	"github.com/avargasm/edgebot/internal/domain"
)

// Normalizer converts raw activity records into Observations. It is a
// pure transform: records that lack a usable side, instrument, price or
// notional are reported as not applicable, never as errors.
type Normalizer struct {
	MinPrice float64 // inclusive band, default [0.01, 0.99]
	MaxPrice float64
}

// Normalize returns the Observation for a record, or ok=false if the
// record is not applicable. Notional comes preferentially from the
// feed's USD field; if absent or non-positive it falls back to
// size * price.
func (n Normalizer) Normalize(rec domain.ActivityRecord) (domain.Observation, bool) {
	side, ok := domain.ParseSide(rec.Side)
	if !ok {
		return domain.Observation{}, false
	}
	if rec.Asset == "" {
		return domain.Observation{}, false
	}
	if rec.Price < n.MinPrice || rec.Price > n.MaxPrice {
		return domain.Observation{}, false
	}

	notional := rec.USDCSize
	if notional <= 0 && rec.Size > 0 {
		notional = rec.Size * rec.Price
	}
	if notional <= 0 {
		return domain.Observation{}, false
	}

	return domain.Observation{
		SourceID:     "data-api",
		InstrumentID: rec.Asset,
		Side:         side,
		Price:        rec.Price,
		Notional:     notional,
		ObservedAt:   rec.Time(),
		RawKey:       rec.Key(),
	}, true
}
