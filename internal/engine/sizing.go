package engine

import "github.com/avargasm/edgebot/internal/domain"

// Sizer turns an accepted intent into a bounded order. ok=false means
// the intent is dropped, not an error.
type Sizer interface {
	Size(intent domain.Intent, balance float64) (domain.SizedOrder, bool)
}

// MirrorSizer sizes copied trades. In percent mode the source notional
// is multiplied by a scale ratio computed once at startup from two
// reference balances; the ratio is intentionally never rescaled as the
// account drifts. Fixed mode uses a constant amount. A nonzero hard cap
// bounds either mode.
type MirrorSizer struct {
	Percent bool
	Scale   float64 // myBalance / sourceBalance
	Fixed   float64
	HardCap float64 // 0 = disabled
}

func (s MirrorSizer) Size(intent domain.Intent, _ float64) (domain.SizedOrder, bool) {
	notional := s.Fixed
	if s.Percent {
		notional = intent.SourceNotional * s.Scale
	}
	if s.HardCap > 0 && notional > s.HardCap {
		notional = s.HardCap
	}
	return buildOrder(intent, notional)
}

// FlatSizer sizes fair-value trades: a fixed USD amount, or a percent
// of the currently tracked balance when UsePercent is set.
type FlatSizer struct {
	SizeUSD    float64
	UsePercent bool
	Percent    float64
}

func (s FlatSizer) Size(intent domain.Intent, balance float64) (domain.SizedOrder, bool) {
	notional := s.SizeUSD
	if s.UsePercent {
		notional = balance * (s.Percent / 100)
	}
	return buildOrder(intent, notional)
}

// buildOrder applies the shared sizing arithmetic. notional <= 0 or a
// price outside (0, 1] drops the intent, which guarantees a positive,
// bounded share quantity on every order that reaches dispatch.
func buildOrder(intent domain.Intent, notional float64) (domain.SizedOrder, bool) {
	if notional <= 0 {
		return domain.SizedOrder{}, false
	}
	if intent.ReferencePrice <= 0 || intent.ReferencePrice > 1 {
		return domain.SizedOrder{}, false
	}
	return domain.SizedOrder{
		InstrumentID:  intent.InstrumentID,
		Side:          intent.Side,
		LimitPrice:    intent.ReferencePrice,
		ShareQuantity: notional / intent.ReferencePrice,
		NotionalUSD:   notional,
	}, true
}
