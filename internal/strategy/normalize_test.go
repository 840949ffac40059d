package strategy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avargasm/edgebot/internal/domain"
	"github.com/avargasm/edgebot/internal/strategy"
)

func defaultNormalizer() strategy.Normalizer {
	return strategy.Normalizer{MinPrice: 0.01, MaxPrice: 0.99}
}

func record() domain.ActivityRecord {
	return domain.ActivityRecord{
		TransactionHash: "0xabc",
		Asset:           "token-1",
		Side:            "BUY",
		Price:           0.55,
		Size:            100,
		USDCSize:        55,
		TimestampMS:     1767225600000,
	}
}

func TestNormalize_Valid(t *testing.T) {
	o, ok := defaultNormalizer().Normalize(record())
	require.True(t, ok)

	assert.Equal(t, domain.SideBuy, o.Side)
	assert.Equal(t, "token-1", o.InstrumentID)
	assert.InDelta(t, 0.55, o.Price, 1e-9)
	assert.InDelta(t, 55, o.Notional, 1e-9)
	assert.Equal(t, time.UnixMilli(1767225600000).UTC(), o.ObservedAt)
	assert.Equal(t, record().Key(), o.RawKey)
}

func TestNormalize_SideNormalization(t *testing.T) {
	n := defaultNormalizer()

	for raw, want := range map[string]domain.Side{
		"buy": domain.SideBuy, " SELL ": domain.SideSell, "Sell": domain.SideSell,
	} {
		rec := record()
		rec.Side = raw
		o, ok := n.Normalize(rec)
		require.True(t, ok, "side %q", raw)
		assert.Equal(t, want, o.Side)
	}

	for _, raw := range []string{"", "HOLD", "REDEEM"} {
		rec := record()
		rec.Side = raw
		_, ok := n.Normalize(rec)
		assert.False(t, ok, "side %q must be rejected", raw)
	}
}

func TestNormalize_PriceBandInclusive(t *testing.T) {
	n := defaultNormalizer()

	for _, price := range []float64{0.01, 0.50, 0.99} {
		rec := record()
		rec.Price = price
		_, ok := n.Normalize(rec)
		assert.True(t, ok, "price %g", price)
	}
	for _, price := range []float64{0.009, 0.991, 0, 1} {
		rec := record()
		rec.Price = price
		_, ok := n.Normalize(rec)
		assert.False(t, ok, "price %g must be rejected", price)
	}
}

func TestNormalize_NotionalFallback(t *testing.T) {
	n := defaultNormalizer()

	// USDC size preferred even when size*price differs.
	rec := record()
	rec.USDCSize = 42
	o, ok := n.Normalize(rec)
	require.True(t, ok)
	assert.InDelta(t, 42, o.Notional, 1e-9)

	// No USDC size: fall back to shares * price.
	rec = record()
	rec.USDCSize = 0
	o, ok = n.Normalize(rec)
	require.True(t, ok)
	assert.InDelta(t, 55, o.Notional, 1e-9)

	// Neither yields a positive notional: reject.
	rec = record()
	rec.USDCSize = 0
	rec.Size = 0
	_, ok = n.Normalize(rec)
	assert.False(t, ok)
}

func TestNormalize_MissingAsset(t *testing.T) {
	rec := record()
	rec.Asset = ""
	_, ok := defaultNormalizer().Normalize(rec)
	assert.False(t, ok)
}

func TestActivityRecordKey_DistinguishesFields(t *testing.T) {
	base := record()

	variants := []func(*domain.ActivityRecord){
		func(r *domain.ActivityRecord) { r.TransactionHash = "0xdef" },
		func(r *domain.ActivityRecord) { r.Asset = "token-2" },
		func(r *domain.ActivityRecord) { r.Side = "SELL" },
		func(r *domain.ActivityRecord) { r.TimestampMS++ },
		func(r *domain.ActivityRecord) { r.Price = 0.56 },
		func(r *domain.ActivityRecord) { r.Size = 101 },
	}
	for i, mutate := range variants {
		rec := base
		mutate(&rec)
		assert.NotEqual(t, base.Key(), rec.Key(), "variant %d collided", i)
	}
}
