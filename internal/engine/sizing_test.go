package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avargasm/edgebot/internal/domain"
	"github.com/avargasm/edgebot/internal/engine"
)

func intent(price, sourceNotional float64) domain.Intent {
	return domain.Intent{
		InstrumentID:   "token-1",
		Side:           domain.SideBuy,
		ReferencePrice: price,
		SourceNotional: sourceNotional,
	}
}

func TestMirrorSizer_PercentMode(t *testing.T) {
	// 100 / 20000 = 0.005 scale: a $100 source trade becomes $0.50.
	s := engine.MirrorSizer{Percent: true, Scale: 100.0 / 20000.0}

	order, ok := s.Size(intent(0.55, 100), 0)
	require.True(t, ok)
	assert.InDelta(t, 0.50, order.NotionalUSD, 1e-9)
	assert.InDelta(t, 0.50/0.55, order.ShareQuantity, 1e-9)
	assert.InDelta(t, 0.55, order.LimitPrice, 1e-9)
}

func TestMirrorSizer_HardCap(t *testing.T) {
	s := engine.MirrorSizer{Percent: true, Scale: 0.5, HardCap: 10}

	order, ok := s.Size(intent(0.40, 100), 0) // 50 before cap
	require.True(t, ok)
	assert.InDelta(t, 10, order.NotionalUSD, 1e-9)
	assert.InDelta(t, 25, order.ShareQuantity, 1e-9)
}

func TestMirrorSizer_FixedMode(t *testing.T) {
	s := engine.MirrorSizer{Fixed: 5, HardCap: 10}

	order, ok := s.Size(intent(0.25, 9999), 0)
	require.True(t, ok)
	assert.InDelta(t, 5, order.NotionalUSD, 1e-9)
	assert.InDelta(t, 20, order.ShareQuantity, 1e-9)
}

func TestMirrorSizer_DropsZeroNotional(t *testing.T) {
	s := engine.MirrorSizer{Percent: true, Scale: 0.005}

	_, ok := s.Size(intent(0.55, 0), 0)
	assert.False(t, ok)
}

func TestFlatSizer_FixedAmount(t *testing.T) {
	s := engine.FlatSizer{SizeUSD: 2}

	order, ok := s.Size(intent(0.60, 0), 100)
	require.True(t, ok)
	assert.InDelta(t, 2, order.NotionalUSD, 1e-9)
	assert.InDelta(t, 2/0.60, order.ShareQuantity, 1e-9)
}

func TestFlatSizer_PercentOfBalance(t *testing.T) {
	s := engine.FlatSizer{UsePercent: true, Percent: 10}

	order, ok := s.Size(intent(0.50, 0), 80)
	require.True(t, ok)
	assert.InDelta(t, 8, order.NotionalUSD, 1e-9)
	assert.InDelta(t, 16, order.ShareQuantity, 1e-9)
}

func TestSizers_RejectBadPrice(t *testing.T) {
	flat := engine.FlatSizer{SizeUSD: 2}
	mirror := engine.MirrorSizer{Fixed: 2}

	for _, price := range []float64{0, -0.5, 1.01} {
		_, ok := flat.Size(intent(price, 0), 100)
		assert.False(t, ok, "flat accepted price %g", price)

		_, ok = mirror.Size(intent(price, 100), 100)
		assert.False(t, ok, "mirror accepted price %g", price)
	}
}

func TestSizing_NotionalMatchesSharesTimesPrice(t *testing.T) {
	s := engine.FlatSizer{SizeUSD: 3.7}

	for _, price := range []float64{0.01, 0.13, 0.5, 0.99, 1.0} {
		order, ok := s.Size(intent(price, 0), 100)
		require.True(t, ok)
		assert.InDelta(t, order.NotionalUSD, order.ShareQuantity*order.LimitPrice, 1e-9)
		assert.Greater(t, order.ShareQuantity, 0.0)
	}
}
