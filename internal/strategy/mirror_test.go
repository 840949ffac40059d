package strategy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avargasm/edgebot/internal/domain"
	"github.com/avargasm/edgebot/internal/strategy"
)

type fakeActivity struct {
	records []domain.ActivityRecord
	err     error
	wallet  string
	limit   int
}

func (f *fakeActivity) FetchActivity(_ context.Context, wallet string, limit int) ([]domain.ActivityRecord, error) {
	f.wallet = wallet
	f.limit = limit
	return f.records, f.err
}

func TestMirror_PollNormalizesAndDrops(t *testing.T) {
	bad := record()
	bad.Side = "REDEEM"
	feed := &fakeActivity{records: []domain.ActivityRecord{record(), bad}}

	m := strategy.NewMirror(feed, "0xwallet", 50, defaultNormalizer())
	obs, err := m.Poll(context.Background())

	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "0xwallet", feed.wallet)
	assert.Equal(t, 50, feed.limit)
	assert.Equal(t, record().Key(), obs[0].RawKey)
}

func TestMirror_PollError(t *testing.T) {
	feed := &fakeActivity{err: errors.New("timeout")}
	m := strategy.NewMirror(feed, "0xwallet", 0, defaultNormalizer())

	_, err := m.Poll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mirror.Poll")
	assert.Equal(t, 100, feed.limit, "zero limit falls back to default")
}

func TestMirror_EvaluatePassesThrough(t *testing.T) {
	m := strategy.NewMirror(&fakeActivity{}, "0xwallet", 50, defaultNormalizer())

	o := domain.Observation{
		InstrumentID: "token-9",
		Side:         domain.SideSell,
		Price:        0.33,
		Notional:     120,
	}
	intent, skip := m.Evaluate(context.Background(), o)

	require.NotNil(t, intent)
	assert.Empty(t, skip)
	assert.Equal(t, "token-9", intent.InstrumentID)
	assert.Equal(t, domain.SideSell, intent.Side)
	assert.InDelta(t, 0.33, intent.ReferencePrice, 1e-9)
	assert.InDelta(t, 120, intent.SourceNotional, 1e-9)
	assert.Zero(t, intent.Edge)
}

func TestMirror_Name(t *testing.T) {
	m := strategy.NewMirror(&fakeActivity{}, "0xwallet", 50, defaultNormalizer())
	assert.Equal(t, "mirror", m.Name())
}
