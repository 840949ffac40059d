package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avargasm/edgebot/internal/domain"
	"github.com/avargasm/edgebot/internal/engine"
)

func sizedOrder() domain.SizedOrder {
	return domain.SizedOrder{
		InstrumentID:  "token-1",
		Side:          domain.SideBuy,
		LimitPrice:    0.55,
		ShareQuantity: 3.6,
		NotionalUSD:   1.98,
	}
}

func TestDispatcher_SimulateNeverCallsExecutor(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("must not be reached")}
	d := engine.NewDispatcher(exec, true, "mirror")

	rec := d.Dispatch(context.Background(), sizedOrder(), domain.Intent{Rationale: "copy"})

	assert.True(t, rec.Simulated)
	assert.True(t, rec.Success)
	assert.Empty(t, exec.placed)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "mirror", rec.Strategy)
	assert.Equal(t, "copy", rec.Rationale)
	assert.InDelta(t, 1.98, rec.NotionalUSD, 1e-9)
}

func TestDispatcher_LiveSubmitsFOK(t *testing.T) {
	exec := &fakeExecutor{}
	d := engine.NewDispatcher(exec, false, "fairvalue")

	rec := d.Dispatch(context.Background(), sizedOrder(), domain.Intent{Edge: 0.08})

	require.Len(t, exec.placed, 1)
	req := exec.placed[0]
	assert.Equal(t, "FOK", req.OrderType)
	assert.Equal(t, "token-1", req.TokenID)
	assert.Equal(t, domain.SideBuy, req.Side)
	assert.InDelta(t, 0.55, req.Price, 1e-9)
	assert.InDelta(t, 3.6, req.Size, 1e-9)

	assert.True(t, rec.Success)
	assert.False(t, rec.Simulated)
	assert.Equal(t, "ord-1", rec.OrderID)
	assert.InDelta(t, 0.08, rec.Edge, 1e-9)
}

func TestDispatcher_SubmissionErrorIsFailedRecord(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("not enough balance")}
	d := engine.NewDispatcher(exec, false, "mirror")

	rec := d.Dispatch(context.Background(), sizedOrder(), domain.Intent{})

	assert.False(t, rec.Success)
	assert.Contains(t, rec.Message, "not enough balance")
	// No in-cycle retry: exactly one submission.
	assert.Len(t, exec.placed, 1)
}

func TestDispatcher_UniqueIDs(t *testing.T) {
	d := engine.NewDispatcher(nil, true, "mirror")

	a := d.Dispatch(context.Background(), sizedOrder(), domain.Intent{})
	b := d.Dispatch(context.Background(), sizedOrder(), domain.Intent{})
	assert.NotEqual(t, a.ID, b.ID)
}
