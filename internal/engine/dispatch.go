package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avargasm/edgebot/internal/domain"
	"github.com/avargasm/edgebot/internal/ports"
)

const orderTypeFOK = "FOK"

// Dispatcher routes sized orders to the live executor or, in simulate
// mode, synthesizes an always-successful outcome without touching the
// venue. A failed submission is reported, never retried in-cycle: if the
// triggering condition persists, the next poll produces it again.
type Dispatcher struct {
	executor ports.OrderExecutor // nil when simulating
	simulate bool
	strategy string
	now      func() time.Time
}

// NewDispatcher creates a dispatcher for one strategy instance.
func NewDispatcher(executor ports.OrderExecutor, simulate bool, strategy string) *Dispatcher {
	return &Dispatcher{executor: executor, simulate: simulate, strategy: strategy, now: time.Now}
}

// Dispatch submits one sized order and reports the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, order domain.SizedOrder, intent domain.Intent) domain.TradeRecord {
	rec := domain.TradeRecord{
		ID:           uuid.New().String(),
		Strategy:     d.strategy,
		InstrumentID: order.InstrumentID,
		Side:         order.Side,
		Price:        order.LimitPrice,
		Shares:       order.ShareQuantity,
		NotionalUSD:  order.NotionalUSD,
		Edge:         intent.Edge,
		Rationale:    intent.Rationale,
		Simulated:    d.simulate,
		ExecutedAt:   d.now().UTC(),
	}

	if d.simulate {
		rec.Success = true
		return rec
	}

	res, err := d.executor.PlaceOrder(ctx, domain.OrderRequest{
		TokenID:   order.InstrumentID,
		Price:     order.LimitPrice,
		Size:      order.ShareQuantity,
		Side:      order.Side,
		OrderType: orderTypeFOK,
	})
	if err != nil {
		rec.Message = err.Error()
		return rec
	}
	rec.Success = res.Success
	rec.OrderID = res.OrderID
	rec.Message = res.Message
	return rec
}
