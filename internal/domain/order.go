package domain

import "time"

// Intent is an evaluator's proposed action, not yet risk-checked or sized.
type Intent struct {
	InstrumentID   string
	Side           Side
	ReferencePrice float64 // price the order will be placed at
	Edge           float64 // fair minus quoted; zero for mirror intents
	SourceNotional float64 // mirror only: USD notional of the copied trade
	Rationale      string
}

// SizedOrder is an intent with a concrete bounded quantity attached.
// ShareQuantity > 0 is guaranteed by the sizer before dispatch, and
// NotionalUSD == ShareQuantity * LimitPrice within float tolerance.
type SizedOrder struct {
	InstrumentID  string
	Side          Side
	LimitPrice    float64
	ShareQuantity float64
	NotionalUSD   float64
}

// OrderRequest is sent to the order-submission capability.
type OrderRequest struct {
	TokenID   string
	Price     float64
	Size      float64 // shares
	Side      Side
	OrderType string // "FOK"
}

// OrderResult is the venue's response to a submission.
type OrderResult struct {
	Success bool
	OrderID string
	Message string
}

// TradeRecord is one dispatch outcome, as seen by the journal and the
// notifier. ID is assigned locally; OrderID comes from the venue.
type TradeRecord struct {
	ID           string
	Strategy     string
	InstrumentID string
	Side         Side
	Price        float64
	Shares       float64
	NotionalUSD  float64
	Edge         float64
	Rationale    string
	Simulated    bool
	Success      bool
	OrderID      string
	Message      string
	ExecutedAt   time.Time
}
