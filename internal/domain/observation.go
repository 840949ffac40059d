package domain

import (
	"fmt"
	"strings"
	"time"
)

// Side is the direction of a trade, normalized to exactly BUY or SELL.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide normalizes a raw feed side value. Anything other than a
// case-insensitive BUY or SELL is rejected.
func ParseSide(raw string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY":
		return SideBuy, true
	case "SELL":
		return SideSell, true
	}
	return "", false
}

// Observation is a normalized feed event the engine pipeline consumes.
// Immutable once constructed.
type Observation struct {
	SourceID     string // feed that produced it ("data-api", "binance")
	InstrumentID string // token ID (mirror) or coin symbol (fairvalue)
	Side         Side
	Price        float64 // (0, 1]
	Notional     float64 // USD value of the source event
	ObservedAt   time.Time
	RawKey       string // composite dedup key, see ActivityRecord.Key
}

// ActivityRecord is a raw trade-activity entry from the Data API.
// The normalizer decides whether it yields an Observation.
type ActivityRecord struct {
	TransactionHash string
	Asset           string
	Side            string
	Price           float64
	Size            float64 // shares
	USDCSize        float64 // feed-provided USD notional, 0 if absent
	TimestampMS     int64
}

// Key builds the composite dedup key. The venue reuses timestamps and
// prices across distinct events, so every field participates.
func (r ActivityRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s|%d|%g|%g",
		r.TransactionHash, r.Asset, r.Side, r.TimestampMS, r.Price, r.Size)
}

// Time returns the record timestamp as UTC.
func (r ActivityRecord) Time() time.Time {
	return time.UnixMilli(r.TimestampMS).UTC()
}

// Candle is one closed price candle from the reference feed.
type Candle struct {
	CloseTime time.Time
	Close     float64
}
