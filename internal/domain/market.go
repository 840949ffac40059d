package domain

import (
	"math"
	"time"
)

// MarketQuote is the current snapshot of an Up/Down market for a coin.
type MarketQuote struct {
	Coin        string
	Slug        string
	Question    string
	UpTokenID   string
	DownTokenID string
	UpPrice     float64
	DownPrice   float64
	WindowEnd   time.Time
}

// Spread returns |1 - up - down|. Complementary binary outcomes should
// sum to 1; the excess measures how wide the market is quoting.
func (q MarketQuote) Spread() float64 {
	return math.Abs(1.0 - q.UpPrice - q.DownPrice)
}
