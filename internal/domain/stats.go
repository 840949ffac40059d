package domain

import "time"

// EngineStats are the running counters for one strategy instance.
// Trades counts dispatch attempts; wins and losses are recorded out of
// band from settlement via the risk gate.
type EngineStats struct {
	Strategy     string
	StartBalance float64
	Balance      float64
	Trades       int
	Wins         int
	Losses       int
	Skips        int
	Errors       int
	DailyLoss    float64
	StartedAt    time.Time
}

// WinRate returns the win percentage over settled trades, 0 if none.
func (s EngineStats) WinRate() float64 {
	settled := s.Wins + s.Losses
	if settled == 0 {
		return 0
	}
	return float64(s.Wins) / float64(settled) * 100
}

// PnL is the balance change since process start.
func (s EngineStats) PnL() float64 {
	return s.Balance - s.StartBalance
}

// JournalStats aggregates what the journal has recorded for a strategy.
type JournalStats struct {
	Trades      int
	Live        int
	Simulated   int
	NotionalUSD float64
	FirstTrade  time.Time
	LastTrade   time.Time
}
