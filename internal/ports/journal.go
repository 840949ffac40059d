package ports

import (
	"context"

	"github.com/avargasm/edgebot/internal/domain"
)

// Journal persists dispatch outcomes and window summaries for later
// analysis. Purely observational: the engine never reads it back, so
// engine state still lives only for the process lifetime.
type Journal interface {
	SaveTrade(ctx context.Context, rec domain.TradeRecord) error
	SaveSummary(ctx context.Context, stats domain.EngineStats) error
	Stats(ctx context.Context, strategy string) (domain.JournalStats, error)
	Close() error
}
