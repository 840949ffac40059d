package ports

import (
	"context"

	"github.com/avargasm/edgebot/internal/domain"
)

// Notifier presents engine activity to the operator.
type Notifier interface {
	// TradeExecuted reports one dispatch outcome as it happens.
	TradeExecuted(ctx context.Context, rec domain.TradeRecord)

	// WindowSummary reports aggregate stats at a market-window boundary.
	WindowSummary(ctx context.Context, stats domain.EngineStats)

	// FinalSummary reports the run totals on shutdown.
	FinalSummary(stats domain.EngineStats)
}
