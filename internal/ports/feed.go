package ports

import (
	"context"

	"github.com/avargasm/edgebot/internal/domain"
)

// ActivityProvider fetches the most recent trade activity for a wallet.
// Results come back newest-first; the engine reorders before replay.
type ActivityProvider interface {
	FetchActivity(ctx context.Context, wallet string, limit int) ([]domain.ActivityRecord, error)
}

// CandleProvider fetches the last N one-minute closes for a symbol.
type CandleProvider interface {
	FetchCloses(ctx context.Context, symbol string, limit int) ([]domain.Candle, error)
}

// QuoteProvider fetches the current Up/Down quote snapshot for a coin.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, coin string) (domain.MarketQuote, error)
}

// WalletResolver resolves an @pseudonym or 0x address to a proxy wallet.
type WalletResolver interface {
	ResolveWallet(ctx context.Context, source string) (string, error)
}
