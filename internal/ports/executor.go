package ports

import (
	"context"

	"github.com/avargasm/edgebot/internal/domain"
)

// OrderExecutor submits signed orders to the venue.
type OrderExecutor interface {
	// PlaceOrder signs and submits one order. A rejected order comes back
	// as an unsuccessful OrderResult, not an error; errors are transport
	// or signing failures.
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error)

	// GetBalance returns the available USDC balance for the wallet.
	GetBalance(ctx context.Context) (float64, error)
}
