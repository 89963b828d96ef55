package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ExchangeStore persists question/answer exchanges keyed by session.
// Exchanges are append-only; the store never updates or deletes them.
type ExchangeStore interface {
	// Append records a new exchange.
	Append(ctx context.Context, exchange domain.Exchange) error

	// ListBySession returns a session's exchanges ordered by creation time.
	ListBySession(ctx context.Context, sessionID string) ([]domain.Exchange, error)

	// Close releases resources.
	Close() error
}
