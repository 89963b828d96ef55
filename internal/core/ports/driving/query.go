package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// QueryService is the query boundary: it answers one question grounded
// in the supplied document text and records the exchange.
//
// Failures are distinguishable with errors.Is:
//   - domain.ErrInvalidInput: a required field was missing (nothing was called)
//   - domain.ErrLLMUnavailable: no language model is configured
//   - domain.ErrGenerationFailed / domain.ErrGenerationTimeout: no answer was produced
//   - domain.ErrPersistenceFailed: the answer is valid (see domain.PersistenceError)
//     but the exchange was not recorded
type QueryService interface {
	// Ask answers req.UserQuery against req.ExtractedText.
	Ask(ctx context.Context, req domain.QueryRequest) (*domain.Answer, error)
}

// HistoryService reads persisted exchanges.
type HistoryService interface {
	// List returns a session's exchanges in creation order.
	List(ctx context.Context, sessionID string) ([]domain.Exchange, error)
}
