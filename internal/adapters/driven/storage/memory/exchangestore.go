package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure ExchangeStore implements the interface.
var _ driven.ExchangeStore = (*ExchangeStore)(nil)

// ExchangeStore is an in-memory implementation of driven.ExchangeStore.
// Exchanges are lost when the process exits.
type ExchangeStore struct {
	mu        sync.RWMutex
	exchanges map[string][]domain.Exchange
	ids       map[string]struct{}
}

// NewExchangeStore creates a new in-memory exchange store.
func NewExchangeStore() *ExchangeStore {
	return &ExchangeStore{
		exchanges: make(map[string][]domain.Exchange),
		ids:       make(map[string]struct{}),
	}
}

// Append records a new exchange. Re-using an exchange ID is rejected.
func (s *ExchangeStore) Append(ctx context.Context, ex domain.Exchange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.ids[ex.ID]; dup {
		return domain.ErrAlreadyExists
	}
	ex = cloneExchange(ex)
	s.ids[ex.ID] = struct{}{}
	s.exchanges[ex.SessionID] = append(s.exchanges[ex.SessionID], ex)
	return nil
}

// ListBySession returns a session's exchanges ordered by creation time.
func (s *ExchangeStore) ListBySession(_ context.Context, sessionID string) ([]domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.exchanges[sessionID]
	result := make([]domain.Exchange, len(stored))
	for i, ex := range stored {
		result[i] = cloneExchange(ex)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Count returns the total number of stored exchanges.
func (s *ExchangeStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Close is a no-op for the memory store.
func (s *ExchangeStore) Close() error {
	return nil
}

// cloneExchange copies ex so no pointer is shared with the caller.
func cloneExchange(ex domain.Exchange) domain.Exchange {
	if ex.PageCitation != nil {
		page := *ex.PageCitation
		ex.PageCitation = &page
	}
	return ex
}
