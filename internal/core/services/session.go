package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure SessionLog implements the interface.
var _ driving.HistoryService = (*SessionLog)(nil)

// NewSessionID mints an opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// SessionLog records exchanges for a session. It validates each exchange
// before any write reaches the underlying store.
//
// Appends for the same session are not serialised: two concurrent questions
// may be recorded in either order.
type SessionLog struct {
	store driven.ExchangeStore
	now   func() time.Time
	newID func() string
}

// NewSessionLog creates a session log backed by store.
func NewSessionLog(store driven.ExchangeStore) *SessionLog {
	return &SessionLog{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Append validates and records one exchange, returning the stored record.
// Missing fields fail with *domain.ValidationError before the store is called.
func (l *SessionLog) Append(
	ctx context.Context, sessionID, userQuery, aiResponse string, citation *domain.Citation,
) (*domain.Exchange, error) {
	switch {
	case strings.TrimSpace(sessionID) == "":
		return nil, &domain.ValidationError{Field: "sessionId"}
	case strings.TrimSpace(userQuery) == "":
		return nil, &domain.ValidationError{Field: "userQuery"}
	case strings.TrimSpace(aiResponse) == "":
		return nil, &domain.ValidationError{Field: "aiResponse"}
	}
	if l.store == nil {
		return nil, fmt.Errorf("exchange store not configured")
	}

	ex := domain.Exchange{
		ID:         l.newID(),
		SessionID:  sessionID,
		UserQuery:  userQuery,
		AIResponse: aiResponse,
		CreatedAt:  l.now().UTC(),
	}
	if citation != nil {
		page := citation.PageNumber
		ex.PageCitation = &page
	}

	if err := l.store.Append(ctx, ex); err != nil {
		return nil, fmt.Errorf("append exchange: %w", err)
	}
	return &ex, nil
}

// List returns a session's exchanges in creation order.
func (l *SessionLog) List(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, &domain.ValidationError{Field: "sessionId"}
	}
	if l.store == nil {
		return nil, fmt.Errorf("exchange store not configured")
	}
	exchanges, err := l.store.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	return exchanges, nil
}
