package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestNewSessionID_Unique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestSessionLog_Append(t *testing.T) {
	store := memory.NewExchangeStore()
	log := NewSessionLog(store)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	log.now = func() time.Time { return fixed }
	log.newID = func() string { return "ex-1" }

	ex, err := log.Append(context.Background(), "s1", "What?", "Because.", &domain.Citation{PageNumber: 4})

	require.NoError(t, err)
	assert.Equal(t, "ex-1", ex.ID)
	assert.Equal(t, "s1", ex.SessionID)
	assert.Equal(t, "What?", ex.UserQuery)
	assert.Equal(t, "Because.", ex.AIResponse)
	require.NotNil(t, ex.PageCitation)
	assert.Equal(t, 4, *ex.PageCitation)
	assert.Equal(t, fixed, ex.CreatedAt)

	stored, err := store.ListBySession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, *ex, stored[0])
}

func TestSessionLog_Append_NilCitation(t *testing.T) {
	log := NewSessionLog(memory.NewExchangeStore())

	ex, err := log.Append(context.Background(), "s1", "What?", "No idea.", nil)

	require.NoError(t, err)
	assert.Nil(t, ex.PageCitation)
	assert.NotEmpty(t, ex.ID)
	assert.False(t, ex.CreatedAt.IsZero())
}

func TestSessionLog_Append_RejectsMissingFieldsBeforeWriting(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		query     string
		response  string
		field     string
	}{
		{"missing session", "", "q", "a", "sessionId"},
		{"blank session", "   ", "q", "a", "sessionId"},
		{"missing query", "s", "", "a", "userQuery"},
		{"missing response", "s", "q", "", "aiResponse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &failingExchangeStore{}
			log := NewSessionLog(store)

			_, err := log.Append(context.Background(), tt.sessionID, tt.query, tt.response, nil)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, store.appends)
		})
	}
}

func TestSessionLog_Append_StoreFailure(t *testing.T) {
	log := NewSessionLog(&failingExchangeStore{})

	_, err := log.Append(context.Background(), "s", "q", "a", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
}

func TestSessionLog_List_InOrder(t *testing.T) {
	log := NewSessionLog(memory.NewExchangeStore())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	log.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	ctx := context.Background()

	_, err := log.Append(ctx, "s1", "first", "one", nil)
	require.NoError(t, err)
	_, err = log.Append(ctx, "s2", "other", "two", nil)
	require.NoError(t, err)
	_, err = log.Append(ctx, "s1", "second", "three", nil)
	require.NoError(t, err)

	got, err := log.List(ctx, "s1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].UserQuery)
	assert.Equal(t, "second", got[1].UserQuery)
}

func TestSessionLog_List_RequiresSession(t *testing.T) {
	log := NewSessionLog(memory.NewExchangeStore())

	_, err := log.List(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
