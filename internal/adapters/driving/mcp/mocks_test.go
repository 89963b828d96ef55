package mcp

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer  *domain.Answer
	err     error
	lastReq domain.QueryRequest
}

func (m *mockQueryService) Ask(_ context.Context, req domain.QueryRequest) (*domain.Answer, error) {
	m.lastReq = req
	return m.answer, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	result  *domain.UploadResult
	exts    []string
	err     error
	lastReq domain.UploadRequest
}

func (m *mockDocumentService) Upload(_ context.Context, req domain.UploadRequest) (*domain.UploadResult, error) {
	m.lastReq = req
	return m.result, m.err
}

func (m *mockDocumentService) SupportedExtensions() []string {
	return m.exts
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	exchanges   []domain.Exchange
	err         error
	lastSession string
}

func (m *mockHistoryService) List(_ context.Context, sessionID string) ([]domain.Exchange, error) {
	m.lastSession = sessionID
	return m.exchanges, m.err
}

func intPtr(n int) *int {
	return &n
}
