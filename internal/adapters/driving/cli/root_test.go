package cli

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// mockDocumentService implements driving.DocumentService for CLI tests.
type mockDocumentService struct {
	result  *domain.UploadResult
	err     error
	lastReq domain.UploadRequest
}

func (m *mockDocumentService) Upload(_ context.Context, req domain.UploadRequest) (*domain.UploadResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockDocumentService) SupportedExtensions() []string {
	return []string{".docx", ".md", ".pdf", ".txt"}
}

// mockQueryService implements driving.QueryService for CLI tests.
type mockQueryService struct {
	answer  *domain.Answer
	err     error
	lastReq domain.QueryRequest
}

func (m *mockQueryService) Ask(_ context.Context, req domain.QueryRequest) (*domain.Answer, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockHistoryService implements driving.HistoryService for CLI tests.
type mockHistoryService struct {
	exchanges   []domain.Exchange
	err         error
	lastSession string
}

func (m *mockHistoryService) List(_ context.Context, sessionID string) ([]domain.Exchange, error) {
	m.lastSession = sessionID
	return m.exchanges, m.err
}

// mockSettingsService implements driving.SettingsService for CLI tests.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	maxChars    int
	provider    domain.AIProvider
	model       string
	apiKey      string
	pingErr     error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetMaxChars(maxChars int) error {
	if maxChars <= 0 {
		return errors.New("invalid")
	}
	m.maxChars = maxChars
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig(_ context.Context) error {
	return m.pingErr
}

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	document *mockDocumentService
	query    *mockQueryService
	history  *mockHistoryService
	settings *mockSettingsService
}

func intPtr(n int) *int {
	return &n
}

// setupTestServices installs mock services and returns them with a
// cleanup that restores the previous services and flag values.
func setupTestServices() (*testServices, func()) {
	prevDoc, prevQuery, prevHistory, prevSettings, prevWatcher :=
		documentService, queryService, historyService, settingsService, configWatcher

	ts := &testServices{
		document: &mockDocumentService{result: &domain.UploadResult{
			ExtractedText: "--- Page 1 ---\nRevenue grew.\n\n--- Page 2 ---\nCosts fell.",
			FileURL:       "file:///data/uploads/pdfFile-1.pdf",
			Pages: []domain.Page{
				{Index: 1, Text: "Revenue grew."},
				{Index: 2, Text: "Costs fell."},
			},
		}},
		query: &mockQueryService{answer: &domain.Answer{
			AIResponse:   "Revenue grew.",
			PageCitation: intPtr(1),
			ExchangeID:   "ex-1",
		}},
		history: &mockHistoryService{exchanges: []domain.Exchange{
			{
				ID:           "ex-1",
				SessionID:    "session-1",
				UserQuery:    "How did revenue change?",
				AIResponse:   "Revenue grew.",
				PageCitation: intPtr(1),
				CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			},
		}},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}
	SetServices(Services{
		Document: ts.document,
		Query:    ts.query,
		History:  ts.history,
		Settings: ts.settings,
	})

	return ts, func() {
		documentService, queryService, historyService, settingsService, configWatcher =
			prevDoc, prevQuery, prevHistory, prevSettings, prevWatcher
		askSessionID, askJSON = "", false
		uploadJSON, uploadShowText = false, false
		historyJSON = false
		rootCmd.SetArgs(nil)
	}
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
