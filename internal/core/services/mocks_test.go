package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// mockLLMService records prompts and replies with a canned answer.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	block    bool // wait for ctx to end before replying
	ignore   bool // with block, never reply until release is closed
	release  chan struct{}
	prompts  []string
	closed   int
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.block {
		if m.ignore {
			<-m.release
			return "late answer (Page 1)", nil
		}
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string {
	return "mock-model"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func (m *mockLLMService) closeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLMService) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// failingExchangeStore rejects every write.
type failingExchangeStore struct {
	mu      sync.Mutex
	appends int
}

var errStoreDown = errors.New("store unavailable")

func (s *failingExchangeStore) Append(_ context.Context, _ domain.Exchange) error {
	s.mu.Lock()
	s.appends++
	s.mu.Unlock()
	return errStoreDown
}

func (s *failingExchangeStore) ListBySession(_ context.Context, _ string) ([]domain.Exchange, error) {
	return nil, errStoreDown
}

func (s *failingExchangeStore) Close() error {
	return nil
}

// mockPromptStore serves fixed templates.
type mockPromptStore struct {
	prompts map[string]string
	err     error
	reloads int
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {
	m.reloads++
}

// mockExtractor returns canned text for its extensions.
type mockExtractor struct {
	exts  []string
	text  string
	err   error
	paths []string
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	m.paths = append(m.paths, path)
	return m.text, m.err
}

func (m *mockExtractor) SupportedExtensions() []string {
	return m.exts
}

// mockUploadStore records saves.
type mockUploadStore struct {
	url    string
	err    error
	fields []string
}

func (m *mockUploadStore) Save(_ context.Context, _, fieldName string) (string, error) {
	m.fields = append(m.fields, fieldName)
	return m.url, m.err
}

// mockAIConfigValidator returns a fixed error.
type mockAIConfigValidator struct {
	llmErr error
	calls  int
}

func (m *mockAIConfigValidator) ValidateLLM(_ context.Context, _ *domain.LLMSettings) error {
	m.calls++
	return m.llmErr
}
