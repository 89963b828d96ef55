package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

const defaultMaxChars = domain.DefaultMaxChars

// generateOptions are the model settings for grounded answers.
var generateOptions = driven.GenerateOptions{
	Temperature: 0.2,
}

// QueryService answers questions grounded in document text.
type QueryService struct {
	mu                sync.RWMutex
	lease             *llmLease
	sessions          *SessionLog
	segmenter         *PageSegmenter
	windower          *ContextWindower
	assembler         *PromptAssembler
	generationTimeout time.Duration
	persistTimeout    time.Duration
}

// NewQueryService creates a query service.
// The llmService parameter is optional; without it Ask fails with
// domain.ErrLLMUnavailable after validating input.
func NewQueryService(
	llmService driven.LLMService,
	sessions *SessionLog,
	cfg domain.PipelineSettings,
) *QueryService {
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = domain.DefaultGenerationTimeout
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = domain.DefaultPersistTimeout
	}

	return &QueryService{
		lease:             newLLMLease(llmService),
		sessions:          sessions,
		segmenter:         NewPageSegmenter(cfg.PageBreak),
		windower:          NewContextWindower(cfg.MaxChars),
		assembler:         NewPromptAssembler(),
		generationTimeout: cfg.GenerationTimeout,
		persistTimeout:    cfg.PersistTimeout,
	}
}

// llmLease counts the generations running on one model client, so a
// replaced client is closed only after they finish.
type llmLease struct {
	svc      driven.LLMService
	inflight sync.WaitGroup
}

func newLLMLease(svc driven.LLMService) *llmLease {
	if svc == nil {
		return nil
	}
	return &llmLease{svc: svc}
}

// SetLLMService replaces the language model, for example after the
// configuration changes. Questions already generating finish on the old
// model, which is closed once the last of them returns.
func (s *QueryService) SetLLMService(llm driven.LLMService) {
	s.mu.Lock()
	old := s.lease
	s.lease = newLLMLease(llm)
	s.mu.Unlock()

	if old == nil || old.svc == llm {
		return
	}
	go func() {
		old.inflight.Wait()
		if err := old.svc.Close(); err != nil {
			logger.Warn("Closing replaced LLM %s: %v", old.svc.ModelName(), err)
		}
	}()
}

// acquire returns the current model with one generation counted against
// it, or nil when no model is set. The caller must call inflight.Done.
func (s *QueryService) acquire() *llmLease {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lease != nil {
		s.lease.inflight.Add(1)
	}
	return s.lease
}

// SetPromptStore sets the prompt store for the grounded-answer template.
func (s *QueryService) SetPromptStore(store driven.PromptStore) {
	s.assembler.SetPromptStore(store)
}

// Ask answers one question against the supplied document text and records
// the exchange. See driving.QueryService for the failure categories.
func (s *QueryService) Ask(ctx context.Context, req domain.QueryRequest) (*domain.Answer, error) {
	logger.Section("Grounded Query")

	if err := validateQuery(req); err != nil {
		logger.Debug("Rejected query: %v", err)
		return nil, err
	}
	lease := s.acquire()
	if lease == nil {
		return nil, domain.ErrLLMUnavailable
	}

	// Rendered text never contains the page break, so text that still has
	// one is raw even when it opens with a page heading.
	document := req.ExtractedText
	if IsLabeled(document) && !strings.Contains(document, s.segmenter.PageBreak()) {
		logger.Debug("Document already labeled (%d chars)", len(document))
	} else {
		var pages []domain.Page
		document, pages = s.segmenter.Label(document)
		logger.Event("segment", "pages", len(pages))
	}

	document, truncated := s.windower.Window(document)
	if truncated {
		logger.Info("Document truncated to %d characters", s.windower.MaxChars())
	}

	prompt := s.assembler.Assemble(document, req.UserQuery)
	logger.Event("assemble", "prompt_chars", len(prompt), "truncated", truncated)

	raw, err := s.generate(ctx, lease, prompt)
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return nil, &domain.GenerationError{Err: err}
	}

	text, citation := ResolveCitation(raw)
	answer := &domain.Answer{
		AIResponse: text,
		Truncated:  truncated,
	}
	if citation != nil {
		page := citation.PageNumber
		answer.PageCitation = &page
		logger.Event("resolve", "page", page)
	} else {
		logger.Debug("No page citation in answer")
	}

	ex, err := s.persist(ctx, req, text, citation)
	if err != nil {
		logger.Warn("Persisting exchange failed: %v", err)
		return nil, &domain.PersistenceError{Answer: *answer, Err: err}
	}
	answer.ExchangeID = ex.ID

	return answer, nil
}

// validateQuery checks that every required field is present.
func validateQuery(req domain.QueryRequest) error {
	switch {
	case strings.TrimSpace(req.UserQuery) == "":
		return &domain.ValidationError{Field: "userQuery"}
	case strings.TrimSpace(req.ExtractedText) == "":
		return &domain.ValidationError{Field: "extractedText"}
	case strings.TrimSpace(req.SessionID) == "":
		return &domain.ValidationError{Field: "sessionId"}
	default:
		return nil
	}
}

// generateResult carries a model reply across the goroutine boundary.
type generateResult struct {
	text string
	err  error
}

// generate calls the model under the generation timeout. The deadline is
// enforced here as well as through ctx, so an adapter that ignores ctx
// cannot stall the exchange.
// The lease is released when the model call returns, which may be after
// generate has given up on it.
func (s *QueryService) generate(ctx context.Context, lease *llmLease, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()

	llm := lease.svc
	logger.Debug("Generating with %s (timeout %s)", llm.ModelName(), s.generationTimeout)

	done := make(chan generateResult, 1)
	go func() {
		defer lease.inflight.Done()
		text, err := llm.Generate(ctx, prompt, generateOptions)
		done <- generateResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) &&
			!errors.Is(res.err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", context.DeadlineExceeded, res.err)
		}
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// persist records the exchange under the persistence timeout.
func (s *QueryService) persist(
	ctx context.Context, req domain.QueryRequest, text string, citation *domain.Citation,
) (*domain.Exchange, error) {
	if s.sessions == nil {
		return nil, errors.New("session log not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	ex, err := s.sessions.Append(ctx, req.SessionID, req.UserQuery, text, citation)
	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		// Only the model's answer can be empty at this point.
		return nil, fmt.Errorf("exchange not recorded: empty %s", invalid.Field)
	}
	if err != nil {
		return nil, err
	}
	logger.Event("persist", "exchange", ex.ID, "session", ex.SessionID)
	return ex, nil
}
