// Package ratelimit wraps an LLM service with a client-side request budget.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/custodia-labs/docchat/internal/adapters/driven/llm/httpapi"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultBackoff is how long calls pause after the provider reports a
// quota error without a Retry-After hint.
const DefaultBackoff = 30 * time.Second

// LLMService limits calls to the wrapped service to a fixed number per minute.
// After a quota error from the provider, further calls wait out a backoff.
type LLMService struct {
	inner   driven.LLMService
	limiter *rate.Limiter
	backoff time.Duration

	mu      sync.Mutex
	retryAt time.Time
	now     func() time.Time
}

// New wraps inner so at most requestsPerMinute calls start per minute.
// A non-positive limit returns inner unchanged.
func New(inner driven.LLMService, requestsPerMinute int) driven.LLMService {
	if requestsPerMinute <= 0 || inner == nil {
		return inner
	}
	return newLimited(inner, requestsPerMinute)
}

func newLimited(inner driven.LLMService, requestsPerMinute int) *LLMService {
	every := time.Minute / time.Duration(requestsPerMinute)
	return &LLMService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(every), 1),
		backoff: DefaultBackoff,
		now:     time.Now,
	}
}

// Generate waits for a slot, then delegates. Waiting honours ctx, so a
// caller's deadline covers time spent queued.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	text, err := s.inner.Generate(ctx, prompt, opts)
	if err != nil {
		if d, ok := s.quotaBackoff(err); ok {
			s.recordQuotaError(d)
		}
	}
	return text, err
}

func (s *LLMService) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if d := retryAt.Sub(s.now()); d > 0 {
		logger.Debug("LLM quota backoff: waiting %s", d.Round(time.Millisecond))
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return s.limiter.Wait(ctx)
}

func (s *LLMService) recordQuotaError(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryAt = s.now().Add(d)
	logger.Warn("LLM provider reported a quota error; backing off for %s", d)
}

// quotaBackoff reports whether err is a quota rejection and how long to
// pause. HTTP adapters return *httpapi.Error; Gemini returns genai.APIError.
func (s *LLMService) quotaBackoff(err error) (time.Duration, bool) {
	var apiErr *httpapi.Error
	if errors.As(err, &apiErr) {
		if !apiErr.RateLimited() {
			return 0, false
		}
		if apiErr.RetryAfter > 0 {
			return apiErr.RetryAfter, true
		}
		return s.backoff, true
	}

	if geminiStatus(err) == http.StatusTooManyRequests {
		return s.backoff, true
	}
	return 0, false
}

// geminiStatus returns the HTTP code of a Gemini SDK error, or 0.
func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming the request budget.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
