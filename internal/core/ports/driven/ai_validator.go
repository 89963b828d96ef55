package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AIConfigValidator checks that LLM settings reach a working provider
// before they are relied on.
type AIConfigValidator interface {
	// ValidateLLM builds a client for config and pings it. Unconfigured
	// settings are not an error. Failures wrap domain.ErrLLMUnavailable.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}
