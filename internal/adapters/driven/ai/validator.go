package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// DefaultPingTimeout bounds a single connectivity check.
const DefaultPingTimeout = 5 * time.Second

// ConfigValidator pings the provider described by LLM settings.
type ConfigValidator struct {
	timeout time.Duration
	create  func(*domain.LLMSettings) (driven.LLMService, error)
}

// NewConfigValidator creates a validator using DefaultPingTimeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: DefaultPingTimeout, create: CreateLLMService}
}

// WithTimeout returns a copy of v that waits at most d per ping.
func (v *ConfigValidator) WithTimeout(d time.Duration) *ConfigValidator {
	c := *v
	if d > 0 {
		c.timeout = d
	}
	return &c
}

// ValidateLLM builds a client for config, pings it and closes it.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, config *domain.LLMSettings) error {
	svc, err := v.open(ctx, config)
	if svc != nil {
		svc.Close()
	}
	return err
}

// open returns a pinged service, or nil when config is not set up.
func (v *ConfigValidator) open(ctx context.Context, config *domain.LLMSettings) (driven.LLMService, error) {
	if config == nil || !config.IsConfigured() {
		return nil, nil
	}

	svc, err := v.create(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docchat settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w). Run 'docchat settings llm' to fix",
			domain.ErrLLMUnavailable, config.Provider, err)
	}
	return svc, nil
}
