package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SettingsService reads and writes the user's LLM, pipeline and storage
// settings. Values resolve from the config file, then provider environment
// variables, then built-in defaults.
type SettingsService interface {
	// Get returns the effective settings.
	Get() (*domain.AppSettings, error)

	// Save writes settings in one update. Keys supplied by the
	// environment are not written.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider switches provider and model. An empty model selects
	// the provider default.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetMaxChars updates the context budget. It must be positive.
	SetMaxChars(maxChars int) error

	// Validate reports whether the settings can answer questions.
	Validate() error

	// GetDefaults returns the built-in settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig pings the configured provider.
	ValidateLLMConfig(ctx context.Context) error
}
