package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMRPM            = "llm.requests_per_minute"
	keyMaxChars          = "pipeline.max_chars"
	keyPageBreak         = "pipeline.page_break"
	keyGenerationTimeout = "pipeline.generation_timeout_seconds"
	keyPersistTimeout    = "pipeline.persist_timeout_seconds"
	keyStorageBackend    = "storage.backend"
	keyStorageDataDir    = "storage.data_dir"
)

// EnvAPIKey overrides the configured LLM API key for any provider.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvAPIKey = "DOCCHAT_LLM_API_KEY"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// API keys from the environment take precedence over the config file.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:             s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			RequestsPerMinute: s.getInt(keyLLMRPM, defaults.LLM.RequestsPerMinute),
		},
		Pipeline: domain.PipelineSettings{
			MaxChars:          s.getInt(keyMaxChars, defaults.Pipeline.MaxChars),
			PageBreak:         s.getString(keyPageBreak, defaults.Pipeline.PageBreak),
			GenerationTimeout: s.getSeconds(keyGenerationTimeout, defaults.Pipeline.GenerationTimeout),
			PersistTimeout:    s.getSeconds(keyPersistTimeout, defaults.Pipeline.PersistTimeout),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
	}

	if key := s.envAPIKey(settings.LLM.Provider); key != "" {
		settings.LLM.APIKey = key
	}

	return settings, nil
}

// Save persists application settings in a single write.
// An API key that came from the environment is not written to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyLLMProvider:       settings.LLM.Provider.String(),
		keyLLMModel:          settings.LLM.Model,
		keyLLMBaseURL:        settings.LLM.BaseURL,
		keyLLMRPM:            settings.LLM.RequestsPerMinute,
		keyMaxChars:          settings.Pipeline.MaxChars,
		keyPageBreak:         settings.Pipeline.PageBreak,
		keyGenerationTimeout: int(settings.Pipeline.GenerationTimeout / time.Second),
		keyPersistTimeout:    int(settings.Pipeline.PersistTimeout / time.Second),
		keyStorageBackend:    settings.Storage.Backend.String(),
		keyStorageDataDir:    settings.Storage.DataDir,
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envAPIKey(settings.LLM.Provider) {
		values[keyLLMAPIKey] = settings.LLM.APIKey
	}

	if err := s.configStore.Update(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
// An empty apiKey is accepted when the provider's environment variable is set.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" && s.envAPIKey(provider) == "" {
		return fmt.Errorf("API key required for %s (or set %s)", provider, provider.APIKeyEnv())
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetMaxChars updates the context budget.
func (s *SettingsService) SetMaxChars(maxChars int) error {
	if maxChars <= 0 {
		return fmt.Errorf("max chars must be positive, got %d", maxChars)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Pipeline.MaxChars = maxChars
	return s.Save(settings)
}

// Validate checks if current settings are usable for answering questions.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: run 'docchat settings llm' to configure a provider", domain.ErrLLMUnavailable)
	}
	if settings.Pipeline.MaxChars <= 0 {
		return fmt.Errorf("invalid max chars: %d", settings.Pipeline.MaxChars)
	}
	if settings.Pipeline.PageBreak == "" {
		return fmt.Errorf("page break must not be empty")
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", settings.Storage.Backend)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig pings the provider named by the saved settings.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	if key := s.getenv(EnvAPIKey); key != "" {
		return key
	}
	if env := provider.APIKeyEnv(); env != "" {
		return s.getenv(env)
	}
	return ""
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
