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

// newTestSettingsService isolates the service from the process environment.
func newTestSettingsService(env map[string]string, validator *mockAIConfigValidator) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	var service *SettingsService
	if validator != nil {
		service = NewSettingsService(store, validator)
	} else {
		service = NewSettingsService(store, nil)
	}
	service.getenv = func(key string) string { return env[key] }
	return service, store
}

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service, _ := newTestSettingsService(nil, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Pipeline, settings.Pipeline)
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.False(t, settings.LLM.IsConfigured())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	service, store := newTestSettingsService(nil, nil)
	_ = store.Set("llm.provider", "gemini")
	_ = store.Set("llm.model", "gemini-2.0-flash")
	_ = store.Set("llm.api_key", "file-key")
	_ = store.Set("llm.requests_per_minute", 30)
	_ = store.Set("pipeline.max_chars", 5000)
	_ = store.Set("pipeline.generation_timeout_seconds", 45)
	_ = store.Set("storage.backend", "memory")
	_ = store.Set("storage.data_dir", "/tmp/docchat")

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", settings.LLM.Model)
	assert.Equal(t, "file-key", settings.LLM.APIKey)
	assert.Equal(t, 30, settings.LLM.RequestsPerMinute)
	assert.Equal(t, 5000, settings.Pipeline.MaxChars)
	assert.Equal(t, 45*time.Second, settings.Pipeline.GenerationTimeout)
	assert.Equal(t, domain.DefaultPersistTimeout, settings.Pipeline.PersistTimeout)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)
	assert.Equal(t, "/tmp/docchat", settings.Storage.DataDir)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	service, store := newTestSettingsService(nil, nil)
	_ = store.Set("llm.provider", "invalid_provider")
	_ = store.Set("storage.backend", "postgres")
	_ = store.Set("pipeline.generation_timeout_seconds", -3)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, defaults.Pipeline.GenerationTimeout, settings.Pipeline.GenerationTimeout)
}

func TestSettingsService_Get_EnvAPIKeyWins(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"provider env", map[string]string{"GEMINI_API_KEY": "gem-env"}, "gem-env"},
		{"app env beats provider env", map[string]string{"GEMINI_API_KEY": "gem-env", EnvAPIKey: "app-env"}, "app-env"},
		{"no env", nil, "file-key"},
		{"other provider env ignored", map[string]string{"OPENAI_API_KEY": "oa"}, "file-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newTestSettingsService(tt.env, nil)
			_ = store.Set("llm.provider", "gemini")
			_ = store.Set("llm.api_key", "file-key")

			settings, err := service.Get()

			require.NoError(t, err)
			assert.Equal(t, tt.want, settings.LLM.APIKey)
		})
	}
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	service, store := newTestSettingsService(nil, nil)
	settings := domain.DefaultAppSettings()
	settings.LLM = domain.LLMSettings{
		Provider:          domain.AIProviderOpenAI,
		Model:             "gpt-4o-mini",
		APIKey:            "sk-test",
		RequestsPerMinute: 10,
	}
	settings.Pipeline.MaxChars = 1234
	settings.Pipeline.PersistTimeout = 3 * time.Second
	settings.Storage.DataDir = "/var/lib/docchat"

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, 3, store.GetInt("pipeline.persist_timeout_seconds"))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Save_DoesNotPersistEnvKey(t *testing.T) {
	service, store := newTestSettingsService(map[string]string{"ANTHROPIC_API_KEY": "env-key"}, nil)
	settings := domain.DefaultAppSettings()
	settings.LLM = domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "env-key"}

	require.NoError(t, service.Save(&settings))

	assert.Empty(t, store.GetString("llm.api_key"))
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	t.Run("cloud provider with key", func(t *testing.T) {
		service, _ := newTestSettingsService(nil, nil)

		require.NoError(t, service.SetLLMProvider(domain.AIProviderGemini, "", "g-key"))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderGemini, settings.LLM.Provider)
		assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderGemini], settings.LLM.Model)
		assert.Equal(t, "g-key", settings.LLM.APIKey)
		assert.Empty(t, settings.LLM.BaseURL)
		assert.True(t, settings.LLM.IsConfigured())
	})

	t.Run("local provider gets base url", func(t *testing.T) {
		service, _ := newTestSettingsService(nil, nil)

		require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "llama3.2", ""))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, "llama3.2", settings.LLM.Model)
		assert.Equal(t, "http://localhost:11434", settings.LLM.BaseURL)
	})

	t.Run("missing key", func(t *testing.T) {
		service, _ := newTestSettingsService(nil, nil)

		err := service.SetLLMProvider(domain.AIProviderOpenAI, "", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("key from environment", func(t *testing.T) {
		service, _ := newTestSettingsService(map[string]string{"OPENAI_API_KEY": "sk-env"}, nil)

		require.NoError(t, service.SetLLMProvider(domain.AIProviderOpenAI, "", ""))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, "sk-env", settings.LLM.APIKey)
	})

	t.Run("invalid provider", func(t *testing.T) {
		service, _ := newTestSettingsService(nil, nil)

		assert.Error(t, service.SetLLMProvider(domain.AIProvider("bogus"), "", "k"))
	})
}

func TestSettingsService_SetMaxChars(t *testing.T) {
	service, _ := newTestSettingsService(nil, nil)

	require.NoError(t, service.SetMaxChars(9000))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 9000, settings.Pipeline.MaxChars)

	assert.Error(t, service.SetMaxChars(0))
	assert.Error(t, service.SetMaxChars(-1))
}

func TestSettingsService_Validate(t *testing.T) {
	service, store := newTestSettingsService(nil, nil)

	err := service.Validate()
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	_ = store.Set("llm.provider", "ollama")
	assert.NoError(t, service.Validate())

	_ = store.Set("pipeline.page_break", "")
	assert.NoError(t, service.Validate(), "empty page break falls back to default")
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service, _ := newTestSettingsService(nil, nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_ValidateLLMConfig(t *testing.T) {
	t.Run("no validator", func(t *testing.T) {
		service, _ := newTestSettingsService(nil, nil)
		assert.NoError(t, service.ValidateLLMConfig(context.Background()))
	})

	t.Run("validator error propagates", func(t *testing.T) {
		validator := &mockAIConfigValidator{llmErr: errors.New("connection refused")}
		service, _ := newTestSettingsService(nil, validator)

		err := service.ValidateLLMConfig(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, 1, validator.calls)
	})
}
