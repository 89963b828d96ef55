package domain

import "time"

const unknownDescription = "Unknown"

// Pipeline defaults.
const (
	// DefaultMaxChars is the context budget for document text in one prompt.
	DefaultMaxChars = 150000

	// DefaultGenerationTimeout bounds a single language model call.
	DefaultGenerationTimeout = 120 * time.Second

	// DefaultPersistTimeout bounds a single exchange write.
	DefaultPersistTimeout = 10 * time.Second
)

// AIProvider identifies a language model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// APIKeyEnv returns the conventional environment variable holding the
// provider's API key, or "" for providers without one.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// RequestsPerMinute caps outgoing model calls. Zero means unlimited.
	RequestsPerMinute int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// PipelineSettings holds query pipeline configuration.
type PipelineSettings struct {
	// MaxChars is the context budget for document text.
	MaxChars int

	// PageBreak is the separator between pages in raw extracted text.
	PageBreak string

	// GenerationTimeout bounds a single language model call.
	GenerationTimeout time.Duration

	// PersistTimeout bounds a single exchange write.
	PersistTimeout time.Duration
}

// StorageBackend selects where exchanges are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists exchanges in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps exchanges in process memory only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Backend selects the exchange store implementation.
	Backend StorageBackend

	// DataDir is where the database and uploads live. Empty means ~/.docchat/data.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Pipeline holds query pipeline settings.
	Pipeline PipelineSettings

	// Storage holds persistence settings.
	Storage StorageSettings
}

// DefaultPipelineSettings returns the pipeline defaults.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		MaxChars:          DefaultMaxChars,
		PageBreak:         DefaultPageBreak,
		GenerationTimeout: DefaultGenerationTimeout,
		PersistTimeout:    DefaultPersistTimeout,
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; users set it up via the settings command.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM:      LLMSettings{},
		Pipeline: DefaultPipelineSettings(),
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-1.5-flash",
	}
}
