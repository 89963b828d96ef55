// Package driven lists what the services need from the outside world.
//
// Extraction (TextExtractor), history (ExchangeStore) and settings
// (ConfigStore) are always wired. LLMService, PromptStore and UploadStore
// may be nil: without a model, questions fail with ErrLLMUnavailable;
// without a prompt store, the built-in template is used; without an upload
// store, files are read in place.
//
// Implementations live under internal/adapters/driven.
package driven
