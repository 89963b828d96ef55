package driven

// ConfigStore holds the user's settings as dotted keys ("llm.provider",
// "pipeline.max_chars"). Implementations handle persistence and the
// type conversion of decoded values.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// Set stores one value and persists immediately.
	Set(key string, value any) error

	// Update stores several values and persists them in a single write,
	// so a watcher sees one change.
	Update(values map[string]any) error

	// Load re-reads configuration from storage. On a malformed file the
	// previous values are kept and the error is returned.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
