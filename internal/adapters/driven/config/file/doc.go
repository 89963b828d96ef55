// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.docchat.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable prompt templates
//   - UploadStore: Copies of uploaded documents
//   - Watcher: Reloads configuration and prompts when they change on disk
package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir returns the docchat home directory, ~/.docchat.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".docchat"), nil
}
