// Command docchat answers questions about documents with page citations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/extract/plaintext"
	"github.com/custodia-labs/docchat/internal/adapters/driven/extract/tabula"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	homeDir, err := file.DefaultDir()
	if err != nil {
		return err
	}

	configStore, err := file.NewConfigStore(homeDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		if dataDir, err = sqlite.DefaultDataDir(); err != nil {
			return err
		}
	}

	exchanges, closeStore, err := openExchangeStore(settings.Storage.Backend, dataDir)
	if err != nil {
		return err
	}
	defer closeStore.Close() //nolint:errcheck

	uploadStore, err := file.NewUploadStore(dataDir)
	if err != nil {
		return fmt.Errorf("preparing uploads: %w", err)
	}
	documentService := services.NewDocumentService(
		uploadStore,
		settings.Pipeline.PageBreak,
		tabula.New(tabula.DefaultParallelism),
		plaintext.New(),
	)

	sessions := services.NewSessionLog(exchanges)
	queryService := services.NewQueryService(newLLMService(&settings.LLM), sessions, settings.Pipeline)

	promptDir := filepath.Join(homeDir, "prompts")
	promptStore, err := file.NewPromptStore(promptDir, map[string]string{
		driven.PromptGroundedAnswer: services.DefaultGroundedPrompt(),
	})
	if err != nil {
		logger.Warn("using built-in prompt: %v", err)
	} else {
		queryService.SetPromptStore(promptStore)
	}

	deps := cli.Services{
		Document: documentService,
		Query:    queryService,
		History:  sessions,
		Settings: settingsService,
	}

	var store driven.PromptStore
	if promptStore != nil {
		store = promptStore
	}
	watcher, err := file.NewWatcher(configStore, store, promptDir)
	if err != nil {
		logger.Warn("config watcher unavailable: %v", err)
	} else {
		watcher.OnChange(func(change file.Change) {
			if change != file.ChangeConfig {
				return
			}
			updated, err := settingsService.Get()
			if err != nil {
				logger.Warn("reloading settings: %v", err)
				return
			}
			// Keep answering with the current model until the new one responds.
			llm, err := ai.CreateAndValidateLLMService(ctx, &updated.LLM)
			if err != nil {
				logger.Warn("keeping current LLM: %v", err)
				return
			}
			queryService.SetLLMService(llm)
			logger.Info("LLM reloaded: %s", updated.LLM.Provider)
		})
		deps.Watcher = watcher
	}

	cli.SetServices(deps)
	cli.SetVersion(version)
	return cli.Execute(ctx)
}

// openExchangeStore opens the configured exchange store.
func openExchangeStore(backend domain.StorageBackend, dataDir string) (driven.ExchangeStore, io.Closer, error) {
	switch backend {
	case domain.StorageMemory:
		store := memory.NewExchangeStore()
		return store, store, nil
	case domain.StorageSQLite, "":
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return db.ExchangeStore(), db, nil
	default:
		return nil, nil, errors.New("unknown storage backend: " + backend.String())
	}
}

// newLLMService builds the configured model client. Upload, history and
// settings work without one, so a missing or unreachable model is logged
// and questions fail with domain.ErrLLMUnavailable instead.
func newLLMService(settings *domain.LLMSettings) driven.LLMService {
	if !settings.IsConfigured() {
		logger.Debug("LLM not configured")
		return nil
	}
	llm, err := ai.CreateLLMService(settings)
	if err != nil {
		logger.Warn("LLM unavailable: %v", err)
		return nil
	}
	return llm
}
