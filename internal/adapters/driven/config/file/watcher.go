package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultDebounce groups the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Change identifies what was reloaded.
type Change string

// Reload kinds.
const (
	ChangeConfig  Change = "config"
	ChangePrompts Change = "prompts"
)

// Watcher reloads the config store and prompt store when their files change.
type Watcher struct {
	watcher     *fsnotify.Watcher
	configStore driven.ConfigStore
	promptStore driven.PromptStore
	promptDir   string
	debounce    time.Duration
	onChange    func(Change)

	mu      sync.Mutex
	pending map[Change]time.Time
	started bool
	done    chan struct{}
}

// NewWatcher creates a watcher. Either store may be nil. promptDir is only
// watched when a prompt store is given.
func NewWatcher(configStore driven.ConfigStore, promptStore driven.PromptStore, promptDir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		watcher:     fw,
		configStore: configStore,
		promptStore: promptStore,
		promptDir:   promptDir,
		debounce:    DefaultDebounce,
		pending:     make(map[Change]time.Time),
		done:        make(chan struct{}),
	}, nil
}

// OnChange registers a callback run after each reload.
func (w *Watcher) OnChange(fn func(Change)) {
	w.onChange = fn
}

// Start begins watching. Events are processed until ctx is cancelled or
// Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if w.configStore != nil {
		dir := filepath.Dir(w.configStore.Path())
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	if w.promptStore != nil && w.promptDir != "" {
		if err := w.watcher.Add(w.promptDir); err != nil {
			return fmt.Errorf("watch %s: %w", w.promptDir, err)
		}
	}

	w.mu.Lock()
	w.started = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if kind, ok := w.classify(event); ok {
				w.mu.Lock()
				w.pending[kind] = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error: %v", err)

		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

// classify maps a filesystem event to the store it affects.
func (w *Watcher) classify(event fsnotify.Event) (Change, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return "", false
	}
	name := filepath.Clean(event.Name)
	if w.configStore != nil && name == filepath.Clean(w.configStore.Path()) {
		return ChangeConfig, true
	}
	if w.promptStore != nil && filepath.Dir(name) == filepath.Clean(w.promptDir) &&
		strings.HasSuffix(name, ".txt") {
		return ChangePrompts, true
	}
	return "", false
}

// flush reloads every store whose last event is older than the debounce.
func (w *Watcher) flush(now time.Time) {
	var due []Change
	w.mu.Lock()
	for kind, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			due = append(due, kind)
			delete(w.pending, kind)
		}
	}
	w.mu.Unlock()

	for _, kind := range due {
		w.reload(kind)
	}
}

func (w *Watcher) reload(kind Change) {
	switch kind {
	case ChangeConfig:
		if err := w.configStore.Load(); err != nil {
			logger.Warn("Reloading %s failed: %v", w.configStore.Path(), err)
			return
		}
	case ChangePrompts:
		w.promptStore.Reload()
	}
	logger.Info("Reloaded %s", kind)
	if w.onChange != nil {
		w.onChange(kind)
	}
}
