package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay is how long the watcher collects changes before
// analyzing them.
const DefaultDebounceDelay = 200 * time.Millisecond

// watchedExtensions are the file types re-analyzed in a watched directory.
var watchedExtensions = map[string]bool{
	".html":   true,
	".htm":    true,
	".xhtml":  true,
	".json":   true,
	".jsonld": true,
}

// WatcherConfig configures the file watcher
type WatcherConfig struct {
	// Paths are files or directories to watch. Directories are watched
	// recursively for HTML and JSON-LD files.
	Paths []string

	// Input selects how changed files are read.
	Input Input

	// DebounceDelay is how long to wait for more changes before processing
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// WatchEvent represents a file change event
type WatchEvent struct {
	Path      string
	Operation WatchOperation

	// Result is the analysis result (nil for delete operations)
	Result *Result

	// Error if analysis failed
	Error error
}

// WatchOperation indicates the type of file operation
type WatchOperation string

const (
	OpCreate WatchOperation = "create"
	OpModify WatchOperation = "modify"
	OpDelete WatchOperation = "delete"
)

// Watcher re-analyzes files when they change and emits the results.
type Watcher struct {
	config   WatcherConfig
	analyzer *Analyzer
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// files are explicitly watched files; their directories are watched
	// but sibling files are ignored unless they lie under dirs.
	files map[string]bool
	dirs  []string

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → most recent operation

	hashMu sync.RWMutex
	hashes map[string]string // path → content hash

	events chan WatchEvent
	done   chan struct{}
}

// NewWatcher creates a file watcher analyzing changes with analyzer.
func NewWatcher(analyzer *Analyzer, config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = DefaultDebounceDelay
	}

	return &Watcher{
		config:   config,
		analyzer: analyzer,
		watcher:  fsw,
		logger:   logger,
		files:    make(map[string]bool),
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
		events:   make(chan WatchEvent, 100),
	}, nil
}

// Events returns the channel of watch events
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching the configured paths.
func (w *Watcher) Start(ctx context.Context) error {
	for _, p := range w.config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
			if err := w.addWatchesRecursive(abs); err != nil {
				return err
			}
			continue
		}
		w.files[abs] = true
		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
		w.recordHash(abs)
	}

	w.done = make(chan struct{})
	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"paths", len(w.config.Paths),
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher and closes the event channel once no more events
// can be sent.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.done != nil {
		<-w.done
	}
	close(w.events)
	return err
}

// SetHash records the hash for a file
func (w *Watcher) SetHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

// GetHash returns the recorded hash for a file
func (w *Watcher) GetHash(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[path]
	return hash, ok
}

func (w *Watcher) recordHash(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	w.SetHash(path, contentHash(content))
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if w.isWatchedFile(path) {
				w.recordHash(path)
			}
			return nil
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

// isWatchedFile reports whether changes to path are analyzed.
func (w *Watcher) isWatchedFile(path string) bool {
	if w.files[path] {
		return true
	}
	return watchedExtensions[strings.ToLower(filepath.Ext(path))] && w.watchesTree(filepath.Dir(path))
}

// watchesTree reports whether dir lies inside a watched directory.
func (w *Watcher) watchesTree(dir string) bool {
	for _, root := range w.dirs {
		if rel, err := filepath.Rel(root, dir); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return
		}
	}
	if !w.isWatchedFile(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		"path", path,
		"op", event.Op.String())
}

func (w *Watcher) handleNewDirectory(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") || !w.watchesTree(path) {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
	} else {
		w.logger.Debug("Added watch for new directory", "path", path)
	}
}

// flushPending analyzes accumulated changes
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		event := WatchEvent{Path: path}

		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) || op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
				w.hashMu.Lock()
				delete(w.hashes, path)
				w.hashMu.Unlock()

				event.Operation = OpDelete
				w.sendEvent(event)
				continue
			}
			event.Operation = OpModify
			event.Error = err
			w.sendEvent(event)
			continue
		}

		hash := contentHash(content)
		oldHash, hadHash := w.GetHash(path)
		if hadHash && oldHash == hash {
			continue
		}
		w.SetHash(path, hash)

		if op.Has(fsnotify.Create) || !hadHash {
			event.Operation = OpCreate
		} else {
			event.Operation = OpModify
		}
		event.Result, event.Error = w.analyzer.AnalyzeFile(ctx, path, w.config.Input)

		w.sendEvent(event)
	}
}

// sendEvent sends an event to the output channel
func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event",
			"path", event.Path,
			"op", event.Operation)
	default:
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path)
	}
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
