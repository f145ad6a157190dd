package livereload

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce batches the burst of events an editor save produces
const DefaultDebounce = 200 * time.Millisecond

// Notifier is told after every successful reload
type Notifier interface {
	Broadcast(ctx context.Context, msg string) int
}

// Watcher reloads the site when files under dir change
type Watcher struct {
	dir      string
	fsw      *fsnotify.Watcher
	reload   func() error
	notifier Notifier
	debounce time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	reloads int
}

// NewWatcher watches dir and every directory below it
func NewWatcher(dir string, reload func() error, notifier Notifier, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		fsw:      fsw,
		reload:   reload,
		notifier: notifier,
		debounce: DefaultDebounce,
		log:      log.With().Str("component", "livereload_watcher").Logger(),
	}

	if err := w.addTree(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce changes the quiet period before a reload fires
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

// Run handles events until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		_ = w.fsw.Close()
	}()

	w.log.Info().Str("dir", w.dir).Msg("Watching assets for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new directory")
			}
		}
	}

	w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Asset changed")

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	if err := w.reload(); err != nil {
		w.log.Error().Err(err).Msg("Reload failed, browsers not notified")
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	n := 0
	if w.notifier != nil {
		n = w.notifier.Broadcast(context.Background(), ReloadMessage)
	}
	w.log.Info().Int("clients", n).Msg("Assets reloaded")
}

// Reloads returns how many successful reloads have run
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}
