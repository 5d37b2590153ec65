package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/amterp/kard/internal/config"
)

// ChangeType indicates what type of change occurred.
type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
)

// Kind indicates what kind of storage file changed.
type Kind string

const (
	KindRecord  Kind = "record"
	KindImage   Kind = "image"
	KindPalette Kind = "palette"
	KindUnknown Kind = "unknown"
)

// Change represents a storage directory change notification.
type Change struct {
	Type   ChangeType
	Kind   Kind
	CardID string // For record changes
	Path   string // Base filename within the storage directory
}

// Subscriber receives storage change notifications.
type Subscriber interface {
	OnStorageChange(change Change)
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc func(change Change)

func (f SubscriberFunc) OnStorageChange(change Change) {
	f(change)
}

// Watcher watches the storage directory for changes and notifies
// subscribers. Rapid changes to the same file are debounced.
type Watcher struct {
	watcher     *fsnotify.Watcher
	dir         string
	mu          sync.RWMutex
	subscribers []Subscriber
	debounce    map[string]*time.Timer
	debounceMu  sync.Mutex
	stopCh      chan struct{}
	stopped     bool // Once stopped, cannot restart
	running     bool
}

// New creates a watcher for the given storage directory.
func New(dir string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  watcher,
		dir:      dir,
		debounce: make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Subscribe adds a subscriber to receive change notifications.
func (w *Watcher) Subscribe(sub Subscriber) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, sub)
}

// Unsubscribe removes a subscriber.
func (w *Watcher) Unsubscribe(sub Subscriber) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, s := range w.subscribers {
		if s == sub {
			w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
			return
		}
	}
}

// Start begins watching the storage directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher cannot be restarted after stop")
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	go w.run()
	return nil
}

// Stop stops watching for changes. A stopped watcher cannot be restarted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	// Cancel pending debounce timers so they cannot fire after stop
	w.debounceMu.Lock()
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
	w.debounceMu.Unlock()

	close(w.stopCh)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("storage watcher error: %v", err)

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Skip temporary and hidden files; atomic-replace temp files are
	// dot-prefixed, so half-written records never surface here.
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return
	}

	// Debounce: wait 100ms before emitting to coalesce rapid changes
	w.debounceMu.Lock()
	if timer, exists := w.debounce[event.Name]; exists {
		timer.Stop()
	}
	w.debounce[event.Name] = time.AfterFunc(100*time.Millisecond, func() {
		w.emitChange(event)
		w.debounceMu.Lock()
		delete(w.debounce, event.Name)
		w.debounceMu.Unlock()
	})
	w.debounceMu.Unlock()
}

func (w *Watcher) emitChange(event fsnotify.Event) {
	// Debounce timers may fire after Stop
	w.mu.RLock()
	if w.stopped {
		w.mu.RUnlock()
		return
	}
	subs := make([]Subscriber, len(w.subscribers))
	copy(subs, w.subscribers)
	w.mu.RUnlock()

	change := w.classifyChange(event)
	if change.Kind == KindUnknown {
		return // Don't emit unknown changes
	}

	for _, sub := range subs {
		sub.OnStorageChange(change)
	}
}

func (w *Watcher) classifyChange(event fsnotify.Event) Change {
	base := filepath.Base(event.Name)
	change := Change{Path: base}

	switch {
	case event.Op&fsnotify.Create != 0:
		change.Type = ChangeCreated
	case event.Op&fsnotify.Write != 0:
		change.Type = ChangeModified
	case event.Op&fsnotify.Remove != 0:
		change.Type = ChangeDeleted
	case event.Op&fsnotify.Rename != 0:
		change.Type = ChangeDeleted // Rename source is effectively deleted
	default:
		return Change{Kind: KindUnknown}
	}

	switch {
	case base == config.PaletteFileName:
		change.Kind = KindPalette
	case strings.HasSuffix(base, config.RecordExt):
		change.Kind = KindRecord
		change.CardID = strings.TrimSuffix(base, config.RecordExt)
	case strings.HasSuffix(base, config.ImageExt):
		change.Kind = KindImage
	default:
		change.Kind = KindUnknown
	}

	return change
}
