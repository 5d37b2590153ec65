package store

import (
	"encoding/json"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/amterp/kard/internal/config"
	"github.com/amterp/kard/internal/model"
)

// PaletteStore persists the preset background color palette. It shares the
// storage directory with card records under its own fixed filename.
type PaletteStore struct {
	paths *config.Paths

	mu     sync.RWMutex
	colors []string
}

// NewPaletteStore creates an unloaded palette store.
func NewPaletteStore(paths *config.Paths) *PaletteStore {
	return &PaletteStore{paths: paths}
}

// Load reads the persisted palette. An absent or empty palette is replaced
// with the built-in defaults and persisted. A persisted palette missing any
// required color gets it appended and is rewritten; one that already has
// them all is left untouched on disk.
func (s *PaletteStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	persisted, ok := s.readPalette()
	if !ok || len(persisted) == 0 {
		s.colors = append([]string(nil), model.DefaultPaletteColors...)
		return s.persistLocked()
	}

	colors := persisted
	added := false
	for _, required := range model.RequiredPaletteColors {
		if !containsColor(colors, required) {
			colors = append(colors, required)
			added = true
		}
	}

	s.colors = colors
	if added {
		return s.persistLocked()
	}
	return nil
}

// Colors returns a copy of the current palette, in order.
func (s *PaletteStore) Colors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.colors...)
}

func (s *PaletteStore) readPalette() ([]string, bool) {
	data, err := os.ReadFile(s.paths.PalettePath())
	if err != nil {
		return nil, false
	}

	var doc model.Palette
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false
	}

	return doc.Colors, true
}

func (s *PaletteStore) persistLocked() error {
	if err := os.MkdirAll(s.paths.StorageDir(), 0755); err != nil {
		return err
	}

	data, err := json.Marshal(model.Palette{Colors: s.colors})
	if err != nil {
		return err
	}

	return writeFileAtomic(s.paths.PalettePath(), data)
}

func containsColor(colors []string, hex string) bool {
	for _, c := range colors {
		if c == hex {
			return true
		}
	}
	return false
}

var (
	sharedPalette     *PaletteStore
	sharedPaletteOnce sync.Once
)

// SharedPalette returns the process-wide palette store, creating and loading
// it on first call. Later calls return the same instance and ignore paths.
// Callers should pass the handle on rather than re-resolving it.
func SharedPalette(paths *config.Paths) *PaletteStore {
	sharedPaletteOnce.Do(func() {
		sharedPalette = NewPaletteStore(paths)
		if err := sharedPalette.Load(); err != nil {
			log.Warnf("palette load failed: %v", err)
		}
	})
	return sharedPalette
}
