package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/amterp/kard/internal/config"
	karderr "github.com/amterp/kard/internal/errors"
	"github.com/amterp/kard/internal/model"
	"github.com/amterp/kard/internal/util"
)

// FileCardStore implements CardStore using the filesystem. One JSON record
// per card, plus an optional PNG per card, all flat in the storage directory.
type FileCardStore struct {
	paths *config.Paths
}

// NewCardStore creates a new card store.
func NewCardStore(paths *config.Paths) *FileCardStore {
	return &FileCardStore{paths: paths}
}

// EnsureDir creates the storage directory if missing, parents included.
func (s *FileCardStore) EnsureDir() error {
	dir := s.paths.StorageDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return karderr.IO("mkdir", dir, err)
	}
	return nil
}

// ReadCard decodes a single record file. The path is arbitrary so imports
// can read records from outside the storage directory.
func (s *FileCardStore) ReadCard(path string) (*model.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, karderr.IO("read", path, err)
	}

	var card model.Card
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, karderr.Decode(path, err)
	}

	return &card, nil
}

// WriteCard durably writes a card record, stamping updatedAt first. The
// replace is atomic: a concurrent reader observes either the old document or
// the new one, never a partial write.
func (s *FileCardStore) WriteCard(card *model.Card) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}

	card.UpdatedAt = util.Now()
	data, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal card: %w", err)
	}

	return writeFileAtomic(s.paths.CardPath(card.ID), data)
}

// DeleteCard removes a card's record file. Missing files are not an error.
func (s *FileCardStore) DeleteCard(cardID string) error {
	path := s.paths.CardPath(cardID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return karderr.IO("delete", path, err)
	}
	return nil
}

// WriteImage atomically writes image bytes under the given filename in the
// storage directory.
func (s *FileCardStore) WriteImage(filename string, data []byte) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	return writeFileAtomic(s.paths.ImagePath(filename), data)
}

// ReadImage returns the bytes of an image file in the storage directory.
func (s *FileCardStore) ReadImage(filename string) ([]byte, error) {
	path := s.paths.ImagePath(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, karderr.IO("read", path, err)
	}
	return data, nil
}

// DeleteImage removes an image file. Missing files are not an error.
func (s *FileCardStore) DeleteImage(filename string) error {
	path := s.paths.ImagePath(filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return karderr.IO("delete", path, err)
	}
	return nil
}

// CopyImage copies an image from an arbitrary source path into the storage
// directory under filename, replacing any existing file at the destination.
func (s *FileCardStore) CopyImage(src, filename string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return karderr.IO("copy", src, err)
	}
	return s.WriteImage(filename, data)
}

// List returns all cards in the storage directory, sorted ascending by
// creation time. Malformed record files are logged and skipped so a corrupt
// or foreign file never aborts a startup scan.
func (s *FileCardStore) List() ([]*model.Card, error) {
	dir := s.paths.StorageDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.Card{}, nil // Return empty slice, not nil
		}
		return nil, karderr.IO("read", dir, err)
	}

	var cards []*model.Card
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, config.RecordExt) {
			continue
		}
		if name == config.PaletteFileName || strings.HasPrefix(name, ".") {
			continue
		}

		card, err := s.ReadCard(filepath.Join(dir, name))
		if err != nil {
			log.Warnf("skipping malformed card file %s: %v", name, err)
			continue
		}
		cards = append(cards, card)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})

	if cards == nil {
		cards = []*model.Card{} // Ensure non-nil
	}
	return cards, nil
}

// writeFileAtomic writes data to a hidden temp file in the target directory
// and renames it over path. Rename within one directory is atomic on every
// platform we care about.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return karderr.IO("write", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return karderr.IO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return karderr.IO("write", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return karderr.IO("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return karderr.IO("write", path, err)
	}
	return nil
}
