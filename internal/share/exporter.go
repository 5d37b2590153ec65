package share

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amterp/kard/internal/config"
	karderr "github.com/amterp/kard/internal/errors"
	"github.com/amterp/kard/internal/model"
	"github.com/amterp/kard/internal/util"
)

// ImageSource supplies image bytes for a card, typically the card service.
// A nil return means the card has no readable image.
type ImageSource interface {
	Image(card model.Card) []byte
}

// Exporter assembles standalone share bundles: one record file plus an
// optional image, named from a slug of the card's name. The hand-off of the
// bundle to a peer is out of scope; the exporter only produces the files.
type Exporter struct {
	paths  *config.Paths
	images ImageSource
}

// NewExporter creates an exporter writing into paths' staging directory.
func NewExporter(paths *config.Paths, images ImageSource) *Exporter {
	return &Exporter{paths: paths, images: images}
}

// Export writes the card's record and, when present, its image into a
// freshly cleared staging directory. Returns the written file paths, record
// first. The exported record's updatedAt reflects the export time.
func (e *Exporter) Export(card model.Card) ([]string, error) {
	staging := e.paths.ExportStagingDir()
	if err := os.RemoveAll(staging); err != nil {
		return nil, karderr.IO("delete", staging, err)
	}
	if err := os.MkdirAll(staging, 0755); err != nil {
		return nil, karderr.IO("mkdir", staging, err)
	}

	stem := util.Slugify(card.Name)
	if stem == "" {
		stem = card.ID
	}

	card.UpdatedAt = util.Now()
	data, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card: %w", err)
	}

	recordPath := filepath.Join(staging, stem+config.RecordExt)
	if err := os.WriteFile(recordPath, data, 0644); err != nil {
		return nil, karderr.IO("write", recordPath, err)
	}
	written := []string{recordPath}

	if image := e.images.Image(card); image != nil {
		imagePath := filepath.Join(staging, stem+config.ImageExt)
		if err := os.WriteFile(imagePath, image, 0644); err != nil {
			return nil, karderr.IO("write", imagePath, err)
		}
		written = append(written, imagePath)
	}

	return written, nil
}

// SiblingImagePath returns the path of the PNG sharing a record file's stem
// (same directory, same name, image extension), or "" when no such file
// exists. This filename convention is the only place where a record/image
// association is re-derived rather than read from imageFilename.
func SiblingImagePath(recordPath string) string {
	stem := strings.TrimSuffix(recordPath, filepath.Ext(recordPath))
	candidate := stem + config.ImageExt
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}
