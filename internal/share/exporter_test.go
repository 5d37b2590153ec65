package share

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amterp/kard/internal/model"
	"github.com/amterp/kard/testutil"
)

// stubImages serves fixed image bytes for cards whose filename is non-empty.
type stubImages struct {
	bytes []byte
}

func (s *stubImages) Image(card model.Card) []byte {
	if card.ImageFilename == "" {
		return nil
	}
	return s.bytes
}

func TestExporter_RecordOnly(t *testing.T) {
	paths, cleanup := testutil.TempStorage(t)
	defer cleanup()

	exporter := NewExporter(paths, &stubImages{})
	card := testutil.TestCard("card1", "Ava Stone")

	written, err := exporter.Export(card)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(written) != 1 {
		t.Fatalf("expected 1 file, got %d: %v", len(written), written)
	}
	if filepath.Base(written[0]) != "Ava_Stone.json" {
		t.Errorf("record name = %q, want %q", filepath.Base(written[0]), "Ava_Stone.json")
	}

	data, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("failed to read exported record: %v", err)
	}
	var exported model.Card
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("exported record not decodable: %v", err)
	}
	if exported.ID != card.ID {
		t.Errorf("exported id = %q, want %q", exported.ID, card.ID)
	}
	if !exported.UpdatedAt.After(card.UpdatedAt) {
		t.Error("export should refresh updatedAt")
	}
}

func TestExporter_IncludesImage(t *testing.T) {
	paths, cleanup := testutil.TempStorage(t)
	defer cleanup()

	payload := []byte("png-bytes")
	exporter := NewExporter(paths, &stubImages{bytes: payload})
	card := testutil.TestCard("card1", "Ava Stone")
	card.ImageFilename = "card1.png"

	written, err := exporter.Export(card)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(written) != 2 {
		t.Fatalf("expected record and image, got %v", written)
	}
	if filepath.Base(written[1]) != "Ava_Stone.png" {
		t.Errorf("image name = %q, want %q", filepath.Base(written[1]), "Ava_Stone.png")
	}
	got, err := os.ReadFile(written[1])
	if err != nil {
		t.Fatalf("failed to read exported image: %v", err)
	}
	if string(got) != string(payload) {
		t.Error("exported image bytes mismatch")
	}
}

func TestExporter_FallsBackToIDStem(t *testing.T) {
	paths, cleanup := testutil.TempStorage(t)
	defer cleanup()

	exporter := NewExporter(paths, &stubImages{})
	card := testutil.TestCard("card1", "!!!")

	written, err := exporter.Export(card)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Base(written[0]) != "card1.json" {
		t.Errorf("record name = %q, want id fallback %q", filepath.Base(written[0]), "card1.json")
	}
}

func TestExporter_ClearsStaleStaging(t *testing.T) {
	paths, cleanup := testutil.TempStorage(t)
	defer cleanup()

	staging := paths.ExportStagingDir()
	if err := os.MkdirAll(staging, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	stale := filepath.Join(staging, "Old_Card.json")
	if err := os.WriteFile(stale, []byte("{}"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	exporter := NewExporter(paths, &stubImages{})
	if _, err := exporter.Export(testutil.TestCard("card1", "Ava")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale export file survived a fresh export")
	}
}

func TestSiblingImagePath(t *testing.T) {
	dir := t.TempDir()

	record := filepath.Join(dir, "Ava_Stone.json")
	if err := os.WriteFile(record, []byte("{}"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if got := SiblingImagePath(record); got != "" {
		t.Errorf("expected no sibling, got %q", got)
	}

	image := filepath.Join(dir, "Ava_Stone.png")
	if err := os.WriteFile(image, []byte("png"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if got := SiblingImagePath(record); got != image {
		t.Errorf("SiblingImagePath = %q, want %q", got, image)
	}
}

func TestExporter_ExportedRecordRoundTripsThroughImportFormat(t *testing.T) {
	paths, cleanup := testutil.TempStorage(t)
	defer cleanup()

	exporter := NewExporter(paths, &stubImages{})
	card := testutil.TestCard("card1", "Ava Stone")
	card.CreatedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	written, err := exporter.Export(card)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var roundTripped model.Card
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !roundTripped.CreatedAt.Equal(card.CreatedAt) {
		t.Errorf("createdAt drifted through export: %v", roundTripped.CreatedAt)
	}
}
