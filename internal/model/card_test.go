package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewCard_Defaults(t *testing.T) {
	card := NewCard("Ava Stone", "Product Manager", "Nimbus Labs", "+1 (555) 741-2233", "ava@nimbuslabs.com")

	if card.ID == "" {
		t.Error("expected a generated id")
	}
	if card.BackgroundColor != DefaultBackgroundColor {
		t.Errorf("BackgroundColor = %q, want %q", card.BackgroundColor, DefaultBackgroundColor)
	}
	if card.ImageFilename != "" {
		t.Errorf("ImageFilename = %q, want empty", card.ImageFilename)
	}
	if card.CreatedAt.IsZero() || card.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if !card.CreatedAt.Equal(card.UpdatedAt) {
		t.Error("expected createdAt and updatedAt to match at creation")
	}
}

func TestNewCard_UniqueIDs(t *testing.T) {
	a := NewCard("A", "", "", "", "")
	b := NewCard("B", "", "", "", "")
	if a.ID == b.ID {
		t.Errorf("two cards share id %q", a.ID)
	}
}

func TestCard_JSONRoundTrip(t *testing.T) {
	original := Card{
		ID:              "8b4f2c1a-0000-4000-8000-1234567890ab",
		Name:            "Ava Stone",
		Title:           "Product Manager",
		Company:         "Nimbus Labs",
		Phone:           "+1 (555) 741-2233",
		Email:           "ava@nimbuslabs.com",
		Notes:           "Met at WWDC",
		BackgroundColor: "#D4AF37",
		ImageFilename:   "8b4f2c1a-0000-4000-8000-1234567890ab.png",
		CreatedAt:       time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !decoded.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("createdAt = %v, want %v", decoded.CreatedAt, original.CreatedAt)
	}
	if !decoded.UpdatedAt.Equal(original.UpdatedAt) {
		t.Errorf("updatedAt = %v, want %v", decoded.UpdatedAt, original.UpdatedAt)
	}

	decoded.CreatedAt, decoded.UpdatedAt = original.CreatedAt, original.UpdatedAt
	if decoded != original {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", decoded, original)
	}
}

func TestCard_WireFieldNames(t *testing.T) {
	data, err := json.Marshal(Card{ID: "x"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Fixed wire format shared with other installations.
	wantFields := []string{
		`"id"`, `"name"`, `"title"`, `"company"`, `"phone"`, `"email"`,
		`"notes"`, `"backgroundColor"`, `"imageFilename"`, `"createdAt"`, `"updatedAt"`,
	}
	for _, field := range wantFields {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded card missing field %s: %s", field, data)
		}
	}
}

func TestCard_TimestampsAreISO8601(t *testing.T) {
	card := Card{CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"createdAt":"2026-03-14T09:30:00Z"`) {
		t.Errorf("createdAt not ISO-8601: %s", data)
	}
}

func TestImageFilenameForID(t *testing.T) {
	got := ImageFilenameForID("abc123")
	if got != "abc123.png" {
		t.Errorf("ImageFilenameForID = %q, want %q", got, "abc123.png")
	}
}

func TestSeedCards(t *testing.T) {
	seeds := SeedCards()

	if len(seeds) != 2 {
		t.Fatalf("expected 2 seed cards, got %d", len(seeds))
	}
	if seeds[0].Notes != "Owner" {
		t.Errorf("first seed should be the owner card, got notes %q", seeds[0].Notes)
	}
	if seeds[1].Name != "Ava Stone" {
		t.Errorf("second seed = %q, want sample contact", seeds[1].Name)
	}
	if seeds[0].ID == seeds[1].ID {
		t.Error("seed cards share an id")
	}
	for _, seed := range seeds {
		if seed.ImageFilename != "" {
			t.Errorf("seed %q should have no image", seed.Name)
		}
	}
}
