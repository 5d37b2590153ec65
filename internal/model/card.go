package model

import (
	"time"

	"github.com/amterp/kard/internal/id"
	"github.com/amterp/kard/internal/util"
)

// DefaultBackgroundColor is assigned to cards created without an explicit
// color choice.
const DefaultBackgroundColor = "#0F1720"

// Card represents a single business card stored as a JSON file.
// Timestamps serialize as ISO-8601 (RFC 3339).
type Card struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Notes           string    `json:"notes"`
	BackgroundColor string    `json:"backgroundColor"`
	ImageFilename   string    `json:"imageFilename"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewCard creates a card with a fresh id, default background color and
// creation timestamps. The image filename starts empty until an image is
// attached.
func NewCard(name, title, company, phone, email string) Card {
	now := util.Now()
	return Card{
		ID:              id.Generate(),
		Name:            name,
		Title:           title,
		Company:         company,
		Phone:           phone,
		Email:           email,
		BackgroundColor: DefaultBackgroundColor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ImageFilenameForID returns the derived image filename for a card id.
// Auto-generated images are always stored as <id>.png.
func ImageFilenameForID(cardID string) string {
	return cardID + ".png"
}

// SeedCards returns the two default cards used when no records exist on
// first run: the owner's card followed by one sample contact. Order matters;
// the first card in the collection is displayed as "my card".
func SeedCards() []Card {
	me := NewCard("My Name", "iOS Engineer", "Kard", "+1 (555) 000-0000", "me@example.com")
	me.Notes = "Owner"

	sample := NewCard("Ava Stone", "Product Manager", "Nimbus Labs", "+1 (555) 741-2233", "ava@nimbuslabs.com")
	sample.Notes = "Met at WWDC"

	return []Card{me, sample}
}
