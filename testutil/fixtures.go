package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/amterp/kard/internal/config"
	"github.com/amterp/kard/internal/model"
)

// TestCard returns a card with sensible test defaults.
func TestCard(id, name string) model.Card {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return model.Card{
		ID:              id,
		Name:            name,
		Title:           "Product Manager",
		Company:         "Nimbus Labs",
		Phone:           "+1 (555) 741-2233",
		Email:           "ava@nimbuslabs.com",
		BackgroundColor: model.DefaultBackgroundColor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// TempStorage creates a temporary base directory and a Paths resolver
// rooted in it. Returns the paths and a cleanup function.
func TempStorage(t *testing.T) (*config.Paths, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "kard-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return config.NewPaths(dir, ""), cleanup
}
