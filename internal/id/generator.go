package id

import "github.com/google/uuid"

// Generate returns a new unique card id.
func Generate() string {
	return uuid.NewString()
}
