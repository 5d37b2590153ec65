package store

import "github.com/amterp/kard/internal/model"

// CardStore handles record and image persistence.
type CardStore interface {
	EnsureDir() error
	ReadCard(path string) (*model.Card, error)
	WriteCard(card *model.Card) error
	DeleteCard(cardID string) error
	List() ([]*model.Card, error)
	WriteImage(filename string, data []byte) error
	ReadImage(filename string) ([]byte, error)
	DeleteImage(filename string) error
	CopyImage(src, filename string) error
}
