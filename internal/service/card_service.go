package service

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/amterp/kard/internal/config"
	"github.com/amterp/kard/internal/id"
	"github.com/amterp/kard/internal/model"
	"github.com/amterp/kard/internal/share"
	"github.com/amterp/kard/internal/store"
	"github.com/amterp/kard/internal/watch"
)

// CollectionSubscriber receives the full card collection after every
// mutation.
type CollectionSubscriber interface {
	OnCardsChanged(cards []model.Card)
}

// CardService owns the authoritative in-memory card collection and mediates
// all reads and writes against durable storage. Every mutation of the
// collection is serialized behind one mutex, and observers are notified with
// a snapshot after the mutation is visible.
//
// Durable writes happen on the calling goroutine; for the operations that
// propagate errors (PersistNew, ImportCard) the in-memory insert only occurs
// after the writes have succeeded, so observers never see a card without
// durable backing.
type CardService struct {
	store store.CardStore
	paths *config.Paths

	mu    sync.RWMutex
	cards []model.Card

	subMu       sync.RWMutex
	subscribers []CollectionSubscriber
}

// NewCardService creates a card service backed by the given store.
func NewCardService(cardStore store.CardStore, paths *config.Paths) *CardService {
	return &CardService{store: cardStore, paths: paths}
}

// Subscribe adds a subscriber to receive collection snapshots.
func (s *CardService) Subscribe(sub CollectionSubscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// Unsubscribe removes a subscriber.
func (s *CardService) Unsubscribe(sub CollectionSubscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, existing := range s.subscribers {
		if existing == sub {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Load populates the collection from the storage directory: scan all record
// files, skip whatever fails to decode, sort ascending by creation time.
// When nothing was loaded, the collection is seeded with the two default
// cards in memory only: no file is written until the first explicit persist.
// Load never fails; the worst case is a freshly seeded collection.
func (s *CardService) Load() {
	cards := s.scan()
	if len(cards) == 0 {
		cards = model.SeedCards()
	}

	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()
	s.notify()
}

func (s *CardService) scan() []model.Card {
	if err := s.store.EnsureDir(); err != nil {
		log.Warnf("storage directory unavailable: %v", err)
		return nil
	}

	loaded, err := s.store.List()
	if err != nil {
		log.Warnf("card scan failed: %v", err)
		return nil
	}

	cards := make([]model.Card, 0, len(loaded))
	for _, c := range loaded {
		cards = append(cards, *c)
	}
	return cards
}

// Cards returns a snapshot of the collection, ordered ascending by creation
// time.
func (s *CardService) Cards() []model.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Card(nil), s.cards...)
}

// MyCard returns the first card of the collection, by convention the
// owner's own card.
func (s *CardService) MyCard() (model.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.cards) == 0 {
		return model.Card{}, false
	}
	return s.cards[0], true
}

// Find returns the card with the given id.
func (s *CardService) Find(cardID string) (model.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOfLocked(cardID); idx >= 0 {
		return s.cards[idx], true
	}
	return model.Card{}, false
}

// Add inserts a card into the in-memory collection without touching disk.
// Used when persistence already happened through another path.
func (s *CardService) Add(card model.Card) {
	s.mu.Lock()
	s.cards = append(s.cards, card)
	s.mu.Unlock()
	s.notify()
}

// Update replaces the entry matching the card's id and durably writes its
// record, best-effort. An id absent from the collection is a silent no-op.
func (s *CardService) Update(card model.Card) {
	s.mu.Lock()
	idx := s.indexOfLocked(card.ID)
	if idx < 0 {
		s.mu.Unlock()
		log.Debugf("update for unknown card %s ignored", card.ID)
		return
	}
	s.cards[idx] = card
	s.mu.Unlock()

	if err := s.store.WriteCard(&card); err != nil {
		log.Warnf("card write failed: %v", err)
	}
	s.notify()
}

// UpdateWithImage is Update with an optional replacement image. Non-nil
// image bytes are written under the card's existing image filename, or an
// id-derived one when the card has none yet, before the record write. The
// record is always written, whether or not an image was supplied.
func (s *CardService) UpdateWithImage(card model.Card, image []byte) {
	if image != nil {
		filename := card.ImageFilename
		if filename == "" {
			filename = model.ImageFilenameForID(card.ID)
		}
		if err := s.store.WriteImage(filename, image); err != nil {
			log.Warnf("image write failed: %v", err)
		} else {
			card.ImageFilename = filename
		}
	}

	s.mu.Lock()
	if idx := s.indexOfLocked(card.ID); idx >= 0 {
		s.cards[idx] = card
	}
	s.mu.Unlock()

	if err := s.store.WriteCard(&card); err != nil {
		log.Warnf("card write failed: %v", err)
	}
	s.notify()
}

// Remove deletes the card from the collection and best-effort removes its
// record and image files. Removing a card that was never persisted, or whose
// id is unknown, does not fail.
func (s *CardService) Remove(card model.Card) {
	s.mu.Lock()
	idx := s.indexOfLocked(card.ID)
	if idx >= 0 {
		s.cards = append(s.cards[:idx], s.cards[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		log.Debugf("remove for unknown card %s", card.ID)
	}

	if err := s.store.DeleteCard(card.ID); err != nil {
		log.Warnf("record delete failed: %v", err)
	}
	if card.ImageFilename != "" {
		if err := s.store.DeleteImage(card.ImageFilename); err != nil {
			log.Warnf("image delete failed: %v", err)
		}
	}

	if idx >= 0 {
		s.notify()
	}
}

// PersistNew durably writes an optional image, then the record, then inserts
// the card into the collection. The caller is responsible for having set the
// image filename when supplying image bytes. Either write failing propagates
// and leaves the collection unchanged.
func (s *CardService) PersistNew(card model.Card, image []byte) error {
	if err := s.store.EnsureDir(); err != nil {
		return err
	}

	if image != nil {
		if err := s.store.WriteImage(card.ImageFilename, image); err != nil {
			return err
		}
	}

	if err := s.store.WriteCard(&card); err != nil {
		return err
	}

	s.mu.Lock()
	s.cards = append(s.cards, card)
	s.mu.Unlock()
	s.notify()
	return nil
}

// Image returns the card's image bytes. Both an empty image filename and an
// unreadable file yield nil; callers cannot tell the two apart.
func (s *CardService) Image(card model.Card) []byte {
	if card.ImageFilename == "" {
		return nil
	}
	data, err := s.store.ReadImage(card.ImageFilename)
	if err != nil {
		return nil
	}
	return data
}

// ImportCard reads a standalone record file from an arbitrary location and
// brings it into the collection. An id colliding with an existing card gets
// a fresh id, with the image reference renamed to match. A referenced image
// is copied in from the record's same-stem sibling PNG when present, or the
// reference is cleared so no dangling pointer survives the import. The
// resolved record is durably written before the insert; failures propagate.
func (s *CardService) ImportCard(path string) (*model.Card, error) {
	card, err := s.store.ReadCard(path)
	if err != nil {
		return nil, err
	}

	if _, exists := s.Find(card.ID); exists {
		newID := id.Generate()
		card.ID = newID
		if card.ImageFilename != "" {
			card.ImageFilename = model.ImageFilenameForID(newID)
		}
	}

	if card.ImageFilename != "" {
		sibling := share.SiblingImagePath(path)
		if sibling != "" {
			if err := s.store.CopyImage(sibling, card.ImageFilename); err != nil {
				return nil, err
			}
		} else {
			card.ImageFilename = ""
		}
	}

	if err := s.store.WriteCard(card); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cards = append(s.cards, *card)
	s.mu.Unlock()
	s.notify()
	return card, nil
}

// WatchStorage starts a watcher on the storage directory so record files
// dropped or changed outside this process refresh the collection. The caller
// owns the returned watcher and should Stop it when done.
func (s *CardService) WatchStorage() (*watch.Watcher, error) {
	if err := s.store.EnsureDir(); err != nil {
		return nil, err
	}

	w, err := watch.New(s.paths.StorageDir())
	if err != nil {
		return nil, err
	}

	w.Subscribe(watch.SubscriberFunc(func(change watch.Change) {
		if change.Kind != watch.KindRecord {
			return
		}
		s.reload()
	}))

	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

// reload replaces the collection with the current disk state. Unlike Load it
// never seeds, so an externally emptied directory does not resurrect the
// defaults.
func (s *CardService) reload() {
	cards := s.scan()

	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()
	s.notify()
}

func (s *CardService) indexOfLocked(cardID string) int {
	for i := range s.cards {
		if s.cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// notify hands a collection snapshot to every subscriber, outside all locks.
func (s *CardService) notify() {
	snapshot := s.Cards()

	s.subMu.RLock()
	subs := make([]CollectionSubscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.OnCardsChanged(snapshot)
	}
}
