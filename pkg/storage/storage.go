// Package storage persists received cards in a pebble database keyed by
// KSUID, so listing returns cards in arrival order.
package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/fxamacker/cbor/v2"
	"github.com/segmentio/ksuid"

	"github.com/cardazim/cardazim/pkg/card"
)

var (
	// ErrNotFound is returned when no card has the requested ID.
	ErrNotFound = errors.New("card not found")
	// ErrInvalidID is returned when an ID string is not a KSUID.
	ErrInvalidID = errors.New("invalid card id")
)

var keyPrefix = []byte("card/")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("storage: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("storage: CBOR decoder initialization failed: " + err.Error())
	}
}

// StoredCard is a received card as kept on disk. Payload holds the card
// exactly as it arrived on the wire.
type StoredCard struct {
	ID         ksuid.KSUID `cbor:"-"`
	ReceivedAt time.Time   `cbor:"1,keyasint"`
	RemoteAddr string      `cbor:"2,keyasint,omitempty"`
	Solution   string      `cbor:"3,keyasint,omitempty"`
	Payload    []byte      `cbor:"4,keyasint"`
	Solved     bool        `cbor:"5,keyasint,omitempty"`
}

// IsSolved reports whether a solution has been recorded.
func (s *StoredCard) IsSolved() bool {
	return s.Solved || s.Solution != ""
}

// Card decodes the payload. If a solution is recorded the image is
// returned decrypted.
func (s *StoredCard) Card() (*card.Card, error) {
	c, err := card.Deserialize(s.Payload)
	if err != nil {
		return nil, fmt.Errorf("stored card %s: %w", s.ID, err)
	}
	if s.IsSolved() && !c.Solve(s.Solution) {
		return nil, fmt.Errorf("stored card %s: recorded solution does not open the image", s.ID)
	}
	return c, nil
}

// CardStore is a pebble-backed card store. It is safe for concurrent use.
type CardStore struct {
	db *pebble.DB

	// mu orders read-modify-write updates against deletes.
	mu sync.Mutex
}

// Open opens or creates a card store in dir.
func Open(dir string) (*CardStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open card store at %s: %w", dir, err)
	}
	return &CardStore{db: db}, nil
}

// ParseID parses the string form of a card ID.
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// Put stores a serialized card received from remoteAddr and returns its
// new ID. The payload must decode as a card.
func (s *CardStore) Put(payload []byte, remoteAddr string) (ksuid.KSUID, error) {
	c, err := card.Deserialize(payload)
	if err != nil {
		return ksuid.Nil, err
	}
	return s.PutCard(c, payload, remoteAddr)
}

// PutCard stores payload when the caller has already decoded it into c.
func (s *CardStore) PutCard(c *card.Card, payload []byte, remoteAddr string) (ksuid.KSUID, error) {
	if c == nil {
		return ksuid.Nil, errors.New("no decoded card for payload")
	}

	stored := &StoredCard{
		ID:         ksuid.New(),
		ReceivedAt: time.Now().UTC(),
		RemoteAddr: remoteAddr,
		Payload:    payload,
	}
	if err := s.write(stored); err != nil {
		return ksuid.Nil, err
	}
	return stored.ID, nil
}

// Get returns the card stored under id.
func (s *CardStore) Get(id ksuid.KSUID) (*StoredCard, error) {
	data, closer, err := s.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return decode(id, data)
}

// List returns every stored card, oldest first.
func (s *CardStore) List() ([]*StoredCard, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: upperBound(keyPrefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var cards []*StoredCard
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(keyPrefix):])
		if err != nil {
			return nil, fmt.Errorf("corrupt card key %x: %w", iter.Key(), err)
		}
		stored, err := decode(id, iter.Value())
		if err != nil {
			return nil, err
		}
		cards = append(cards, stored)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return cards, nil
}

// Solve tries passphrase against the stored card. On success the solution
// is persisted and the decrypted card is returned with true. A wrong
// passphrase returns the still encrypted card and false.
func (s *CardStore) Solve(id ksuid.KSUID, passphrase string) (*card.Card, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.Get(id)
	if err != nil {
		return nil, false, err
	}

	c, err := card.Deserialize(stored.Payload)
	if err != nil {
		return nil, false, fmt.Errorf("stored card %s: %w", id, err)
	}
	if !c.Solve(passphrase) {
		return c, false, nil
	}

	stored.Solution = passphrase
	stored.Solved = true
	if err := s.write(stored); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// Delete removes the card stored under id.
func (s *CardStore) Delete(id ksuid.KSUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, closer, err := s.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	closer.Close()

	return s.db.Delete(key(id), pebble.Sync)
}

// Close closes the underlying database.
func (s *CardStore) Close() error {
	return s.db.Close()
}

func (s *CardStore) write(stored *StoredCard) error {
	data, err := encMode.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode card %s: %w", stored.ID, err)
	}
	if err := s.db.Set(key(stored.ID), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to store card %s: %w", stored.ID, err)
	}
	return nil
}

func decode(id ksuid.KSUID, data []byte) (*StoredCard, error) {
	var stored StoredCard
	if err := decMode.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode card %s: %w", id, err)
	}
	stored.ID = id
	return &stored, nil
}

func key(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), keyPrefix...), id.Bytes()...)
}

func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	end[len(end)-1]++
	return end
}
