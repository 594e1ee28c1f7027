package appeal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("appeal not found")

// Store owns the identifier namespace: Create assigns a fresh id and the
// creation timestamp, and once it returns the record is durably readable
// via Get. Records are never updated or overwritten.
type Store interface {
	Create(ctx context.Context, a Appeal) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
}

func newRecord(a Appeal) Record {
	return Record{
		ID:        uuid.NewString(),
		Appeal:    a,
		CreatedAt: time.Now().UTC(),
	}
}

type InMemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID: make(map[string]Record),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, a Appeal) (Record, error) {
	_ = ctx

	rec := newRecord(a)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[rec.ID] = rec
	return rec, nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (Record, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
