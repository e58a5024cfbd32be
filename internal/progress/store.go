package progress

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned by stores when no record exists for a key.
	ErrNotFound = errors.New("progress record not found")
	// ErrCorruptRecord marks a stored record that is not valid JSON.
	ErrCorruptRecord = errors.New("progress record is corrupt")
	// ErrInvalidArgument marks caller errors.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidTally marks an impossible correct/total pair. Errors wrapping it also
	// wrap ErrInvalidArgument.
	ErrInvalidTally = errors.New("invalid tally")
	// ErrNotPersisted marks an update that was computed but could not be saved.
	ErrNotPersisted = errors.New("progress not persisted")
)

// UpdateFunc receives the current value (found is false when no record exists) and
// returns the value to store. Returning an error aborts the update. Stores may call
// it more than once under contention.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Store is a key-value record store. Update is an atomic read-modify-write.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Ping(ctx context.Context) error
}

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	records map[string][]byte
	mu      sync.Mutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, found := s.records[key]
	next, err := fn(append([]byte(nil), current...), found)
	if err != nil {
		return err
	}
	s.records[key] = append([]byte(nil), next...)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
