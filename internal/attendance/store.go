package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"attendify/internal/store"
)

// Slot is a single named persistent location for the record collection.
type Slot interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, payload []byte) error
}

// Store owns the record collection, newest first, and mirrors every
// mutation into its slot.
type Store struct {
	slot Slot
	log  *slog.Logger

	mu       sync.Mutex
	records  []Record
	readFail error
}

// ErrNotLoaded is returned by mutations after Load failed to read the slot,
// so a transient read error never overwrites the persisted collection.
var ErrNotLoaded = errors.New("attendance records not loaded")

// NewStore creates an empty store backed by slot. Call Load to read
// prior state.
func NewStore(slot Slot, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{slot: slot, log: logger}
}

// Load reads the persisted collection. A missing or unparsable payload
// yields an empty collection; any other read failure is returned and the
// in-memory collection is left untouched.
func (s *Store) Load(ctx context.Context) ([]Record, error) {
	records, err := s.read(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.readFail = err
		return nil, err
	}
	s.records = records
	s.readFail = nil
	return clone(records), nil
}

func (s *Store) read(ctx context.Context) ([]Record, error) {
	payload, err := s.slot.Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(payload, &records); err != nil {
		s.log.Warn("persisted attendance records unreadable, starting empty", "error", err, "bytes", len(payload))
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Save overwrites the slot with records.
func (s *Store) Save(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.slot.Put(ctx, payload); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	return nil
}

// Add prepends rec and persists the collection. Id uniqueness is the
// caller's job.
func (s *Store) Add(ctx context.Context, rec Record) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readFail != nil {
		return clone(s.records), fmt.Errorf("%w: %v", ErrNotLoaded, s.readFail)
	}

	next := make([]Record, 0, len(s.records)+1)
	next = append(next, rec)
	next = append(next, s.records...)
	if err := s.Save(ctx, next); err != nil {
		return clone(s.records), err
	}
	s.records = next
	return clone(next), nil
}

// Remove drops the record with id and persists the collection. An
// unknown id leaves the collection unchanged.
func (s *Store) Remove(ctx context.Context, id string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readFail != nil {
		return clone(s.records), fmt.Errorf("%w: %v", ErrNotLoaded, s.readFail)
	}

	next := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	if err := s.Save(ctx, next); err != nil {
		return clone(s.records), err
	}
	s.records = next
	return clone(next), nil
}

// Records returns a copy of the current collection.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.records)
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func clone(in []Record) []Record {
	out := make([]Record, len(in))
	copy(out, in)
	return out
}
