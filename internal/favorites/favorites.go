// Package favorites manages the persisted set of starred station IDs.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/nyctransit/railboard/internal/kv"
)

const (
	scope  = "favorites"
	setKey = "stations"
)

// Store holds the favorite-station set, mirrored in memory and
// persisted through the kv store on every mutation.
type Store struct {
	mu  sync.RWMutex
	kv  *kv.Store
	ids map[string]struct{}
}

// NewStore loads the persisted set from the kv store.
func NewStore(ctx context.Context, backend *kv.Store) (*Store, error) {
	s := &Store{
		kv:  backend,
		ids: make(map[string]struct{}),
	}

	raw, ok, err := backend.Get(ctx, scope, setKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	if ok {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, fmt.Errorf("corrupt favorites blob: %w", err)
		}
		for _, id := range ids {
			s.ids[id] = struct{}{}
		}
	}

	return s, nil
}

// Add stars a station. Adding an already-starred station is a no-op.
// The set is persisted before Add returns.
func (s *Store) Add(ctx context.Context, stationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[stationID]; ok {
		return nil
	}
	s.ids[stationID] = struct{}{}
	if err := s.persistLocked(ctx); err != nil {
		delete(s.ids, stationID)
		return err
	}
	return nil
}

// Remove unstars a station. Removing a station that was never starred
// is a no-op.
func (s *Store) Remove(ctx context.Context, stationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[stationID]; !ok {
		return nil
	}
	delete(s.ids, stationID)
	if err := s.persistLocked(ctx); err != nil {
		s.ids[stationID] = struct{}{}
		return err
	}
	return nil
}

// Contains reports whether a station is starred.
func (s *Store) Contains(stationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[stationID]
	return ok
}

// IDs returns the starred station IDs, sorted for determinism. Display
// ordering is the organizer's job.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) persistLocked(ctx context.Context) error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.kv.Put(ctx, scope, setKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}
