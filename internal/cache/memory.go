package cache

import (
	"context"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

// MemoryStore keeps completed searches for the life of the process.
type MemoryStore struct {
	cache *Cache[*domain.Search]
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: New(cloneSearch), ttl: ttl}
}

func (s *MemoryStore) Save(_ context.Context, search *domain.Search) error {
	s.cache.Set(search.ID, search, s.ttl)
	return nil
}

// Get returns nil, nil for unknown ids.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Search, error) {
	search, ok := s.cache.Get(id)
	if !ok {
		return nil, nil
	}
	return search, nil
}

func cloneSearch(s *domain.Search) *domain.Search {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Itineraries = append([]domain.Itinerary(nil), s.Itineraries...)
	clone.Frontier = append([]int(nil), s.Frontier...)
	return &clone
}
