package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Store keeps profiles in memory and expires them after a period of
// inactivity.
type Store struct {
	cache *cache.Cache
	vocab *Vocabulary
	ttl   time.Duration
}

// NewStore creates a Store whose sessions expire ttl after their last use.
func NewStore(vocab *Vocabulary, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		cache: cache.New(ttl, ttl/2),
		vocab: vocab,
		ttl:   ttl,
	}
}

// TTL returns the inactivity timeout.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create starts a new session with a fresh profile.
func (s *Store) Create() *Profile {
	p := NewProfile(uuid.NewString(), s.vocab)
	s.cache.Set(p.ID, p, cache.DefaultExpiration)
	return p
}

// Get returns the profile of session id and extends its lifetime.
func (s *Store) Get(id string) (*Profile, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	p := v.(*Profile)
	s.cache.Set(id, p, cache.DefaultExpiration)
	return p, nil
}

// Delete ends session id.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Count returns the number of live sessions, expired ones may be included
// until the next cleanup.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}
