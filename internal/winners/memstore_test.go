package winners_test

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/ecoscore/internal/winners"
)

// memStore keeps declarations in a map keyed by period. Upsert is
// check-then-act under the mutex.
type memStore struct {
	mu      sync.Mutex
	byKey   map[winners.Key]winners.MonthlyWinner
	order   []winners.Key
	failErr error
}

func newMemStore() *memStore {
	return &memStore{byKey: make(map[winners.Key]winners.MonthlyWinner)}
}

func (s *memStore) Upsert(_ context.Context, w winners.MonthlyWinner) (winners.MonthlyWinner, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return winners.MonthlyWinner{}, false, s.failErr
	}

	key := w.Key()
	existing, replaced := s.byKey[key]
	if replaced {
		w.ID = existing.ID
	} else {
		s.order = append(s.order, key)
	}
	s.byKey[key] = w
	return w, replaced, nil
}

func (s *memStore) List(_ context.Context, filters winners.Filters) ([]winners.MonthlyWinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return nil, s.failErr
	}

	out := make([]winners.MonthlyWinner, 0, len(s.order))
	for _, k := range s.order {
		if w := s.byKey[k]; filters.Matches(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memStore) Find(_ context.Context, id uuid.UUID) (winners.MonthlyWinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.byKey {
		if w.ID == id {
			return w, nil
		}
	}
	return winners.MonthlyWinner{}, winners.ErrNotFound
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) (winners.MonthlyWinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, w := range s.byKey {
		if w.ID == id {
			delete(s.byKey, k)
			s.order = slices.DeleteFunc(s.order, func(o winners.Key) bool { return o == k })
			return w, nil
		}
	}
	return winners.MonthlyWinner{}, winners.ErrNotFound
}
