package archival_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/ecoscore/internal/archival"
	"github.com/JaimeStill/ecoscore/internal/evaluations"
)

// memStore serializes Exclusive with a mutex. When atomic is set a failed fn
// restores the state captured before it ran.
type memStore struct {
	lock sync.Mutex
	mu   sync.Mutex

	active  []evaluations.Evaluation
	archive []evaluations.Archived
	runs    []archival.Run

	atomic     bool
	latestErr  error
	insertErr  error
	purgeErr   error
	purgeShort bool
	exclusive  int
}

type snapshot struct {
	active  []evaluations.Evaluation
	archive []evaluations.Archived
	runs    []archival.Run
}

func (s *memStore) snapshot() snapshot {
	return snapshot{
		active:  slices.Clone(s.active),
		archive: slices.Clone(s.archive),
		runs:    slices.Clone(s.runs),
	}
}

func (s *memStore) restore(snap snapshot) {
	s.active, s.archive, s.runs = snap.active, snap.archive, snap.runs
}

func (s *memStore) counts() (active, archived, runs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active), len(s.archive), len(s.runs)
}

func (s *memStore) Latest(context.Context) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latestErr != nil {
		return nil, s.latestErr
	}

	var latest *time.Time
	for _, e := range s.active {
		if latest == nil || e.EvaluationDate.After(*latest) {
			d := e.EvaluationDate
			latest = &d
		}
	}
	return latest, nil
}

func (s *memStore) ArchivedWithin(_ context.Context, from, to time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	within := func(t time.Time) bool { return !t.Before(from) && t.Before(to) }

	for _, r := range s.runs {
		if within(r.ArchivedAt) {
			return true, nil
		}
	}
	for _, a := range s.archive {
		if within(a.ArchivedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Exclusive(_ context.Context, fn func(archival.Tx) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.mu.Lock()
	s.exclusive++
	snap := s.snapshot()
	s.mu.Unlock()

	err := fn(&memTx{s})
	if err != nil && s.atomic {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
	}
	return err
}

func (s *memStore) Atomic() bool {
	return s.atomic
}

func (s *memStore) Runs(context.Context) ([]archival.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.runs), nil
}

func (s *memStore) ListArchived(_ context.Context, f evaluations.Filters) ([]evaluations.Archived, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []evaluations.Archived
	for _, a := range s.archive {
		if f.Matches(a.Evaluation) {
			out = append(out, a)
		}
	}
	return out, nil
}

type memTx struct {
	*memStore
}

func (t *memTx) ListActive(context.Context) ([]evaluations.Evaluation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.active), nil
}

func (t *memTx) InsertArchive(_ context.Context, list []evaluations.Archived) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.insertErr != nil {
		return t.insertErr
	}
	t.archive = append(t.archive, list...)
	return nil
}

func (t *memTx) PurgeActive(context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.purgeErr != nil {
		return 0, t.purgeErr
	}

	n := int64(len(t.active))
	if t.purgeShort {
		// leave one row behind
		t.active = t.active[n-1:]
		return n - 1, nil
	}
	t.active = nil
	return n, nil
}

func (t *memTx) RecordRun(_ context.Context, run archival.Run) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs = append(t.runs, run)
	return nil
}
