package memory

import (
	"context"
	"sort"
	"sync"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// ProjectionStore is an in-memory implementation of storage.ProjectionStore.
type ProjectionStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.DailyProjection // keyed by run_id
}

// NewProjectionStore creates a new in-memory projection store.
func NewProjectionStore() *ProjectionStore {
	return &ProjectionStore{
		data: make(map[string][]*domain.DailyProjection),
	}
}

// InsertBulk adds a run's projections. Fails the entire batch on a
// duplicate (run_id, day_index).
func (s *ProjectionStore) InsertBulk(_ context.Context, runID string, projections []*domain.DailyProjection) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(projections) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[int]struct{}, len(s.data[runID]))
	for _, p := range s.data[runID] {
		existing[p.DayIndex] = struct{}{}
	}
	for _, p := range projections {
		if p == nil {
			return storage.ErrInvalidInput
		}
		if _, dup := existing[p.DayIndex]; dup {
			return storage.ErrDuplicateKey
		}
		existing[p.DayIndex] = struct{}{}
	}

	for _, p := range projections {
		cp := *p
		s.data[runID] = append(s.data[runID], &cp)
	}
	return nil
}

// GetByRunID retrieves all projections for a run, ordered by day ASC.
func (s *ProjectionStore) GetByRunID(_ context.Context, runID string) ([]*domain.DailyProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.data[runID]
	out := make([]*domain.DailyProjection, 0, len(rows))
	for _, p := range rows {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out, nil
}

// Compile-time interface check.
var _ storage.ProjectionStore = (*ProjectionStore)(nil)
