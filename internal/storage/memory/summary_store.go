package memory

import (
	"context"
	"sync"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// SummaryStore is an in-memory implementation of storage.SimulationSummaryStore.
type SummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Summary // keyed by run_id
}

// NewSummaryStore creates a new in-memory summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{
		data: make(map[string]*domain.Summary),
	}
}

// Insert adds a summary. Returns ErrDuplicateKey if run_id exists.
func (s *SummaryStore) Insert(_ context.Context, sum *domain.Summary) error {
	if sum == nil || sum.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sum.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *sum
	s.data[sum.RunID] = &cp
	return nil
}

// GetByRunID retrieves a summary. Returns ErrNotFound if not exists.
func (s *SummaryStore) GetByRunID(_ context.Context, runID string) (*domain.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, ok := s.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *sum
	return &cp, nil
}

// GetByMiner retrieves all summaries for a miner.
func (s *SummaryStore) GetByMiner(_ context.Context, minerName string) ([]*domain.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Summary
	for _, sum := range s.data {
		if sum.MinerName == minerName {
			cp := *sum
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Compile-time interface check.
var _ storage.SimulationSummaryStore = (*SummaryStore)(nil)
