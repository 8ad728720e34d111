package memory

import (
	"context"
	"sort"
	"sync"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// MinerProfileStore is an in-memory implementation of storage.MinerProfileStore.
type MinerProfileStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MinerProfile // keyed by name
}

// NewMinerProfileStore creates a new in-memory miner profile store.
func NewMinerProfileStore() *MinerProfileStore {
	return &MinerProfileStore{
		data: make(map[string]*domain.MinerProfile),
	}
}

// Insert adds a profile. Returns ErrDuplicateKey if the name exists.
func (s *MinerProfileStore) Insert(_ context.Context, p *domain.MinerProfile) error {
	if p == nil || p.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.Name]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *p
	s.data[p.Name] = &cp
	return nil
}

// GetByName retrieves a profile. Returns ErrNotFound if not exists.
func (s *MinerProfileStore) GetByName(_ context.Context, name string) (*domain.MinerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// GetAll retrieves all profiles ordered by name ASC.
func (s *MinerProfileStore) GetAll(_ context.Context) ([]*domain.MinerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.MinerProfile, 0, len(s.data))
	for _, p := range s.data {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Compile-time interface check.
var _ storage.MinerProfileStore = (*MinerProfileStore)(nil)
