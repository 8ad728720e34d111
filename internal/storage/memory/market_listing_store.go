package memory

import (
	"context"
	"sync"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// MarketListingStore is an in-memory implementation of storage.MarketListingStore.
type MarketListingStore struct {
	mu   sync.RWMutex
	data []*domain.MarketListing
}

// NewMarketListingStore creates a new in-memory market listing store.
func NewMarketListingStore() *MarketListingStore {
	return &MarketListingStore{}
}

// InsertBulk adds listings.
func (s *MarketListingStore) InsertBulk(_ context.Context, listings []*domain.MarketListing) error {
	if len(listings) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range listings {
		if l == nil || l.Vendor == "" || l.Model == "" {
			return storage.ErrInvalidInput
		}
	}
	for _, l := range listings {
		cp := *l
		s.data = append(s.data, &cp)
	}
	return nil
}

// GetByVendor retrieves all listings for a vendor.
func (s *MarketListingStore) GetByVendor(_ context.Context, vendor string) ([]*domain.MarketListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.MarketListing
	for _, l := range s.data {
		if l.Vendor == vendor {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// GetAll retrieves all listings.
func (s *MarketListingStore) GetAll(_ context.Context) ([]*domain.MarketListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.MarketListing, 0, len(s.data))
	for _, l := range s.data {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

// Compile-time interface check.
var _ storage.MarketListingStore = (*MarketListingStore)(nil)
