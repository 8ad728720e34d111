package storage

import (
	"context"

	"miner-econ-lab/internal/domain"
)

// MinerProfileStore provides access to the machine catalog.
type MinerProfileStore interface {
	// Insert adds a profile. Returns ErrDuplicateKey if the name exists.
	Insert(ctx context.Context, p *domain.MinerProfile) error

	// GetByName retrieves a profile. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.MinerProfile, error)

	// GetAll retrieves all profiles ordered by name ASC.
	GetAll(ctx context.Context) ([]*domain.MinerProfile, error)
}

// MarketListingStore provides access to scraped vendor listings.
type MarketListingStore interface {
	// InsertBulk adds listings; duplicates within a scrape batch are allowed
	// (vendors repost identical quotes).
	InsertBulk(ctx context.Context, listings []*domain.MarketListing) error

	// GetByVendor retrieves all listings for a vendor.
	GetByVendor(ctx context.Context, vendor string) ([]*domain.MarketListing, error)

	// GetAll retrieves all listings.
	GetAll(ctx context.Context) ([]*domain.MarketListing, error)
}

// SimulationSummaryStore provides access to run summaries.
type SimulationSummaryStore interface {
	// Insert adds a summary. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, s *domain.Summary) error

	// GetByRunID retrieves a summary. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.Summary, error)

	// GetByMiner retrieves all summaries for a miner.
	GetByMiner(ctx context.Context, minerName string) ([]*domain.Summary, error)
}

// ProjectionStore provides access to the day-indexed projection series.
type ProjectionStore interface {
	// InsertBulk adds a run's projections. Fails the entire batch on a
	// duplicate (run_id, day_index).
	InsertBulk(ctx context.Context, runID string, projections []*domain.DailyProjection) error

	// GetByRunID retrieves all projections for a run, ordered by day ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.DailyProjection, error)
}
