package postgres

import (
	"context"
	"fmt"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// MarketListingStore implements storage.MarketListingStore using PostgreSQL.
type MarketListingStore struct {
	pool *Pool
}

// NewMarketListingStore creates a new MarketListingStore.
func NewMarketListingStore(pool *Pool) *MarketListingStore {
	return &MarketListingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MarketListingStore = (*MarketListingStore)(nil)

const insertListingQuery = `
	INSERT INTO market_listings (vendor, model, price, currency, hashrate_th, url, in_stock)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// InsertBulk adds listings in one transaction.
func (s *MarketListingStore) InsertBulk(ctx context.Context, listings []*domain.MarketListing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, l := range listings {
		if l == nil || l.Vendor == "" || l.Model == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertListingQuery,
			l.Vendor, l.Model, l.Price, l.Currency, l.HashrateTH, l.URL, l.InStock,
		)
		if err != nil {
			return fmt.Errorf("insert market listing: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByVendor retrieves all listings for a vendor.
func (s *MarketListingStore) GetByVendor(ctx context.Context, vendor string) ([]*domain.MarketListing, error) {
	query := `
		SELECT vendor, model, price, currency, hashrate_th, url, in_stock
		FROM market_listings
		WHERE vendor = $1
		ORDER BY id ASC
	`
	return s.queryListings(ctx, query, vendor)
}

// GetAll retrieves all listings.
func (s *MarketListingStore) GetAll(ctx context.Context) ([]*domain.MarketListing, error) {
	query := `
		SELECT vendor, model, price, currency, hashrate_th, url, in_stock
		FROM market_listings
		ORDER BY id ASC
	`
	return s.queryListings(ctx, query)
}

func (s *MarketListingStore) queryListings(ctx context.Context, query string, args ...any) ([]*domain.MarketListing, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query market listings: %w", err)
	}
	defer rows.Close()

	var out []*domain.MarketListing
	for rows.Next() {
		var l domain.MarketListing
		if err := rows.Scan(&l.Vendor, &l.Model, &l.Price, &l.Currency, &l.HashrateTH, &l.URL, &l.InStock); err != nil {
			return nil, fmt.Errorf("scan market listing: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
