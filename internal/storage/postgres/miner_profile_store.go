package postgres

import (
	"context"
	"fmt"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// MinerProfileStore implements storage.MinerProfileStore using PostgreSQL.
type MinerProfileStore struct {
	pool *Pool
}

// NewMinerProfileStore creates a new MinerProfileStore.
func NewMinerProfileStore(pool *Pool) *MinerProfileStore {
	return &MinerProfileStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MinerProfileStore = (*MinerProfileStore)(nil)

// Insert adds a profile. Returns ErrDuplicateKey if the name exists.
func (s *MinerProfileStore) Insert(ctx context.Context, p *domain.MinerProfile) error {
	if p == nil || p.Name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO miner_profiles (name, hashrate_th, power_watts, sale_price_usd)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, p.Name, p.HashrateTH, p.PowerWatts, p.SalePriceUSD)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert miner profile: %w", err)
	}
	return nil
}

// GetByName retrieves a profile. Returns ErrNotFound if not exists.
func (s *MinerProfileStore) GetByName(ctx context.Context, name string) (*domain.MinerProfile, error) {
	query := `
		SELECT name, hashrate_th, power_watts, sale_price_usd
		FROM miner_profiles
		WHERE name = $1
	`

	var p domain.MinerProfile
	err := s.pool.QueryRow(ctx, query, name).Scan(&p.Name, &p.HashrateTH, &p.PowerWatts, &p.SalePriceUSD)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get miner profile: %w", err)
	}
	return &p, nil
}

// GetAll retrieves all profiles ordered by name ASC.
func (s *MinerProfileStore) GetAll(ctx context.Context) ([]*domain.MinerProfile, error) {
	query := `
		SELECT name, hashrate_th, power_watts, sale_price_usd
		FROM miner_profiles
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query miner profiles: %w", err)
	}
	defer rows.Close()

	var out []*domain.MinerProfile
	for rows.Next() {
		var p domain.MinerProfile
		if err := rows.Scan(&p.Name, &p.HashrateTH, &p.PowerWatts, &p.SalePriceUSD); err != nil {
			return nil, fmt.Errorf("scan miner profile: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
