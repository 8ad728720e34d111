package clickhouse

import (
	"context"
	"fmt"
	"time"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// ProjectionStore implements storage.ProjectionStore using ClickHouse.
// The projection series is timeseries-shaped and append-only, which fits a
// MergeTree ordered by (run_id, day_index).
type ProjectionStore struct {
	conn *Conn
}

// NewProjectionStore creates a new ProjectionStore.
func NewProjectionStore(conn *Conn) *ProjectionStore {
	return &ProjectionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ProjectionStore = (*ProjectionStore)(nil)

// InsertBulk adds a run's projections. Fails the entire batch on a
// duplicate (run_id, day_index).
func (s *ProjectionStore) InsertBulk(ctx context.Context, runID string, projections []*domain.DailyProjection) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(projections) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int]struct{}, len(projections))
	for _, p := range projections {
		if p == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[p.DayIndex]; exists {
			return storage.ErrDuplicateKey
		}
		seen[p.DayIndex] = struct{}{}
	}

	// MergeTree does not enforce uniqueness; check against existing rows.
	exists, err := s.runExists(ctx, runID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_projections (
			run_id, day_index, date,
			difficulty, btc_price_usd, block_reward,
			gross_btc, pool_fee_btc, net_btc,
			cost_usd, revenue_usd, profit_usd,
			cumulative_net_btc, cumulative_cost_usd, cumulative_profit_usd,
			treasury_btc, treasury_cash_usd, treasury_value_usd,
			is_breakeven, is_shutdown, is_bankrupt
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range projections {
		err = batch.Append(
			runID, int32(p.DayIndex), p.Date,
			p.Difficulty, p.BTCPriceUSD, p.BlockReward,
			p.GrossBTC, p.PoolFeeBTC, p.NetBTC,
			p.CostUSD, p.RevenueUSD, p.ProfitUSD,
			p.CumulativeNetBTC, p.CumulativeCostUSD, p.CumulativeProfitUSD,
			p.TreasuryBTC, p.TreasuryCashUSD, p.TreasuryValueUSD,
			boolToUInt8(p.IsBreakeven), boolToUInt8(p.IsShutdown), boolToUInt8(p.IsBankrupt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all projections for a run, ordered by day ASC.
func (s *ProjectionStore) GetByRunID(ctx context.Context, runID string) ([]*domain.DailyProjection, error) {
	query := `
		SELECT day_index, date,
			difficulty, btc_price_usd, block_reward,
			gross_btc, pool_fee_btc, net_btc,
			cost_usd, revenue_usd, profit_usd,
			cumulative_net_btc, cumulative_cost_usd, cumulative_profit_usd,
			treasury_btc, treasury_cash_usd, treasury_value_usd,
			is_breakeven, is_shutdown, is_bankrupt
		FROM daily_projections
		WHERE run_id = ?
		ORDER BY day_index ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	var out []*domain.DailyProjection
	for rows.Next() {
		var (
			p                             domain.DailyProjection
			dayIndex                      int32
			date                          time.Time
			breakeven, shutdown, bankrupt uint8
		)
		if err := rows.Scan(
			&dayIndex, &date,
			&p.Difficulty, &p.BTCPriceUSD, &p.BlockReward,
			&p.GrossBTC, &p.PoolFeeBTC, &p.NetBTC,
			&p.CostUSD, &p.RevenueUSD, &p.ProfitUSD,
			&p.CumulativeNetBTC, &p.CumulativeCostUSD, &p.CumulativeProfitUSD,
			&p.TreasuryBTC, &p.TreasuryCashUSD, &p.TreasuryValueUSD,
			&breakeven, &shutdown, &bankrupt,
		); err != nil {
			return nil, fmt.Errorf("scan projection: %w", err)
		}
		p.DayIndex = int(dayIndex)
		p.Date = date
		p.IsBreakeven = breakeven != 0
		p.IsShutdown = shutdown != 0
		p.IsBankrupt = bankrupt != 0
		out = append(out, &p)
	}
	return out, rows.Err()
}

// runExists checks whether any projection rows exist for the run.
func (s *ProjectionStore) runExists(ctx context.Context, runID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM daily_projections WHERE run_id = ?`, runID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
