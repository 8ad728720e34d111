package postgres

import (
	"context"
	"fmt"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// SummaryStore implements storage.SimulationSummaryStore using PostgreSQL.
type SummaryStore struct {
	pool *Pool
}

// NewSummaryStore creates a new SummaryStore.
func NewSummaryStore(pool *Pool) *SummaryStore {
	return &SummaryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SimulationSummaryStore = (*SummaryStore)(nil)

// Insert adds a summary. Returns ErrDuplicateKey if run_id exists.
func (s *SummaryStore) Insert(ctx context.Context, sum *domain.Summary) error {
	if sum == nil || sum.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO simulation_summaries (
			run_id, miner_name, mode, start_date,
			active_days, total_gross_btc, total_net_btc, total_cost_usd, total_revenue_usd,
			breakeven_date, shutdown_date, shutdown_reason,
			final_treasury_btc, final_treasury_usd, roi_pct,
			outcome, advisory_message
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15,
			$16, $17
		)
	`

	_, err := s.pool.Exec(ctx, query,
		sum.RunID, sum.MinerName, string(sum.Mode), sum.StartDate,
		sum.ActiveDays, sum.TotalGrossBTC, sum.TotalNetBTC, sum.TotalCostUSD, sum.TotalRevenueUSD,
		sum.BreakevenDate, sum.ShutdownDate, sum.ShutdownReason,
		sum.FinalTreasuryBTC, sum.FinalTreasuryUSD, sum.ROIPct,
		sum.Outcome, sum.AdvisoryMessage,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert simulation summary: %w", err)
	}
	return nil
}

const selectSummaryColumns = `
	SELECT run_id, miner_name, mode, start_date,
		active_days, total_gross_btc, total_net_btc, total_cost_usd, total_revenue_usd,
		breakeven_date, shutdown_date, shutdown_reason,
		final_treasury_btc, final_treasury_usd, roi_pct,
		outcome, advisory_message
	FROM simulation_summaries
`

// GetByRunID retrieves a summary. Returns ErrNotFound if not exists.
func (s *SummaryStore) GetByRunID(ctx context.Context, runID string) (*domain.Summary, error) {
	query := selectSummaryColumns + ` WHERE run_id = $1`

	var sum domain.Summary
	var mode string
	err := s.pool.QueryRow(ctx, query, runID).Scan(
		&sum.RunID, &sum.MinerName, &mode, &sum.StartDate,
		&sum.ActiveDays, &sum.TotalGrossBTC, &sum.TotalNetBTC, &sum.TotalCostUSD, &sum.TotalRevenueUSD,
		&sum.BreakevenDate, &sum.ShutdownDate, &sum.ShutdownReason,
		&sum.FinalTreasuryBTC, &sum.FinalTreasuryUSD, &sum.ROIPct,
		&sum.Outcome, &sum.AdvisoryMessage,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get simulation summary: %w", err)
	}
	sum.Mode = domain.AccountingMode(mode)
	return &sum, nil
}

// GetByMiner retrieves all summaries for a miner.
func (s *SummaryStore) GetByMiner(ctx context.Context, minerName string) ([]*domain.Summary, error) {
	query := selectSummaryColumns + ` WHERE miner_name = $1 ORDER BY start_date ASC`

	rows, err := s.pool.Query(ctx, query, minerName)
	if err != nil {
		return nil, fmt.Errorf("query simulation summaries: %w", err)
	}
	defer rows.Close()

	var out []*domain.Summary
	for rows.Next() {
		var sum domain.Summary
		var mode string
		if err := rows.Scan(
			&sum.RunID, &sum.MinerName, &mode, &sum.StartDate,
			&sum.ActiveDays, &sum.TotalGrossBTC, &sum.TotalNetBTC, &sum.TotalCostUSD, &sum.TotalRevenueUSD,
			&sum.BreakevenDate, &sum.ShutdownDate, &sum.ShutdownReason,
			&sum.FinalTreasuryBTC, &sum.FinalTreasuryUSD, &sum.ROIPct,
			&sum.Outcome, &sum.AdvisoryMessage,
		); err != nil {
			return nil, fmt.Errorf("scan simulation summary: %w", err)
		}
		sum.Mode = domain.AccountingMode(mode)
		out = append(out, &sum)
	}
	return out, rows.Err()
}
