package simulation

import (
	"context"

	"miner-econ-lab/internal/consensus"
	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/idhash"
	"miner-econ-lab/internal/match"
	"miner-econ-lab/internal/storage"
)

// Runner executes store-backed simulations for catalog miners.
type Runner struct {
	profileStore    storage.MinerProfileStore
	listingStore    storage.MarketListingStore
	summaryStore    storage.SimulationSummaryStore
	projectionStore storage.ProjectionStore
}

// RunnerOptions contains configuration for creating a Runner.
// Summary and projection stores are optional; a nil store skips persistence.
type RunnerOptions struct {
	ProfileStore    storage.MinerProfileStore
	ListingStore    storage.MarketListingStore
	SummaryStore    storage.SimulationSummaryStore
	ProjectionStore storage.ProjectionStore
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		profileStore:    opts.ProfileStore,
		listingStore:    opts.ListingStore,
		summaryStore:    opts.SummaryStore,
		projectionStore: opts.ProjectionStore,
	}
}

// Run executes a simulation for a catalog miner.
// Steps:
//  1. Load the profile by name
//  2. Resolve a market reference price from listings (matcher + consensus);
//     a consensus above zero replaces the nominal sale price
//  3. Seed the capital from the config, falling back to the sale price
//  4. Execute the simulator
//  5. Persist summary and projections
func (r *Runner) Run(ctx context.Context, minerName string, terms domain.ContractTerms, market domain.MarketConditions, cfg domain.SimulationConfig) (*domain.SimulationResult, error) {
	profile, err := r.profileStore.GetByName(ctx, minerName)
	if err != nil {
		return nil, err // propagates storage.ErrNotFound
	}

	if r.listingStore != nil {
		listings, err := r.listingStore.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		if ref := consensus.MiddlePrice(match.MatchingPrices(*profile, listings)); ref > 0 {
			profile.SalePriceUSD = ref
		}
	}

	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = profile.SalePriceUSD
	}

	result := Run(Inputs{
		Profile: *profile,
		Terms:   terms,
		Market:  market,
		Config:  cfg,
	})
	result.Summary.RunID = idhash.ComputeRunID(profile.Name, cfg.Mode, cfg.StartDate, cfg.InitialCapital)

	if r.summaryStore != nil {
		if err := r.summaryStore.Insert(ctx, &result.Summary); err != nil {
			return nil, err
		}
	}
	if r.projectionStore != nil {
		if err := r.projectionStore.InsertBulk(ctx, result.Summary.RunID, result.Projections); err != nil {
			return nil, err
		}
	}

	return result, nil
}
