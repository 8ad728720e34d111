// Package orchestrator drives the price-list pipeline: for every catalog
// machine it resolves a market reference price, runs the simulator, solves
// a sale price under the configured policy, and persists the results.
// Machines are independent of each other, so they fan out across a bounded
// worker pool; each individual simulation stays strictly sequential.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"miner-econ-lab/internal/consensus"
	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/idhash"
	"miner-econ-lab/internal/match"
	"miner-econ-lab/internal/observability"
	"miner-econ-lab/internal/pricing"
	"miner-econ-lab/internal/reporting"
	"miner-econ-lab/internal/simulation"
	"miner-econ-lab/internal/storage"
)

// defaultWorkers bounds the per-machine fan-out when Options.Workers is 0.
const defaultWorkers = 4

// Options contains configuration for creating an Orchestrator.
type Options struct {
	ProfileStore    storage.MinerProfileStore
	ListingStore    storage.MarketListingStore
	SummaryStore    storage.SimulationSummaryStore
	ProjectionStore storage.ProjectionStore

	Terms        domain.ContractTerms
	Market       domain.MarketConditions
	Config       domain.SimulationConfig
	PolicyConfig domain.PricingPolicyConfig

	Workers int
	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

// Orchestrator runs the price-list pipeline.
type Orchestrator struct {
	opts Options
	log  *logrus.Entry
}

// Result holds pipeline output.
type Result struct {
	Rows               []reporting.PriceRow
	ProfilesProcessed  int
	ProfilesSkipped    int
	ListingsConsidered int
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Orchestrator{
		opts: opts,
		log:  logger.WithField("component", "orchestrator"),
	}
}

// Run executes the pipeline over the whole catalog.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	policy, err := pricing.FromConfig(o.opts.PolicyConfig)
	if err != nil {
		return nil, fmt.Errorf("build pricing policy: %w", err)
	}

	profiles, err := o.opts.ProfileStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var listings []*domain.MarketListing
	if o.opts.ListingStore != nil {
		listings, err = o.opts.ListingStore.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load listings: %w", err)
		}
	}

	result := &Result{ListingsConsidered: len(listings)}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		work     = make(chan *domain.MinerProfile)
		failed   bool
		firstErr error
	)

	worker := func() {
		defer wg.Done()
		for profile := range work {
			row, err := o.processProfile(ctx, *profile, listings, policy)
			mu.Lock()
			if err != nil {
				o.log.WithError(err).WithField("miner", profile.Name).Warn("profile skipped")
				result.ProfilesSkipped++
				if !failed {
					failed = true
					firstErr = err
				}
			} else {
				result.Rows = append(result.Rows, *row)
				result.ProfilesProcessed++
			}
			mu.Unlock()
		}
	}

	for i := 0; i < o.opts.Workers; i++ {
		wg.Add(1)
		go worker()
	}

	for _, p := range profiles {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return nil, ctx.Err()
		case work <- p:
		}
	}
	close(work)
	wg.Wait()

	// Persistence failures skip individual rows; a pipeline with zero
	// successful rows surfaces the first error instead of an empty list.
	if len(result.Rows) == 0 && failed {
		return nil, firstErr
	}

	sort.Slice(result.Rows, func(i, j int) bool { return result.Rows[i].Miner < result.Rows[j].Miner })
	return result, nil
}

// processProfile runs matching, consensus, simulation, and pricing for one
// catalog machine.
func (o *Orchestrator) processProfile(ctx context.Context, profile domain.MinerProfile, listings []*domain.MarketListing, policy pricing.Policy) (*reporting.PriceRow, error) {
	reference := consensus.MiddlePrice(match.MatchingPrices(profile, listings))
	if o.opts.Metrics != nil {
		outcome := "matched"
		if reference <= 0 {
			outcome = "unmatched"
		}
		o.opts.Metrics.MatchOutcomes.WithLabelValues(outcome).Inc()
	}
	if reference > 0 {
		profile.SalePriceUSD = reference
	}

	cfg := o.opts.Config
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = profile.SalePriceUSD
	}

	in := simulation.Inputs{
		Profile: profile,
		Terms:   o.opts.Terms,
		Market:  o.opts.Market,
		Config:  cfg,
	}

	started := time.Now()
	simResult := simulation.Run(in)
	simResult.Summary.RunID = idhash.ComputeRunID(profile.Name, cfg.Mode, cfg.StartDate, cfg.InitialCapital)
	o.observeSimulation(simResult, started)

	if o.opts.SummaryStore != nil {
		if err := o.opts.SummaryStore.Insert(ctx, &simResult.Summary); err != nil {
			return nil, fmt.Errorf("persist summary: %w", err)
		}
	}
	if o.opts.ProjectionStore != nil {
		if err := o.opts.ProjectionStore.InsertBulk(ctx, simResult.Summary.RunID, simResult.Projections); err != nil {
			return nil, fmt.Errorf("persist projections: %w", err)
		}
	}

	quote := policy.Quote(in)
	if o.opts.Metrics != nil {
		o.opts.Metrics.QuotesSolved.WithLabelValues(quote.PolicyID, strconv.FormatBool(quote.Achievable)).Inc()
	}

	return &reporting.PriceRow{
		Miner:             profile.Name,
		HashrateTH:        profile.HashrateTH,
		PowerWatts:        profile.PowerWatts,
		ReferencePriceUSD: reference,
		QuotedPriceUSD:    quote.PriceUSD,
		PolicyID:          quote.PolicyID,
		Achievable:        quote.Achievable,
		AnnualizedPct:     quote.AnnualizedPct,
		LifespanDays:      quote.LifespanDays,
		Outcome:           simResult.Summary.Outcome,
	}, nil
}

// observeSimulation records run metrics.
func (o *Orchestrator) observeSimulation(res *domain.SimulationResult, started time.Time) {
	if o.opts.Metrics == nil {
		return
	}
	o.opts.Metrics.SimulationsRun.Inc()
	o.opts.Metrics.ProjectionDays.Add(float64(len(res.Projections)))
	o.opts.Metrics.SimulationDuration.Observe(time.Since(started).Seconds())
	if res.Summary.ShutdownReason != "" {
		o.opts.Metrics.ShutdownsTotal.WithLabelValues(res.Summary.ShutdownReason).Inc()
	}
}
