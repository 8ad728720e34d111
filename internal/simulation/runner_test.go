package simulation

import (
	"context"
	"errors"
	"testing"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
	"miner-econ-lab/internal/storage/memory"
)

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()

	profiles := memory.NewMinerProfileStore()
	listings := memory.NewMarketListingStore()
	summaries := memory.NewSummaryStore()
	projections := memory.NewProjectionStore()

	in := flatInputs()
	if err := profiles.Insert(ctx, &in.Profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := listings.InsertBulk(ctx, []*domain.MarketListing{
		{Vendor: "asicmarket", Model: "Test Rig", Price: 5000, Currency: "USD", HashrateTH: 200},
	}); err != nil {
		t.Fatalf("seed listings: %v", err)
	}

	runner := NewRunner(RunnerOptions{
		ProfileStore:    profiles,
		ListingStore:    listings,
		SummaryStore:    summaries,
		ProjectionStore: projections,
	})

	in.Terms.DurationYears = 0.02
	in.Config.InitialCapital = 0 // force the reference-price fallback

	result, err := runner.Run(ctx, "Test Rig", in.Terms, in.Market, in.Config)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Summary.RunID == "" {
		t.Error("RunID not set")
	}

	// The exact listing matched, so the consensus price (5000) seeds the
	// capital instead of the nominal 4600.
	p0 := result.Projections[0]
	wantBTC := 5000.0 / in.Market.BTCPriceUSD
	if p0.TreasuryBTC >= wantBTC {
		t.Errorf("day-0 treasury %v not seeded below %v", p0.TreasuryBTC, wantBTC)
	}
	if p0.TreasuryBTC < wantBTC*0.9 {
		t.Errorf("day-0 treasury %v too low for a 5000 USD seed", p0.TreasuryBTC)
	}

	sum, err := summaries.GetByRunID(ctx, result.Summary.RunID)
	if err != nil {
		t.Fatalf("summary not persisted: %v", err)
	}
	if sum.MinerName != "Test Rig" {
		t.Errorf("persisted MinerName = %q", sum.MinerName)
	}

	rows, err := projections.GetByRunID(ctx, result.Summary.RunID)
	if err != nil {
		t.Fatalf("projections not persisted: %v", err)
	}
	if len(rows) != len(result.Projections) {
		t.Errorf("persisted %d projections, want %d", len(rows), len(result.Projections))
	}
}

func TestRunner_UnknownMiner(t *testing.T) {
	runner := NewRunner(RunnerOptions{ProfileStore: memory.NewMinerProfileStore()})

	in := flatInputs()
	_, err := runner.Run(context.Background(), "missing", in.Terms, in.Market, in.Config)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Run() error = %v, want ErrNotFound", err)
	}
}

func TestRunner_NilOptionalStores(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewMinerProfileStore()

	in := flatInputs()
	in.Terms.DurationYears = 0.02
	if err := profiles.Insert(ctx, &in.Profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	runner := NewRunner(RunnerOptions{ProfileStore: profiles})
	result, err := runner.Run(ctx, "Test Rig", in.Terms, in.Market, in.Config)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Projections) == 0 {
		t.Error("no projections")
	}
}
