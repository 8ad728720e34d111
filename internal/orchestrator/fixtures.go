package orchestrator

import (
	"context"
	"fmt"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

// LoadFixtures seeds a demo catalog and market listings so the pipeline
// runs without a database or a scraper.
func LoadFixtures(ctx context.Context, profiles storage.MinerProfileStore, listings storage.MarketListingStore) error {
	for _, p := range FixtureProfiles() {
		if err := profiles.Insert(ctx, p); err != nil {
			return fmt.Errorf("insert fixture profile %s: %w", p.Name, err)
		}
	}
	if err := listings.InsertBulk(ctx, FixtureListings()); err != nil {
		return fmt.Errorf("insert fixture listings: %w", err)
	}
	return nil
}

// FixtureProfiles returns the demo catalog.
func FixtureProfiles() []*domain.MinerProfile {
	return []*domain.MinerProfile{
		{Name: "Antminer S21 Pro", HashrateTH: 234, PowerWatts: 3510, SalePriceUSD: 4600},
		{Name: "Antminer S19 XP", HashrateTH: 140, PowerWatts: 3010, SalePriceUSD: 2100},
		{Name: "Antminer S21 Hydro", HashrateTH: 335, PowerWatts: 5360, SalePriceUSD: 6800},
		{Name: "Whatsminer M60", HashrateTH: 172, PowerWatts: 3422, SalePriceUSD: 2500},
		{Name: "Whatsminer M50", HashrateTH: 114, PowerWatts: 3306, SalePriceUSD: 1300},
	}
}

// FixtureListings returns demo vendor quotes with realistic vendor spread,
// one deliberate outlier, and one non-USD currency.
func FixtureListings() []*domain.MarketListing {
	inStock := true
	outOfStock := false
	return []*domain.MarketListing{
		{Vendor: "asicmarket", Model: "Antminer S21 Pro 234T", Price: 4550, Currency: "USD", HashrateTH: 234, InStock: &inStock},
		{Vendor: "minefarmbuy", Model: "Bitmain Antminer S21 Pro", Price: 4720, Currency: "USD", HashrateTH: 234, InStock: &inStock},
		{Vendor: "cryptominerbros", Model: "Antminer S21 Pro", Price: 4190, Currency: "EUR", HashrateTH: 234, InStock: &outOfStock},
		{Vendor: "asicmarket", Model: "Antminer S19 XP 140T", Price: 2050, Currency: "USD", HashrateTH: 140, InStock: &inStock},
		{Vendor: "minefarmbuy", Model: "Antminer S19 XP", Price: 2180, Currency: "USD", HashrateTH: 141, InStock: &inStock},
		{Vendor: "cryptominerbros", Model: "Antminer S19 XP", Price: 9800, Currency: "USD", HashrateTH: 140, InStock: &inStock}, // outlier
		{Vendor: "asicmarket", Model: "Antminer S21 Hydro 335T", Price: 6650, Currency: "USD", HashrateTH: 335, InStock: &inStock},
		{Vendor: "minefarmbuy", Model: "Whatsminer M60 172T", Price: 2430, Currency: "USD", HashrateTH: 172, InStock: &inStock},
		{Vendor: "cryptominerbros", Model: "Whatsminer M60", Price: 2590, Currency: "USD", HashrateTH: 170, InStock: &inStock},
		{Vendor: "asicmarket", Model: "Whatsminer M50 114T", Price: 1280, Currency: "USD", HashrateTH: 114, InStock: &inStock},
	}
}
