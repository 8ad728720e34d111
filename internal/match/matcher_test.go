package match

import (
	"math"
	"testing"

	"miner-econ-lab/internal/domain"
)

func listing(model string, hashrateTH, price float64) *domain.MarketListing {
	return &domain.MarketListing{
		Vendor:     "test-vendor",
		Model:      model,
		Price:      price,
		Currency:   "USD",
		HashrateTH: hashrateTH,
	}
}

func TestMatch_ExactNameShortCircuits(t *testing.T) {
	profile := domain.MinerProfile{Name: "Antminer S19 XP", HashrateTH: 140}
	listings := []*domain.MarketListing{
		listing("Whatsminer M50", 140, 1300),
		// Exact name match wins even with a wildly wrong hashrate.
		listing("antminer s19 xp", 900, 2100),
	}

	got, ok := Match(profile, listings)
	if !ok {
		t.Fatal("Match() = no match, want exact name match")
	}
	if got.Price != 2100 {
		t.Errorf("Match() picked price %v, want 2100", got.Price)
	}
}

func TestMatch_HashrateTolerance(t *testing.T) {
	tests := []struct {
		name      string
		profileTH float64
		listingTH float64
		wantMatch bool
	}{
		{name: "exact hashrate", profileTH: 140, listingTH: 140, wantMatch: true},
		{name: "within 5 percent", profileTH: 200, listingTH: 209, wantMatch: true},
		{name: "within 2 TH floor on small machines", profileTH: 20, listingTH: 21.9, wantMatch: true},
		{name: "outside tolerance", profileTH: 140, listingTH: 170, wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := domain.MinerProfile{Name: "Antminer S19 XP", HashrateTH: tt.profileTH}
			listings := []*domain.MarketListing{
				listing("Bitmain S19 XP miner", tt.listingTH, 2000),
			}

			_, ok := Match(profile, listings)
			if ok != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", ok, tt.wantMatch)
			}
		})
	}
}

func TestMatch_SeriesMismatchRejected(t *testing.T) {
	profile := domain.MinerProfile{Name: "Antminer S19", HashrateTH: 140}
	listings := []*domain.MarketListing{
		// Same hashrate but a different recognized series.
		listing("Antminer S21 hosting deal", 140, 4000),
	}

	if _, ok := Match(profile, listings); ok {
		t.Error("Match() accepted a cross-series listing")
	}
}

func TestMatch_FeatureTokensBreakTies(t *testing.T) {
	profile := domain.MinerProfile{Name: "Antminer S19 XP Hydro", HashrateTH: 255}
	listings := []*domain.MarketListing{
		listing("Antminer S19 unit", 255, 1900),
		listing("Antminer S19 XP Hydro unit", 255, 5200),
	}

	got, ok := Match(profile, listings)
	if !ok {
		t.Fatal("Match() = no match, want feature-scored match")
	}
	if got.Price != 5200 {
		t.Errorf("Match() picked price %v, want the feature-complete listing at 5200", got.Price)
	}
}

func TestMatch_PlusLiteralCountsAsFeature(t *testing.T) {
	profile := domain.MinerProfile{Name: "Antminer S19j Pro+", HashrateTH: 120}
	listings := []*domain.MarketListing{
		listing("Antminer S19j Pro Plus", 120, 1500),
	}

	if _, ok := Match(profile, listings); !ok {
		t.Error("Match() should treat a literal + as the plus token")
	}
}

func TestMatch_FuzzyFallback(t *testing.T) {
	// No recognized series token on either side and the listing hashrate is
	// unknown, so only the token-overlap fallback can resolve it.
	profile := domain.MinerProfile{Name: "IceRiver KS3 Kaspa Miner 8TH", HashrateTH: 8}
	listings := []*domain.MarketListing{
		listing("IceRiver KS3 Kaspa Miner", 0, 3400),
	}

	got, ok := Match(profile, listings)
	if !ok {
		t.Fatal("Match() = no match, want fuzzy fallback hit")
	}
	if got.Price != 3400 {
		t.Errorf("Match() picked price %v, want 3400", got.Price)
	}
}

func TestMatch_NoGuessOnMiss(t *testing.T) {
	profile := domain.MinerProfile{Name: "Antminer S19 XP", HashrateTH: 140}
	listings := []*domain.MarketListing{
		listing("Whatsminer M60", 172, 2500),
		listing("Antminer L7", 9.5, 3500),
	}

	if _, ok := Match(profile, listings); ok {
		t.Error("Match() guessed a listing instead of reporting no match")
	}
}

func TestReferencePrice(t *testing.T) {
	profile := domain.MinerProfile{Name: "Antminer S19 XP", HashrateTH: 140}

	if got := ReferencePrice(profile, nil); got != 0 {
		t.Errorf("ReferencePrice() with no listings = %v, want 0", got)
	}

	eur := listing("Antminer S19 XP", 140, 1000)
	eur.Currency = "EUR"
	got := ReferencePrice(profile, []*domain.MarketListing{eur})
	if math.Abs(got-1090) > 1e-9 {
		t.Errorf("ReferencePrice() = %v, want 1090 (EUR converted)", got)
	}
}

func TestMatchingPrices(t *testing.T) {
	profile := domain.MinerProfile{Name: "Antminer S19 XP", HashrateTH: 140}
	unknown := listing("Antminer S19 XP", 140, 2100)
	unknown.Currency = "XYZ"
	listings := []*domain.MarketListing{
		listing("Antminer S19 XP 140T", 140, 2050),
		listing("Antminer S19 XP", 141, 2180),
		listing("Whatsminer M60", 172, 2500),
		unknown,
	}

	got := MatchingPrices(profile, listings)
	if len(got) != 2 {
		t.Fatalf("MatchingPrices() returned %d prices, want 2: %v", len(got), got)
	}
	if got[0] != 2050 || got[1] != 2180 {
		t.Errorf("MatchingPrices() = %v, want [2050 2180]", got)
	}
}
