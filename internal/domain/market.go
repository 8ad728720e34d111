package domain

import "time"

// MarketConditions is the network/price state a simulation starts from.
// At most one halving date is supported inside a simulation horizon; longer
// horizons need a generalized reward schedule.
type MarketConditions struct {
	BTCPriceUSD           float64
	Difficulty            float64
	BlockReward           float64
	MonthlyDiffGrowthPct  float64
	MonthlyPriceGrowthPct float64
	HalvingDate           *time.Time
}

// MarketListing is one scraped vendor quote. Produced by the scraping
// collaborator; consumed read-only by consensus and matching.
type MarketListing struct {
	Vendor     string
	Model      string
	Price      float64
	Currency   string // ISO-ish code, converted to USD via fx
	HashrateTH float64
	URL        string
	InStock    *bool
}
