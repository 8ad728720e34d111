package domain

// AdvisoryKind selects the unit an advisory threshold is compared in.
type AdvisoryKind string

// Advisory kind constants.
const (
	AdvisoryUSD AdvisoryKind = "usd_profit"
	AdvisoryBTC AdvisoryKind = "btc_balance"
	AdvisoryROI AdvisoryKind = "roi_pct"
)

// AdvisoryThreshold is an optional summary-level alarm for the treasury mode.
// Breaching it emits a message; it never alters the simulation itself.
type AdvisoryThreshold struct {
	Kind  AdvisoryKind
	Value float64
}

// ContractTerms holds the hosting contract parameters.
// The Advance*/Setup*/Hardware*/Markup* fields apply to the BTC-treasury
// accounting mode only and are ignored by the other modes.
type ContractTerms struct {
	ElectricityRate float64 // USD per kWh
	OpexRate        float64 // auxiliary opex, USD per kWh
	PoolFeePct      float64 // percent deducted from gross production
	DurationYears   float64 // contract length

	AdvanceYears    float64 // prepaid hosting period
	SetupFeeUSD     float64 // one-time setup fee
	SetupFeeBTCPct  float64 // share of setup fee converted to BTC
	HardwareCostUSD float64 // cost basis used for markup calculation
	MarkupBTCPct    float64 // share of markup converted to BTC

	Advisory *AdvisoryThreshold
}
