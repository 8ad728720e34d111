package domain

// PolicyType selects a pricing policy implementation.
type PolicyType string

// Policy type constants. The two policies answer the same question with
// different rules and are deliberately kept as independent strategies.
const (
	// PolicyTwoPass inverts the daily simulator for a configurable margin.
	PolicyTwoPass PolicyType = "TWO_PASS"
	// PolicyClosedForm uses geometric-series algebra and a fixed 2x rule.
	PolicyClosedForm PolicyType = "CLOSED_FORM"
)

// Margin denomination constants for the two-pass policy.
const (
	DenomBTC = "btc"
	DenomUSD = "usd"
)

// PricingPolicyConfig is the tagged configuration a policy is built from.
type PricingPolicyConfig struct {
	PolicyType   PolicyType
	TargetMargin float64 // two-pass only, 0..1
	Denomination string  // two-pass only: DenomBTC or DenomUSD
}

// PriceQuote is a solved sale price plus reporting figures.
// Achievable=false means the policy could not produce a positive price for
// the requested margin; PriceUSD is 0 in that case, never negative.
type PriceQuote struct {
	PolicyID string

	PriceUSD   float64
	PriceBTC   float64
	Achievable bool

	// Two-pass reporting figures (from the second simulator pass).
	FinalTreasuryUSD float64
	Day1RevenueUSD   float64
	Day1CostUSD      float64
	AnnualizedPct    float64

	// Closed-form figures.
	LifespanDays    float64
	TotalRevenueBTC float64
	TotalCostBTC    float64
}
