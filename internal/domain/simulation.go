package domain

import "time"

// AccountingMode selects the treasury rules the simulator applies.
type AccountingMode string

// Accounting mode constants.
const (
	// ModePlain tracks a BTC-denominated treasury and a plain ROI view.
	ModePlain AccountingMode = "plain"
	// ModeCashTreasury applies the same rules as ModePlain but exposes the
	// cash-side accounting fields instead of the BTC-side ones.
	ModeCashTreasury AccountingMode = "cash_treasury"
	// ModeBTCTreasury splits upfront capital into BTC and cash components
	// and honors an advance-hosting grace period.
	ModeBTCTreasury AccountingMode = "btc_treasury"
)

// Shutdown reason constants.
const (
	ShutdownUnprofitable = "unprofitable"
	ShutdownBankrupt     = "bankrupt"
)

// Outcome classification constants (BTC-treasury mode).
const (
	OutcomeWin      = "win"
	OutcomeNegative = "negative"
)

// SimulationConfig seeds one simulator run.
type SimulationConfig struct {
	StartDate      time.Time
	InitialCapital float64 // USD used to seed the treasury
	Mode           AccountingMode
}

// DailyProjection is one simulated day. After a shutdown or bankruptcy
// exactly one terminal projection is appended (production and flows zeroed,
// treasury frozen) and the series ends.
type DailyProjection struct {
	Date     time.Time
	DayIndex int

	Difficulty  float64
	BTCPriceUSD float64
	BlockReward float64

	GrossBTC   float64
	PoolFeeBTC float64
	NetBTC     float64

	CostUSD    float64
	RevenueUSD float64
	ProfitUSD  float64

	CumulativeNetBTC    float64
	CumulativeCostUSD   float64
	CumulativeProfitUSD float64

	TreasuryBTC      float64
	TreasuryCashUSD  float64
	TreasuryValueUSD float64

	IsBreakeven bool
	IsShutdown  bool
	IsBankrupt  bool
}

// Summary condenses one simulator run.
type Summary struct {
	RunID     string
	MinerName string
	Mode      AccountingMode
	StartDate time.Time

	ActiveDays      int
	TotalGrossBTC   float64
	TotalNetBTC     float64
	TotalCostUSD    float64
	TotalRevenueUSD float64

	BreakevenDate  *time.Time
	ShutdownDate   *time.Time
	ShutdownReason string

	FinalTreasuryBTC float64
	FinalTreasuryUSD float64
	ROIPct           float64

	Outcome         string // win/negative, BTC-treasury mode only
	AdvisoryMessage string
}

// SimulationResult is the full projection series plus its summary.
type SimulationResult struct {
	Projections []*DailyProjection
	Summary     Summary
}
