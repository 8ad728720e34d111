package simulation

import (
	"fmt"

	"miner-econ-lab/internal/domain"
)

// treasury is the mutable per-run balance state shared by all modes.
// Plain and cash modes use only the BTC component; the BTC-treasury mode
// also carries a cash component from the upfront capital split.
type treasury struct {
	btc  float64
	cash float64
}

// modeStrategy is the guard-and-update surface that distinguishes the three
// accounting modes. The day-stepping skeleton in Run is shared; everything
// mode-specific goes through this interface so the modes stay auditable as
// named strategies.
type modeStrategy interface {
	// seed initializes the treasury from the initial capital.
	seed(st *treasury, capitalUSD, startPrice float64)

	// costInflow returns the BTC credited for the day's hosting fee.
	costInflow(day int, costUSD, price float64) float64

	// shouldShutdown reports whether the run ends before this day's
	// production (revenue below cost, subject to mode gating).
	shouldShutdown(day int, revenueUSD, costUSD float64) bool

	// bankrupt reports whether the treasury state terminates the run.
	bankrupt(st *treasury) bool

	// fill sets the mode's exposed treasury fields on a projection.
	fill(p *domain.DailyProjection, st *treasury, price float64)

	// classify sets end-of-run outcome fields on the summary.
	classify(sum *domain.Summary, in Inputs)
}

// modeFor returns the strategy for an accounting mode. Unknown modes fall
// back to plain accounting so the simulator never fails on input.
func modeFor(mode domain.AccountingMode, terms domain.ContractTerms, dailyCost float64) modeStrategy {
	switch mode {
	case domain.ModeBTCTreasury:
		return &btcTreasuryMode{
			terms:       terms,
			dailyCost:   dailyCost,
			advanceDays: int(terms.AdvanceYears * DaysPerYear),
		}
	case domain.ModeCashTreasury:
		return cashTreasuryMode{}
	default:
		return plainMode{}
	}
}

// plainMode tracks a BTC-denominated treasury seeded from the initial
// capital and shuts down on the first unprofitable day.
type plainMode struct{}

func (plainMode) seed(st *treasury, capitalUSD, startPrice float64) {
	if startPrice > 0 {
		st.btc = capitalUSD / startPrice
	}
}

func (plainMode) costInflow(_ int, costUSD, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return costUSD / price
}

func (plainMode) shouldShutdown(_ int, revenueUSD, costUSD float64) bool {
	return revenueUSD < costUSD
}

func (plainMode) bankrupt(*treasury) bool { return false }

func (plainMode) fill(p *domain.DailyProjection, st *treasury, price float64) {
	p.TreasuryBTC = st.btc
	p.TreasuryValueUSD = st.btc * price
}

func (plainMode) classify(*domain.Summary, Inputs) {}

// cashTreasuryMode applies the same rules as plainMode but exposes the
// treasury through the cash-side fields. Kept for the reporting variant
// that presents USD balances instead of BTC holdings.
type cashTreasuryMode struct {
	plainMode
}

func (cashTreasuryMode) fill(p *domain.DailyProjection, st *treasury, price float64) {
	p.TreasuryCashUSD = st.btc * price
	p.TreasuryValueUSD = st.btc * price
}

// btcTreasuryMode splits upfront capital into BTC and cash components and
// honors an advance-hosting grace period: while hosting is prepaid the
// operator keeps mining even at a loss and no cost inflow is collected.
type btcTreasuryMode struct {
	terms       domain.ContractTerms
	dailyCost   float64
	advanceDays int
}

func (m *btcTreasuryMode) seed(st *treasury, capitalUSD, startPrice float64) {
	if startPrice <= 0 {
		return
	}

	// Hardware cost basis converts to BTC in full.
	st.btc = m.terms.HardwareCostUSD / startPrice

	// Markup (sale price above hardware cost) splits by the configured share.
	markup := capitalUSD - m.terms.HardwareCostUSD
	if markup > 0 {
		st.btc += markup * m.terms.MarkupBTCPct / 100 / startPrice
		st.cash += markup * (1 - m.terms.MarkupBTCPct/100)
	}

	// Setup fee splits by its own share.
	st.btc += m.terms.SetupFeeUSD * m.terms.SetupFeeBTCPct / 100 / startPrice
	st.cash += m.terms.SetupFeeUSD * (1 - m.terms.SetupFeeBTCPct/100)

	// Advance hosting payment converts to BTC in full.
	st.btc += m.advancePayment() / startPrice
}

// advancePayment is the prepaid hosting amount in USD.
func (m *btcTreasuryMode) advancePayment() float64 {
	return float64(m.advanceDays) * m.dailyCost
}

// advanceActive reports whether hosting is still prepaid on the given day.
func (m *btcTreasuryMode) advanceActive(day int) bool {
	return day < m.advanceDays
}

func (m *btcTreasuryMode) costInflow(day int, costUSD, price float64) float64 {
	if m.advanceActive(day) || price <= 0 {
		return 0
	}
	return costUSD / price
}

func (m *btcTreasuryMode) shouldShutdown(day int, revenueUSD, costUSD float64) bool {
	// During the advance period the cost is sunk; never shut down.
	if m.advanceActive(day) {
		return false
	}
	return revenueUSD < costUSD
}

func (m *btcTreasuryMode) bankrupt(st *treasury) bool {
	return st.btc < 0
}

func (m *btcTreasuryMode) fill(p *domain.DailyProjection, st *treasury, price float64) {
	p.TreasuryBTC = st.btc
	p.TreasuryCashUSD = st.cash
	p.TreasuryValueUSD = st.btc*price + st.cash
}

func (m *btcTreasuryMode) classify(sum *domain.Summary, in Inputs) {
	investment := in.Config.InitialCapital + m.terms.SetupFeeUSD + m.advancePayment()

	if sum.FinalTreasuryBTC < 0 {
		sum.Outcome = domain.OutcomeNegative
	} else if sum.FinalTreasuryUSD > investment*0.5 {
		sum.Outcome = domain.OutcomeWin
	}

	if m.terms.Advisory != nil {
		sum.AdvisoryMessage = m.advisoryMessage(sum, investment)
	}
}

// advisoryMessage compares final profit against the configured threshold in
// the configured unit and returns a message when the threshold is breached.
func (m *btcTreasuryMode) advisoryMessage(sum *domain.Summary, investment float64) string {
	adv := m.terms.Advisory

	var actual float64
	var unit string
	switch adv.Kind {
	case domain.AdvisoryBTC:
		actual = sum.FinalTreasuryBTC
		unit = "BTC"
	case domain.AdvisoryROI:
		if investment > 0 {
			actual = (sum.FinalTreasuryUSD - investment) / investment * 100
		}
		unit = "%"
	default: // domain.AdvisoryUSD
		actual = sum.FinalTreasuryUSD - investment
		unit = "USD"
	}

	if actual >= adv.Value {
		return ""
	}
	return fmt.Sprintf("final profit %.4f %s is below the advisory threshold of %.4f %s", actual, unit, adv.Value, unit)
}

// Interface checks.
var (
	_ modeStrategy = plainMode{}
	_ modeStrategy = cashTreasuryMode{}
	_ modeStrategy = (*btcTreasuryMode)(nil)
)
