package pricing

import (
	"fmt"
	"math"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/simulation"
)

// denomEpsilon guards the ill-conditioned denominators of both solving
// branches. Below it the quote is forced to 0 ("no valid price") instead of
// propagating a near-infinity.
const denomEpsilon = 0.001

// TwoPassSolver backs a sale price out of two simulator runs.
//
// Pass 1 is seeded with the nominal sale price and exists only to extract
// the cumulative net production M and hosting-fee value H (both in BTC at
// the time of each day). Production and cost do not depend on the seed
// capital, only on the hashrate/difficulty/price path, so one pass reveals
// the full cash-flow shape and the price then solves algebraically.
// Pass 2 reruns with the solved price purely for reporting figures.
type TwoPassSolver struct {
	TargetMargin float64 // 0..1; >= 1 is unachievable by construction
	Denomination string  // domain.DenomBTC or domain.DenomUSD
}

// NewTwoPassSolver creates a two-pass solver.
func NewTwoPassSolver(targetMargin float64, denomination string) *TwoPassSolver {
	return &TwoPassSolver{TargetMargin: targetMargin, Denomination: denomination}
}

// ID returns the policy identifier including parameters.
func (s *TwoPassSolver) ID() string {
	return fmt.Sprintf("TWO_PASS_%s_margin%.0f", s.Denomination, s.TargetMargin*100)
}

// Quote solves the sale price for the configured margin.
func (s *TwoPassSolver) Quote(in simulation.Inputs) *domain.PriceQuote {
	quote := &domain.PriceQuote{PolicyID: s.ID()}

	startPrice := in.Market.BTCPriceUSD

	// Pass 1: discover the cash-flow shape. Plain accounting is enough;
	// M and H are mode-independent path quantities.
	pass1 := in
	pass1.Config.InitialCapital = in.Profile.SalePriceUSD
	pass1.Config.Mode = domain.ModePlain
	shape := extractShape(simulation.Run(pass1), startPrice)

	var priceUSD, priceBTC float64
	switch s.Denomination {
	case domain.DenomUSD:
		priceUSD = s.solveUSD(shape, startPrice)
		if startPrice > 0 {
			priceBTC = priceUSD / startPrice
		}
	default:
		priceBTC = s.solveBTC(shape)
		priceUSD = priceBTC * startPrice
	}

	if !isFinite(priceUSD) || priceUSD <= 0 {
		// Target not achievable; report zero rather than an error.
		return quote
	}

	quote.PriceUSD = priceUSD
	quote.PriceBTC = priceBTC
	quote.Achievable = true

	// Pass 2: rerun with the solved price for user-facing figures.
	pass2 := in
	pass2.Config.InitialCapital = priceUSD
	result := simulation.Run(pass2)

	quote.FinalTreasuryUSD = result.Summary.FinalTreasuryUSD
	if len(result.Projections) > 0 {
		day1 := result.Projections[0]
		quote.Day1RevenueUSD = day1.RevenueUSD
		quote.Day1CostUSD = day1.CostUSD
		quote.AnnualizedPct = day1.RevenueUSD * simulation.DaysPerYear / priceUSD * 100
	}

	return quote
}

// cashFlowShape holds the price-independent quantities of pass 1.
type cashFlowShape struct {
	netBTC        float64 // M: cumulative net production
	hostingBTC    float64 // H: hosting fees valued in BTC at the day's price
	netBTCFlow    float64 // sum of (hostingFeeBTC - netProductionBTC)
	finalBTCPrice float64 // price at shutdown day, or the last day
}

// extractShape walks the pass-1 projections, terminal row included (its
// flows are zeroed, but it carries the shutdown-day price).
func extractShape(result *domain.SimulationResult, startPrice float64) cashFlowShape {
	shape := cashFlowShape{finalBTCPrice: startPrice}
	for _, p := range result.Projections {
		shape.finalBTCPrice = p.BTCPriceUSD
		if p.IsShutdown {
			break
		}
		shape.netBTC += p.NetBTC
		if p.BTCPriceUSD > 0 {
			fee := p.CostUSD / p.BTCPriceUSD
			shape.hostingBTC += fee
			shape.netBTCFlow += fee - p.NetBTC
		}
	}
	return shape
}

// solveBTC prices a BTC-denominated margin target:
// priceBTC = (M - H) / (1 - margin).
func (s *TwoPassSolver) solveBTC(shape cashFlowShape) float64 {
	denom := 1 - s.TargetMargin
	if denom < denomEpsilon {
		return 0
	}
	return (shape.netBTC - shape.hostingBTC) / denom
}

// solveUSD prices a USD-denominated margin target under price appreciation:
// price = -netBtcFlow * finalPrice / (finalPrice/startPrice - margin).
func (s *TwoPassSolver) solveUSD(shape cashFlowShape, startPrice float64) float64 {
	if startPrice <= 0 {
		return 0
	}
	denom := shape.finalBTCPrice/startPrice - s.TargetMargin
	if math.Abs(denom) < denomEpsilon {
		return 0
	}
	price := -shape.netBTCFlow * shape.finalBTCPrice / denom
	if !isFinite(price) {
		return 0
	}
	return price
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var _ Policy = (*TwoPassSolver)(nil)
