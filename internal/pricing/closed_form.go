package pricing

import (
	"math"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/production"
	"miner-econ-lab/internal/simulation"
)

// Closed-form solver constants.
const (
	// maxLifespanDays caps the "effectively infinite" lifespan reached when
	// revenue and cost decay at nearly the same rate.
	maxLifespanDays = 100 * simulation.DaysPerYear

	// decayEpsilon treats two decay rates as equal below this difference.
	decayEpsilon = 1e-9
)

// ClosedFormSolver prices a contract analytically, without the simulator.
//
// Daily revenue (in BTC) decays geometrically with difficulty growth and
// daily cost (in BTC) decays with price growth. The operating lifespan is
// where the two curves cross; revenue and cost are then summed in closed
// form, split into two phases at a halving boundary. The minimum viable
// price is a fixed doubling of the lifetime profit, independent of any
// target margin.
type ClosedFormSolver struct{}

// NewClosedFormSolver creates a closed-form solver.
func NewClosedFormSolver() *ClosedFormSolver {
	return &ClosedFormSolver{}
}

// ID returns the policy identifier.
func (s *ClosedFormSolver) ID() string {
	return "CLOSED_FORM_2X"
}

// Quote computes lifespan and minimum price for the contract.
func (s *ClosedFormSolver) Quote(in simulation.Inputs) *domain.PriceQuote {
	quote := &domain.PriceQuote{PolicyID: s.ID()}

	startPrice := in.Market.BTCPriceUSD
	if startPrice <= 0 {
		return quote
	}

	gross := production.DailyGrossBTC(in.Profile.HashrateTH, in.Market.Difficulty, in.Market.BlockReward)
	r0 := gross * (1 - in.Terms.PoolFeePct/100)
	c0 := production.DailyCost(in.Profile.PowerWatts, in.Terms.ElectricityRate, in.Terms.OpexRate) / startPrice

	decayRev := 1 / math.Pow(1+in.Market.MonthlyDiffGrowthPct/100, 1.0/30)
	decayCost := 1 / math.Pow(1+in.Market.MonthlyPriceGrowthPct/100, 1.0/30)

	halvingDay := -1.0
	if in.Market.HalvingDate != nil {
		halvingDay = float64(int(in.Market.HalvingDate.Sub(in.Config.StartDate).Hours() / 24))
	}

	lifespan := lifespanDays(r0, c0, decayRev, decayCost, halvingDay)
	quote.LifespanDays = lifespan
	if lifespan <= 0 {
		return quote
	}

	var revenueBTC float64
	if halvingDay >= 0 && halvingDay < lifespan {
		// Pre-halving phase, then a second phase starting from the halved
		// revenue at the boundary.
		revenueBTC = geometricSum(r0, decayRev, halvingDay)
		r1 := r0 * math.Pow(decayRev, halvingDay) / 2
		revenueBTC += geometricSum(r1, decayRev, lifespan-halvingDay)
	} else {
		revenueBTC = geometricSum(r0, decayRev, lifespan)
	}
	costBTC := geometricSum(c0, decayCost, lifespan)

	quote.TotalRevenueBTC = revenueBTC
	quote.TotalCostBTC = costBTC

	// Fixed doubling rule: price twice the lifetime profit.
	priceBTC := 2 * (revenueBTC - costBTC)
	if !isFinite(priceBTC) || priceBTC <= 0 {
		return quote
	}

	quote.PriceBTC = priceBTC
	quote.PriceUSD = priceBTC * startPrice
	quote.Achievable = true
	return quote
}

// lifespanDays solves r0*decayRev^t = c0*decayCost^t for t, accounting for
// a halving at halvingDay (pass a negative day for none). Near-equal decay
// rates make the crossing effectively infinite; the result is capped.
func lifespanDays(r0, c0, decayRev, decayCost, halvingDay float64) float64 {
	life := crossingDay(r0, c0, decayRev, decayCost)

	if halvingDay >= 0 && halvingDay < life {
		// Revenue halves at the boundary; re-solve from there.
		r1 := r0 * math.Pow(decayRev, halvingDay) / 2
		c1 := c0 * math.Pow(decayCost, halvingDay)
		extra := crossingDay(r1, c1, decayRev, decayCost)
		life = halvingDay + extra
	}

	if life > maxLifespanDays {
		return maxLifespanDays
	}
	return life
}

// crossingDay returns the day count where the revenue curve meets the cost
// curve, 0 when already unprofitable, capped when the curves never meet.
func crossingDay(r0, c0, decayRev, decayCost float64) float64 {
	if r0 <= 0 {
		return 0
	}
	if c0 <= 0 {
		return maxLifespanDays
	}
	if r0 <= c0 {
		return 0
	}

	logRatio := math.Log(decayCost / decayRev)
	if math.Abs(logRatio) < decayEpsilon {
		// Both curves decay at the same rate: profitable forever.
		return maxLifespanDays
	}

	t := math.Log(r0/c0) / logRatio
	if t < 0 || !isFinite(t) {
		return maxLifespanDays
	}
	return t
}

// geometricSum returns sum_{t=0}^{n-1} a*q^t for a fractional day count n.
func geometricSum(a, q, n float64) float64 {
	if n <= 0 {
		return 0
	}
	if math.Abs(1-q) < decayEpsilon {
		return a * n
	}
	return a * (1 - math.Pow(q, n)) / (1 - q)
}

var _ Policy = (*ClosedFormSolver)(nil)
