// Package simulation implements the day-stepped contract simulator.
// Each day compounds market state, produces BTC, charges hosting cost, and
// updates a treasury under one of three accounting modes. The loop is
// strictly sequential: every day depends on the previous day's balances.
package simulation

import (
	"math"
	"time"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/production"
)

// DaysPerYear is the contract-day convention used for all duration math.
const DaysPerYear = 365

// Inputs bundles everything one simulator run consumes.
type Inputs struct {
	Profile domain.MinerProfile
	Terms   domain.ContractTerms
	Market  domain.MarketConditions
	Config  domain.SimulationConfig
}

// Run executes the simulation. It never fails: degenerate inputs produce an
// immediate shutdown (possibly on day 0), not an error.
//
// Per-day order:
//  1. compound difficulty (every 14th day) and BTC price (daily)
//  2. apply the halving once the simulated date reaches it
//  3. production, pool fee, cost, revenue
//  4. mode-dependent shutdown test; on trigger append one terminal
//     projection (production zeroed, treasury frozen) and stop
//  5. treasury update, bankruptcy check, sticky breakeven test
func Run(in Inputs) *domain.SimulationResult {
	totalDays := int(in.Terms.DurationYears * DaysPerYear)

	difficulty := in.Market.Difficulty
	price := in.Market.BTCPriceUSD
	reward := in.Market.BlockReward
	priceStep := math.Pow(1+in.Market.MonthlyPriceGrowthPct/100, 1.0/30) - 1
	diffStep := math.Pow(1+in.Market.MonthlyDiffGrowthPct/100, 14.0/30)

	dailyCost := production.DailyCost(in.Profile.PowerWatts, in.Terms.ElectricityRate, in.Terms.OpexRate)

	mode := modeFor(in.Config.Mode, in.Terms, dailyCost)
	st := &treasury{}
	mode.seed(st, in.Config.InitialCapital, price)

	result := &domain.SimulationResult{
		Summary: domain.Summary{
			MinerName: in.Profile.Name,
			Mode:      in.Config.Mode,
			StartDate: in.Config.StartDate,
		},
	}
	sum := &result.Summary

	var (
		halved    bool
		cumNetBTC float64
		cumCost   float64
		cumProfit float64
	)

	for day := 0; day < totalDays; day++ {
		date := in.Config.StartDate.AddDate(0, 0, day)

		if day > 0 {
			price *= 1 + priceStep
			if day%14 == 0 {
				difficulty *= diffStep
			}
		}
		if !halved && in.Market.HalvingDate != nil && !date.Before(*in.Market.HalvingDate) {
			reward /= 2
			halved = true
		}

		gross := production.DailyGrossBTC(in.Profile.HashrateTH, difficulty, reward)
		poolFee := gross * in.Terms.PoolFeePct / 100
		net := gross - poolFee
		revenue := net * price

		if mode.shouldShutdown(day, revenue, dailyCost) {
			appendTerminal(result, st, mode, date, day, difficulty, price, reward, cumNetBTC, cumCost, cumProfit, false)
			sum.ShutdownReason = domain.ShutdownUnprofitable
			break
		}

		// Net production is paid out to the operator; the day's hosting fee
		// flows back in (zero during a prepaid advance period).
		st.btc -= net
		st.btc += mode.costInflow(day, dailyCost, price)

		if mode.bankrupt(st) {
			appendTerminal(result, st, mode, date, day, difficulty, price, reward, cumNetBTC, cumCost, cumProfit, true)
			sum.ShutdownReason = domain.ShutdownBankrupt
			break
		}

		cumNetBTC += net
		cumCost += dailyCost
		cumProfit += revenue - dailyCost

		p := &domain.DailyProjection{
			Date:                date,
			DayIndex:            day,
			Difficulty:          difficulty,
			BTCPriceUSD:         price,
			BlockReward:         reward,
			GrossBTC:            gross,
			PoolFeeBTC:          poolFee,
			NetBTC:              net,
			CostUSD:             dailyCost,
			RevenueUSD:          revenue,
			ProfitUSD:           revenue - dailyCost,
			CumulativeNetBTC:    cumNetBTC,
			CumulativeCostUSD:   cumCost,
			CumulativeProfitUSD: cumProfit,
		}
		mode.fill(p, st, price)

		if sum.BreakevenDate == nil && p.TreasuryValueUSD >= in.Config.InitialCapital {
			d := date
			sum.BreakevenDate = &d
			p.IsBreakeven = true
		}

		result.Projections = append(result.Projections, p)

		sum.ActiveDays++
		sum.TotalGrossBTC += gross
		sum.TotalNetBTC += net
		sum.TotalCostUSD += dailyCost
		sum.TotalRevenueUSD += revenue
	}

	finalize(result, mode, in)
	return result
}

// appendTerminal appends the single post-shutdown projection: production and
// daily flows zeroed, treasury and cumulative figures frozen.
func appendTerminal(result *domain.SimulationResult, st *treasury, mode modeStrategy, date time.Time, day int, difficulty, price, reward, cumNetBTC, cumCost, cumProfit float64, bankrupt bool) {
	p := &domain.DailyProjection{
		Date:                date,
		DayIndex:            day,
		Difficulty:          difficulty,
		BTCPriceUSD:         price,
		BlockReward:         reward,
		CumulativeNetBTC:    cumNetBTC,
		CumulativeCostUSD:   cumCost,
		CumulativeProfitUSD: cumProfit,
		IsShutdown:          true,
		IsBankrupt:          bankrupt,
	}
	mode.fill(p, st, price)
	result.Projections = append(result.Projections, p)

	d := date
	result.Summary.ShutdownDate = &d
}

// finalize fills the summary fields that depend on the run's last state.
func finalize(result *domain.SimulationResult, mode modeStrategy, in Inputs) {
	sum := &result.Summary

	if n := len(result.Projections); n > 0 {
		last := result.Projections[n-1]
		sum.FinalTreasuryBTC = last.TreasuryBTC
		sum.FinalTreasuryUSD = last.TreasuryValueUSD
	}
	if in.Config.InitialCapital > 0 {
		sum.ROIPct = (sum.FinalTreasuryUSD - in.Config.InitialCapital) / in.Config.InitialCapital * 100
	}

	mode.classify(sum, in)
}
