package reporting

import (
	"fmt"
	"strings"

	"miner-econ-lab/internal/domain"
)

// RenderProjectionCSV renders a full projection series as CSV.
func RenderProjectionCSV(result *domain.SimulationResult) string {
	var sb strings.Builder

	sb.WriteString("date,day_index,difficulty,btc_price_usd,block_reward,")
	sb.WriteString("gross_btc,net_btc,cost_usd,revenue_usd,profit_usd,")
	sb.WriteString("cumulative_profit_usd,treasury_btc,treasury_cash_usd,treasury_value_usd,")
	sb.WriteString("is_breakeven,is_shutdown,is_bankrupt\n")

	for _, p := range result.Projections {
		sb.WriteString(fmt.Sprintf("%s,%d,%.0f,%.2f,%.4f,%.8f,%.8f,%.2f,%.2f,%.2f,%.2f,%.8f,%.2f,%.2f,%t,%t,%t\n",
			p.Date.Format("2006-01-02"),
			p.DayIndex,
			p.Difficulty,
			p.BTCPriceUSD,
			p.BlockReward,
			p.GrossBTC,
			p.NetBTC,
			p.CostUSD,
			p.RevenueUSD,
			p.ProfitUSD,
			p.CumulativeProfitUSD,
			p.TreasuryBTC,
			p.TreasuryCashUSD,
			p.TreasuryValueUSD,
			p.IsBreakeven,
			p.IsShutdown,
			p.IsBankrupt,
		))
	}

	return sb.String()
}
