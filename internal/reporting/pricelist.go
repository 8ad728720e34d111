// Package reporting renders price lists and projection series for export.
package reporting

import (
	"fmt"
	"strings"
)

// PriceRow is one catalog machine in a rendered price list.
type PriceRow struct {
	Miner             string
	HashrateTH        float64
	PowerWatts        float64
	ReferencePriceUSD float64
	QuotedPriceUSD    float64
	PolicyID          string
	Achievable        bool
	AnnualizedPct     float64
	LifespanDays      float64
	Outcome           string
}

// RenderPriceListCSV renders price rows as a CSV string.
func RenderPriceListCSV(rows []PriceRow) string {
	var sb strings.Builder

	sb.WriteString("miner,hashrate_th,power_watts,reference_price_usd,quoted_price_usd,")
	sb.WriteString("policy_id,achievable,annualized_pct,lifespan_days,outcome\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%.2f,%.0f,%.2f,%.2f,%s,%t,%.2f,%.1f,%s\n",
			r.Miner,
			r.HashrateTH,
			r.PowerWatts,
			r.ReferencePriceUSD,
			r.QuotedPriceUSD,
			r.PolicyID,
			r.Achievable,
			r.AnnualizedPct,
			r.LifespanDays,
			r.Outcome,
		))
	}

	return sb.String()
}

// RenderPriceListMarkdown renders price rows as a markdown table.
func RenderPriceListMarkdown(rows []PriceRow) string {
	var sb strings.Builder

	sb.WriteString("# Price List\n\n")
	sb.WriteString("| Miner | TH/s | Watts | Reference $ | Quoted $ | Policy | Achievable | Annualized % |\n")
	sb.WriteString("|-------|------|-------|-------------|----------|--------|------------|---------------|\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %.1f | %.0f | %.2f | %.2f | %s | %t | %.2f |\n",
			r.Miner,
			r.HashrateTH,
			r.PowerWatts,
			r.ReferencePriceUSD,
			r.QuotedPriceUSD,
			r.PolicyID,
			r.Achievable,
			r.AnnualizedPct,
		))
	}

	return sb.String()
}
