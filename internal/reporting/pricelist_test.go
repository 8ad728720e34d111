package reporting

import (
	"strings"
	"testing"
)

func testRows() []PriceRow {
	return []PriceRow{
		{
			Miner:             "Antminer S21 Pro",
			HashrateTH:        234,
			PowerWatts:        3510,
			ReferencePriceUSD: 4612,
			QuotedPriceUSD:    5103.25,
			PolicyID:          "TWO_PASS_btc_margin30",
			Achievable:        true,
			AnnualizedPct:     48.5,
			LifespanDays:      0,
			Outcome:           "win",
		},
		{
			Miner:             "Whatsminer M50",
			HashrateTH:        114,
			PowerWatts:        3306,
			ReferencePriceUSD: 1280,
			QuotedPriceUSD:    0,
			PolicyID:          "TWO_PASS_btc_margin30",
			Achievable:        false,
		},
	}
}

func TestRenderPriceListCSV(t *testing.T) {
	out := RenderPriceListCSV(testRows())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "miner,hashrate_th,power_watts,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Antminer S21 Pro") || !strings.Contains(lines[1], "5103.25") {
		t.Errorf("first row missing fields: %s", lines[1])
	}
	if !strings.Contains(lines[2], "false") {
		t.Errorf("unachievable row should carry false: %s", lines[2])
	}
}

func TestRenderPriceListCSV_Empty(t *testing.T) {
	out := RenderPriceListCSV(nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("empty csv has %d lines, want header only", len(lines))
	}
}

func TestRenderPriceListMarkdown(t *testing.T) {
	out := RenderPriceListMarkdown(testRows())

	if !strings.Contains(out, "# Price List") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "| Antminer S21 Pro |") {
		t.Error("missing machine row")
	}
	if strings.Count(out, "\n|") < 4 {
		t.Errorf("markdown table too short:\n%s", out)
	}
}
