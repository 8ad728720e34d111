package reporting

import (
	"strings"
	"testing"
	"time"

	"miner-econ-lab/internal/domain"
)

func TestRenderProjectionCSV(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	result := &domain.SimulationResult{
		Projections: []*domain.DailyProjection{
			{
				Date:        start,
				DayIndex:    0,
				Difficulty:  1e13,
				BTCPriceUSD: 50000,
				BlockReward: 3.125,
				NetBTC:      0.0012375,
				CostUSD:     5.04,
				RevenueUSD:  61.88,
			},
			{
				Date:       start.AddDate(0, 0, 1),
				DayIndex:   1,
				IsShutdown: true,
			},
		},
	}

	out := RenderProjectionCSV(result)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "date,day_index,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2026-09-01,0,") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "true") {
		t.Errorf("terminal row should carry the shutdown flag: %s", lines[2])
	}
}
