package production

import (
	"math"
	"testing"
)

func TestDailyGrossBTC(t *testing.T) {
	tests := []struct {
		name        string
		hashrateTH  float64
		difficulty  float64
		blockReward float64
		want        float64
	}{
		{
			name:        "reference machine",
			hashrateTH:  200,
			difficulty:  1e13,
			blockReward: 3.125,
			// 200e12 * 86400 * 3.125 / (1e13 * 2^32)
			want: 200e12 * 86400 * 3.125 / (1e13 * DifficultyScale),
		},
		{
			name:        "zero difficulty",
			hashrateTH:  200,
			difficulty:  0,
			blockReward: 3.125,
			want:        0,
		},
		{
			name:        "negative difficulty",
			hashrateTH:  200,
			difficulty:  -5,
			blockReward: 3.125,
			want:        0,
		},
		{
			name:        "zero hashrate",
			hashrateTH:  0,
			difficulty:  1e13,
			blockReward: 3.125,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyGrossBTC(tt.hashrateTH, tt.difficulty, tt.blockReward)
			if math.Abs(got-tt.want) > 1e-15 {
				t.Errorf("DailyGrossBTC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDailyGrossBTC_Monotonicity(t *testing.T) {
	base := DailyGrossBTC(100, 1e13, 3.125)

	if more := DailyGrossBTC(200, 1e13, 3.125); more <= base {
		t.Errorf("doubling hashrate should increase output: %v <= %v", more, base)
	}
	if less := DailyGrossBTC(100, 2e13, 3.125); less >= base {
		t.Errorf("doubling difficulty should decrease output: %v >= %v", less, base)
	}
	if half := DailyGrossBTC(100, 1e13, 3.125/2); math.Abs(half*2-base) > 1e-15 {
		t.Errorf("halving reward should halve output: 2*%v != %v", half, base)
	}
}

func TestDailyCost(t *testing.T) {
	tests := []struct {
		name            string
		powerWatts      float64
		electricityRate float64
		opexRate        float64
		want            float64
	}{
		{name: "3kW at 7 cents total", powerWatts: 3000, electricityRate: 0.06, opexRate: 0.01, want: 3 * 24 * 0.07},
		{name: "no opex", powerWatts: 3510, electricityRate: 0.05, opexRate: 0, want: 3.51 * 24 * 0.05},
		{name: "zero power", powerWatts: 0, electricityRate: 0.06, opexRate: 0.01, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyCost(tt.powerWatts, tt.electricityRate, tt.opexRate)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("DailyCost() = %v, want %v", got, tt.want)
			}
		})
	}
}
