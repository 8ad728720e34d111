// Package production holds the two base formulas every projection is
// derived from: daily BTC output and daily hosting cost. Both are exact,
// stateless functions.
package production

// Process-wide mining constants.
const (
	// SecondsPerDay is the number of seconds in one simulated day.
	SecondsPerDay = 86400

	// DifficultyScale is 2^32, the expected hashes per unit of difficulty.
	DifficultyScale = float64(1 << 32)

	// HoursPerDay converts watt-level power draw into daily kWh.
	HoursPerDay = 24

	// WattsPerKilowatt converts power draw to kW for energy billing.
	WattsPerKilowatt = 1000
)

// DailyGrossBTC returns expected BTC mined per day for a hashrate (TH/s)
// against a network difficulty and block reward.
// Returns 0 for difficulty <= 0 rather than failing; degenerate market
// inputs are advisory, not errors.
func DailyGrossBTC(hashrateTH, difficulty, blockReward float64) float64 {
	if difficulty <= 0 {
		return 0
	}
	hashesPerDay := hashrateTH * 1e12 * SecondsPerDay
	return hashesPerDay * blockReward / (difficulty * DifficultyScale)
}

// DailyCost returns the USD hosting cost per day for a machine drawing
// powerWatts, billed at electricityRate plus opexRate (both USD/kWh).
func DailyCost(powerWatts, electricityRate, opexRate float64) float64 {
	kw := powerWatts / WattsPerKilowatt
	return kw * HoursPerDay * (electricityRate + opexRate)
}
