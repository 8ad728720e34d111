package domain

// MinerProfile describes one catalog machine. Immutable per simulation run.
type MinerProfile struct {
	Name         string  // catalog identifier, e.g. "Antminer S21 Pro"
	HashrateTH   float64 // TH/s, > 0
	PowerWatts   float64 // wall power draw, > 0
	SalePriceUSD float64 // nominal sale price, >= 0
}
