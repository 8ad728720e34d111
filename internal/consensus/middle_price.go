// Package consensus reduces noisy multi-vendor price quotes for one model
// to a single trustworthy number.
package consensus

import (
	"math"
	"sort"
)

// clusterTolerancePct is the maximum percentage gap between a price and the
// previous element of its cluster.
const clusterTolerancePct = 10

// MiddlePrice returns the consensus of a list of USD prices.
//
// Fewer than 3 observations yield the arithmetic mean. Otherwise prices are
// sorted ascending and chain-clustered: a price joins the current cluster if
// it is within 10% of the previous element already in the cluster, not of
// the cluster mean. Chaining lets a cluster drift across several 10% hops,
// which is intentional: vendor quotes step apart incrementally rather than
// sitting inside one hard band. The most populated cluster wins (ties keep
// the first, i.e. lowest-priced, cluster) and its rounded mean is returned.
// An empty list yields 0.
func MiddlePrice(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	if len(prices) < 3 {
		return math.Round(mean(prices))
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	var clusters [][]float64
	current := []float64{sorted[0]}
	for _, p := range sorted[1:] {
		prev := current[len(current)-1]
		if pctDiff(p, prev) <= clusterTolerancePct {
			current = append(current, p)
		} else {
			clusters = append(clusters, current)
			current = []float64{p}
		}
	}
	clusters = append(clusters, current)

	best := clusters[0]
	for _, c := range clusters[1:] {
		if len(c) > len(best) {
			best = c
		}
	}

	return math.Round(mean(best))
}

// pctDiff returns the percentage difference of a from b.
func pctDiff(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(a-b) / math.Abs(b) * 100
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
