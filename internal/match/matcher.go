// Package match resolves a catalog miner profile against scraped market
// listings by approximate identity: hashrate proximity plus model-series
// and feature-token scoring, with a token-overlap fallback.
package match

import (
	"strings"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/fx"
)

// Scoring constants.
const (
	seriesMatchScore    = 50
	seriesMismatchScore = -100
	featureAgreeScore   = 10
	featureClashScore   = -10

	// hashrate tolerance: max(2 TH, 5% of the target hashrate)
	minHashrateToleranceTH = 2.0
	hashrateTolerancePct   = 5.0

	// fuzzyOverlapRatio is the minimum shared-token ratio for the fallback.
	fuzzyOverlapRatio = 0.8
)

// seriesVocabulary is the fixed set of recognized model-series tokens.
// Two names carrying different recognized series never match.
var seriesVocabulary = map[string]bool{
	"s17": true, "s19": true, "s21": true, "s23": true,
	"t19": true, "t21": true,
	"m30": true, "m31": true, "m50": true, "m53": true, "m60": true, "m66": true,
	"ka3": true, "k7": true, "l7": true, "l9": true,
	"e9": true, "d9": true, "z15": true,
}

// featureTokens are the qualifiers scored for presence/absence agreement.
var featureTokens = []string{"hydro", "xp", "pro", "plus"}

// Match resolves the profile to the single best listing.
// Exact name equality short-circuits regardless of hashrate. Otherwise
// candidates within the hashrate tolerance are scored and the best positive
// score wins; with no positive score a token-overlap fallback runs across
// the full listing set. Returns false when nothing matches.
func Match(profile domain.MinerProfile, listings []*domain.MarketListing) (*domain.MarketListing, bool) {
	for _, l := range listings {
		if equalNames(profile.Name, l.Model) {
			return l, true
		}
	}

	var best *domain.MarketListing
	bestScore := 0
	for _, l := range listings {
		if !withinTolerance(profile.HashrateTH, l.HashrateTH) {
			continue
		}
		if s := score(profile.Name, l.Model); s > bestScore {
			best = l
			bestScore = s
		}
	}
	if best != nil {
		return best, true
	}

	// No scored candidate: fall back to normalized token overlap across the
	// full set. A miss here is reported as no match, never a guess.
	for _, l := range listings {
		if tokenOverlap(profile.Name, l.Model) >= fuzzyOverlapRatio {
			return l, true
		}
	}
	return nil, false
}

// ReferencePrice returns the matched listing's USD price, 0 when no listing
// matches ("no reference available" for the caller to handle).
func ReferencePrice(profile domain.MinerProfile, listings []*domain.MarketListing) float64 {
	l, ok := Match(profile, listings)
	if !ok {
		return 0
	}
	return fx.ToUSD(l.Price, l.Currency)
}

// MatchingPrices returns USD prices of every listing that individually
// matches the profile, for consensus clustering. Listings in unknown
// currencies convert to 0 and are dropped.
func MatchingPrices(profile domain.MinerProfile, listings []*domain.MarketListing) []float64 {
	var prices []float64
	for _, l := range listings {
		if !matchesOne(profile, l) {
			continue
		}
		if usd := fx.ToUSD(l.Price, l.Currency); usd > 0 {
			prices = append(prices, usd)
		}
	}
	return prices
}

// matchesOne applies the Match rules to a single listing.
func matchesOne(profile domain.MinerProfile, l *domain.MarketListing) bool {
	if equalNames(profile.Name, l.Model) {
		return true
	}
	if withinTolerance(profile.HashrateTH, l.HashrateTH) && score(profile.Name, l.Model) > 0 {
		return true
	}
	return tokenOverlap(profile.Name, l.Model) >= fuzzyOverlapRatio
}

// withinTolerance checks hashrate proximity: max(2 TH, 5% of target).
func withinTolerance(targetTH, listingTH float64) bool {
	tol := targetTH * hashrateTolerancePct / 100
	if tol < minHashrateToleranceTH {
		tol = minHashrateToleranceTH
	}
	diff := targetTH - listingTH
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}

// score compares two model names by series and feature tokens.
func score(profileName, listingName string) int {
	pTokens := tokenize(profileName)
	lTokens := tokenize(listingName)

	s := 0
	pSeries := seriesOf(pTokens)
	lSeries := seriesOf(lTokens)
	switch {
	case pSeries != "" && pSeries == lSeries:
		s += seriesMatchScore
	case pSeries != "" && lSeries != "" && pSeries != lSeries:
		s += seriesMismatchScore
	}

	for _, f := range featureTokens {
		if hasToken(pTokens, f) == hasToken(lTokens, f) {
			s += featureAgreeScore
		} else {
			s += featureClashScore
		}
	}
	return s
}

// seriesOf returns the first recognized series token, or "".
func seriesOf(tokens []string) string {
	for _, t := range tokens {
		if seriesVocabulary[t] {
			return t
		}
	}
	return ""
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// tokenOverlap returns the shared-token ratio of two normalized names.
func tokenOverlap(a, b string) float64 {
	aTokens := tokenize(a)
	bTokens := tokenize(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	set := make(map[string]bool, len(aTokens))
	for _, t := range aTokens {
		set[t] = true
	}
	shared := 0
	for _, t := range bTokens {
		if set[t] {
			shared++
			set[t] = false
		}
	}

	longer := len(aTokens)
	if len(bTokens) > longer {
		longer = len(bTokens)
	}
	return float64(shared) / float64(longer)
}

// tokenize lowercases a name and splits it into alphanumeric tokens.
// A literal "+" counts as the "plus" feature token.
func tokenize(name string) []string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "+", " plus ")

	return strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

func equalNames(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
