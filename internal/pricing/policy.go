// Package pricing solves for the sale price of a hosting contract.
//
// Two policies coexist on purpose: the two-pass solver inverts the daily
// simulator for a configurable target margin, while the closed-form solver
// prices by a fixed 2x rule over geometric sums. They answer the same
// question with different rules and neither is authoritative; callers pick
// one via the factory and the product decision stays open.
package pricing

import (
	"errors"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/simulation"
)

// Factory errors.
var (
	ErrUnknownPolicyType   = errors.New("unknown pricing policy type")
	ErrInvalidDenomination = errors.New("two-pass policy requires denomination btc or usd")
	ErrInvalidTargetMargin = errors.New("target margin must not be negative")
)

// Policy prices a contract from simulator inputs. Implementations are pure:
// degenerate numerics yield an unachievable zero quote, never an error.
type Policy interface {
	// Quote computes a sale price for the contract described by in.
	Quote(in simulation.Inputs) *domain.PriceQuote

	// ID returns the policy identifier (includes parameters).
	ID() string
}

// FromConfig builds a Policy from a tagged config.
func FromConfig(cfg domain.PricingPolicyConfig) (Policy, error) {
	switch cfg.PolicyType {
	case domain.PolicyTwoPass:
		if cfg.TargetMargin < 0 {
			return nil, ErrInvalidTargetMargin
		}
		switch cfg.Denomination {
		case domain.DenomBTC, domain.DenomUSD:
		default:
			return nil, ErrInvalidDenomination
		}
		return NewTwoPassSolver(cfg.TargetMargin, cfg.Denomination), nil
	case domain.PolicyClosedForm:
		return NewClosedFormSolver(), nil
	default:
		return nil, ErrUnknownPolicyType
	}
}
