// Package payout computes what a policy pays for an assessed claim.
package payout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/policies"
)

// Status is the claim decision.
type Status string

const (
	Approved Status = "approved"
	Denied   Status = "denied"
)

// Reason explains the decision.
type Reason string

const (
	ReasonCovered           Reason = "covered"
	ReasonNotCovered        Reason = "not_covered"
	ReasonBelowDeductible   Reason = "below_deductible"
	ReasonCoverageExhausted Reason = "coverage_exhausted"
)

// Result is the outcome of a payout calculation. Amounts are in dollars, rounded to cents.
type Result struct {
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Deductible    decimal.Decimal `json:"deductible"`
	CoverageLimit decimal.Decimal `json:"coverage_limit"`
	PayoutAmount  decimal.Decimal `json:"payout_amount"`
	Status        Status          `json:"status"`
	Reason        Reason          `json:"reason"`
}

// Calculate applies the deductible, then floors at zero, then caps at the
// coverage limit. Uncovered damage pays nothing. The payout is rounded half
// away from zero to cents after clamping.
func Calculate(estimatedCost, deductible, coverageLimit decimal.Decimal, covered bool) (Result, error) {
	switch {
	case estimatedCost.IsNegative():
		return Result{}, fmt.Errorf("%w: estimated cost %s", ErrInvalidAmount, estimatedCost)
	case deductible.IsNegative():
		return Result{}, fmt.Errorf("%w: deductible %s", ErrInvalidAmount, deductible)
	case coverageLimit.IsNegative():
		return Result{}, fmt.Errorf("%w: coverage limit %s", ErrInvalidAmount, coverageLimit)
	}

	r := Result{
		EstimatedCost: estimatedCost,
		Deductible:    deductible,
		CoverageLimit: coverageLimit,
		PayoutAmount:  decimal.Zero,
		Status:        Denied,
	}

	if !covered {
		r.Reason = ReasonNotCovered
		return r, nil
	}

	amount := decimal.Max(estimatedCost.Sub(deductible), decimal.Zero)
	amount = decimal.Min(amount, coverageLimit).Round(2)

	switch {
	case amount.IsPositive():
		r.PayoutAmount = amount
		r.Status = Approved
		r.Reason = ReasonCovered
	case estimatedCost.LessThanOrEqual(deductible):
		r.Reason = ReasonBelowDeductible
	default:
		r.Reason = ReasonCoverageExhausted
	}

	return r, nil
}

// ForPolicy calculates the payout for an assessment under policy p.
func ForPolicy(a assessment.Assessment, p *policies.Policy) (Result, error) {
	return Calculate(a.EstimatedCost, p.Deductible, p.CoverageLimit, p.Covers(a.DamageType))
}
