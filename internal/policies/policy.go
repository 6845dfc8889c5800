// Package policies provides read-only lookup of insurance policy terms.
package policies

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/claimflow/internal/assessment"
)

// Policy holds the terms a payout is computed against.
type Policy struct {
	ID            string                  `json:"policy_id"`
	Deductible    decimal.Decimal         `json:"deductible"`
	CoverageLimit decimal.Decimal         `json:"coverage_limit"`
	CoveredTypes  []assessment.DamageType `json:"covered_types"`
}

// Covers reports whether damage of type t is covered.
func (p *Policy) Covers(t assessment.DamageType) bool {
	return slices.Contains(p.CoveredTypes, t)
}

// Validate checks the policy terms are usable for payout calculation.
func (p *Policy) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing policy id", ErrInvalidPolicy)
	}
	if p.Deductible.IsNegative() {
		return fmt.Errorf("%w: %s has negative deductible", ErrInvalidPolicy, p.ID)
	}
	if p.CoverageLimit.IsNegative() {
		return fmt.Errorf("%w: %s has negative coverage limit", ErrInvalidPolicy, p.ID)
	}
	return nil
}

func (p Policy) clone() *Policy {
	p.CoveredTypes = slices.Clone(p.CoveredTypes)
	return &p
}

// Lookup resolves policy identifiers to policy terms.
// Implementations must be safe for concurrent use.
type Lookup interface {
	// Find returns the policy with the given id or ErrNotFound.
	Find(ctx context.Context, id string) (*Policy, error)
	// List returns every policy ordered by id.
	List(ctx context.Context) ([]Policy, error)
}

// Defaults returns the built-in reference policies.
func Defaults() []Policy {
	types := func(t ...assessment.DamageType) []assessment.DamageType { return t }

	return []Policy{
		{
			ID:            "POL001",
			Deductible:    decimal.NewFromInt(500),
			CoverageLimit: decimal.NewFromInt(50000),
			CoveredTypes:  types(assessment.Collision, assessment.Hail, assessment.Flood, assessment.Fire),
		},
		{
			ID:            "POL002",
			Deductible:    decimal.NewFromInt(1000),
			CoverageLimit: decimal.NewFromInt(100000),
			CoveredTypes:  types(assessment.Collision, assessment.Hail, assessment.Flood, assessment.Fire, assessment.Vandalism),
		},
		{
			ID:            "POL003",
			Deductible:    decimal.NewFromInt(250),
			CoverageLimit: decimal.NewFromInt(25000),
			CoveredTypes:  types(assessment.Collision, assessment.Hail),
		},
	}
}
