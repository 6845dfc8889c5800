// Package assessment classifies vehicle damage from a photo and estimates the repair cost.
package assessment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DamageType is the category of damage reported by the estimator.
type DamageType string

const (
	Collision DamageType = "collision"
	Hail      DamageType = "hail"
	Flood     DamageType = "flood"
	Fire      DamageType = "fire"
	Vandalism DamageType = "vandalism"
	Theft     DamageType = "theft"
)

// DamageTypes lists every known damage type.
var DamageTypes = []DamageType{Collision, Hail, Flood, Fire, Vandalism, Theft}

// ParseDamageType normalizes s and checks it names a known damage type.
func ParseDamageType(s string) (DamageType, error) {
	t := DamageType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DamageTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDamageType, s)
}

// Severity grades how badly the vehicle is damaged.
type Severity string

const (
	Minor     Severity = "minor"
	Moderate  Severity = "moderate"
	Severe    Severity = "severe"
	TotalLoss Severity = "total_loss"
)

// Severities lists every severity grade from least to most severe.
var Severities = []Severity{Minor, Moderate, Severe, TotalLoss}

// Assessment is the estimator's verdict for one image.
type Assessment struct {
	DamageType    DamageType      `json:"damage_type"`
	Severity      Severity        `json:"severity"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Confidence    float64         `json:"confidence"`
}

// Estimator turns a damage photo into an Assessment.
// Implementations must be safe for concurrent use.
type Estimator interface {
	Assess(ctx context.Context, image []byte) (Assessment, error)
}
