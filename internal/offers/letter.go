// Package offers renders claim offer letters as PDF and keeps them in blob storage.
package offers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/payout"
)

// Letter is everything printed on an offer letter.
type Letter struct {
	ClaimID       uuid.UUID
	CreatedAt     time.Time
	PolicyID      string
	Assessment    assessment.Assessment
	Deductible    decimal.Decimal
	CoverageLimit decimal.Decimal
	Covered       bool
	Payout        payout.Result
}

// Document references a stored offer letter.
type Document struct {
	Key       string `json:"key"`
	URL       string `json:"url,omitempty"`
	SizeBytes int64  `json:"size_bytes"`
	PageCount int    `json:"page_count"`
}

// Key returns the storage key of the offer letter for a claim.
func Key(claimID uuid.UUID) string {
	return "offers/" + claimID.String() + ".pdf"
}
