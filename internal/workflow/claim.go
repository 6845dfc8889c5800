package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/offers"
	"github.com/JaimeStill/claimflow/internal/payout"
	"github.com/JaimeStill/claimflow/internal/policies"
)

// Pipeline stage names, in execution order.
const (
	StageEstimating         = "estimating"
	StageLookingUpPolicy    = "looking_up_policy"
	StageCalculatingPayout  = "calculating_payout"
	StageGeneratingDocument = "generating_document"
	StageNotifying          = "notifying"
)

// Request is one claim submission.
type Request struct {
	PolicyID string
	Image    []byte
	// Email is an optional notification address.
	Email string
}

// Claim is the assembled outcome of a processed request.
type Claim struct {
	ClaimID    uuid.UUID             `json:"claim_id"`
	PolicyID   string                `json:"policy_id"`
	Assessment assessment.Assessment `json:"assessment"`
	Policy     policies.Policy       `json:"policy"`
	Covered    bool                  `json:"covered"`
	Payout     payout.Result         `json:"payout"`
	Document   offers.Document       `json:"document"`
	CreatedAt  time.Time             `json:"created_at"`
}
