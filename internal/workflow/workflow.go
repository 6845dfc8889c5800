// Package workflow runs the claim pipeline: estimate damage, look up the
// policy, calculate the payout, store the offer letter, then notify.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/notify"
	"github.com/JaimeStill/claimflow/internal/offers"
	"github.com/JaimeStill/claimflow/internal/payout"
	"github.com/JaimeStill/claimflow/internal/policies"
)

// Execute processes a single claim. Stages run strictly in order with no
// retries. Notification is scheduled after the document is stored and is
// never awaited; its outcome cannot fail the claim.
func Execute(ctx context.Context, rt *Runtime, req Request) (*Claim, error) {
	if err := validate(&req); err != nil {
		rt.Metrics.IncrementClaims("rejected")
		return nil, err
	}

	claim := &Claim{
		ClaimID:   uuid.New(),
		PolicyID:  req.PolicyID,
		CreatedAt: time.Now().UTC(),
	}
	logger := rt.Logger.With("claim_id", claim.ClaimID, "policy_id", claim.PolicyID)
	start := time.Now()

	err := stage(ctx, rt, logger, StageEstimating, func() error {
		a, err := rt.Estimator.Assess(ctx, req.Image)
		if err != nil {
			if errors.Is(err, assessment.ErrEmptyImage) {
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: %w", ErrEstimateFailed, err)
		}
		claim.Assessment = a
		return nil
	})
	if err != nil {
		return nil, fail(rt, err)
	}

	err = stage(ctx, rt, logger, StageLookingUpPolicy, func() error {
		p, err := rt.Policies.Find(ctx, req.PolicyID)
		if err != nil {
			if errors.Is(err, policies.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrPolicyNotFound, req.PolicyID)
			}
			return fmt.Errorf("lookup policy: %w", err)
		}
		claim.Policy = *p
		claim.Covered = p.Covers(claim.Assessment.DamageType)
		return nil
	})
	if err != nil {
		return nil, fail(rt, err)
	}

	err = stage(ctx, rt, logger, StageCalculatingPayout, func() error {
		r, err := payout.ForPolicy(claim.Assessment, &claim.Policy)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPayoutFailed, err)
		}
		claim.Payout = r
		return nil
	})
	if err != nil {
		return nil, fail(rt, err)
	}

	err = stage(ctx, rt, logger, StageGeneratingDocument, func() error {
		doc, err := rt.Offers.Generate(ctx, letter(claim))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDocumentFailed, err)
		}
		claim.Document = *doc
		if rt.DocumentURL != nil {
			claim.Document.URL = rt.DocumentURL(claim.ClaimID)
		}
		return nil
	})
	if err != nil {
		return nil, fail(rt, err)
	}

	rt.Metrics.ObservePipeline(time.Since(start))
	rt.Metrics.IncrementClaims(string(claim.Payout.Status))
	if claim.Payout.Status == payout.Approved {
		rt.Metrics.ObservePayout(claim.Payout.PayoutAmount.InexactFloat64())
	}

	if rt.Notifier != nil {
		logger.DebugContext(ctx, "stage scheduled", "stage", StageNotifying)
		rt.Notifier.Notify(ctx, summary(claim), req.Email)
	}

	logger.InfoContext(
		ctx, "claim processed",
		"status", claim.Payout.Status,
		"reason", claim.Payout.Reason,
		"payout", claim.Payout.PayoutAmount,
		"duration", time.Since(start),
	)

	return claim, nil
}

func validate(req *Request) error {
	req.PolicyID = strings.TrimSpace(req.PolicyID)
	req.Email = strings.TrimSpace(req.Email)

	if req.PolicyID == "" {
		return fmt.Errorf("%w: policy id is required", ErrInvalidInput)
	}
	if len(req.Image) == 0 {
		return fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return fmt.Errorf("%w: email: %w", ErrInvalidInput, err)
		}
	}
	return nil
}

func stage(ctx context.Context, rt *Runtime, logger *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	rt.Metrics.ObserveStage(name, elapsed)

	if err != nil {
		logger.WarnContext(ctx, "stage failed", "stage", name, "duration", elapsed, "error", err)
		return err
	}

	logger.DebugContext(ctx, "stage complete", "stage", name, "duration", elapsed)
	return nil
}

func fail(rt *Runtime, err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPolicyNotFound):
		rt.Metrics.IncrementClaims("rejected")
	default:
		rt.Metrics.IncrementClaims("failed")
	}
	return err
}

func letter(c *Claim) offers.Letter {
	return offers.Letter{
		ClaimID:       c.ClaimID,
		CreatedAt:     c.CreatedAt,
		PolicyID:      c.PolicyID,
		Assessment:    c.Assessment,
		Deductible:    c.Policy.Deductible,
		CoverageLimit: c.Policy.CoverageLimit,
		Covered:       c.Covered,
		Payout:        c.Payout,
	}
}

func summary(c *Claim) notify.Summary {
	return notify.Summary{
		ClaimID:       c.ClaimID,
		PolicyID:      c.PolicyID,
		DamageType:    string(c.Assessment.DamageType),
		EstimatedCost: c.Assessment.EstimatedCost,
		PayoutAmount:  c.Payout.PayoutAmount,
		Status:        c.Payout.Status,
		Reason:        c.Payout.Reason,
		DocumentURL:   c.Document.URL,
	}
}
