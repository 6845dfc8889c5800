package workflow

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/metrics"
	"github.com/JaimeStill/claimflow/internal/notify"
	"github.com/JaimeStill/claimflow/internal/offers"
	"github.com/JaimeStill/claimflow/internal/policies"
)

// Runtime bundles the collaborators each pipeline stage requires.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Estimator assessment.Estimator
	Policies  policies.Lookup
	Offers    offers.System
	Notifier  notify.Notifier
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	// DocumentURL resolves the public retrieval URL of a claim's offer letter.
	// Nil leaves Document.URL empty.
	DocumentURL func(claimID uuid.UUID) string
}
