package payout

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/policies"
	"github.com/JaimeStill/claimflow/pkg/handlers"
	"github.com/JaimeStill/claimflow/pkg/routes"
)

// Request prices a damage estimate against a stored policy.
type Request struct {
	PolicyID      string          `json:"policy_id"`
	DamageType    string          `json:"damage_type"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// Handler exposes the calculator as a standalone tool endpoint.
type Handler struct {
	lookup policies.Lookup
	logger *slog.Logger
}

// NewHandler creates a Handler resolving policies through lookup.
func NewHandler(lookup policies.Lookup, logger *slog.Logger) *Handler {
	return &Handler{
		lookup: lookup,
		logger: logger.With("handler", "payout"),
	}
}

// Routes returns the payout tool route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/tools",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/payout", Handler: h.Calculate},
		},
	}
}

// Calculate prices a JSON Request.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	if req.PolicyID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: policy_id required", ErrInvalidRequest))
		return
	}

	damage, err := assessment.ParseDamageType(req.DamageType)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	p, err := h.lookup.Find(r.Context(), req.PolicyID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := Calculate(req.EstimatedCost, p.Deductible, p.CoverageLimit, p.Covers(damage))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
