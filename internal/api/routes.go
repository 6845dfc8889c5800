package api

import (
	"net/http"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/config"
	"github.com/JaimeStill/claimflow/internal/payout"
	"github.com/JaimeStill/claimflow/internal/policies"
	"github.com/JaimeStill/claimflow/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	routes.Register(
		mux,
		domain.Claims.Handler(maxUpload).Routes(),
		policies.NewHandler(domain.Policies, runtime.Logger).Routes(),
		assessment.NewHandler(domain.Estimator, runtime.Logger, maxUpload).Routes(),
		payout.NewHandler(domain.Policies, runtime.Logger).Routes(),
	)
}
