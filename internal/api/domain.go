package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/claims"
	"github.com/JaimeStill/claimflow/internal/config"
	"github.com/JaimeStill/claimflow/internal/notify"
	"github.com/JaimeStill/claimflow/internal/offers"
	"github.com/JaimeStill/claimflow/internal/policies"
	"github.com/JaimeStill/claimflow/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Estimator assessment.Estimator
	Policies  policies.Lookup
	Offers    offers.System
	Notifier  *notify.Dispatcher
	Claims    claims.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	lookup, err := newLookup(cfg, runtime)
	if err != nil {
		return nil, err
	}

	estimator := assessment.NewMock(cfg.Estimator.Seed, runtime.Logger)
	offersSystem := offers.New(runtime.Storage, runtime.Logger)
	notifier := newNotifier(cfg, runtime)

	claimsSystem := claims.New(&workflow.Runtime{
		Estimator: estimator,
		Policies:  lookup,
		Offers:    offersSystem,
		Notifier:  notifier,
		Metrics:   runtime.Metrics,
		Logger:    runtime.Logger.With("system", "workflow"),
		DocumentURL: func(id uuid.UUID) string {
			return runtime.API.DocumentURL(id.String())
		},
	}, runtime.Logger, runtime.API.Pagination)

	return &Domain{
		Estimator: estimator,
		Policies:  lookup,
		Offers:    offersSystem,
		Notifier:  notifier,
		Claims:    claimsSystem,
	}, nil
}

func newLookup(cfg *config.Config, runtime *Runtime) (policies.Lookup, error) {
	if cfg.Policies.UsesDatabase() {
		if runtime.Database == nil {
			return nil, fmt.Errorf("policies source %s requires a database", cfg.Policies.Source)
		}
		return policies.NewRepository(runtime.Database.Connection(), runtime.Logger), nil
	}

	table, err := policies.NewTable(policies.Defaults()...)
	if err != nil {
		return nil, fmt.Errorf("policy table: %w", err)
	}
	return table, nil
}

func newNotifier(cfg *config.Config, runtime *Runtime) *notify.Dispatcher {
	n := cfg.Notify

	var sender notify.Sender
	if n.SMTP.Host != "" {
		sender = gomail.NewDialer(n.SMTP.Host, n.SMTP.Port, n.SMTP.User, n.SMTP.Password)
	}

	client := &http.Client{Timeout: n.TimeoutDuration()}

	return notify.New(
		runtime.Lifecycle.Context(),
		n.TimeoutDuration(),
		runtime.Logger,
		runtime.Metrics,
		notify.NewWebhook(n.WebhookURL, client),
		notify.NewEmail(sender, n.SMTP.From, n.DefaultRecipient, runtime.Logger),
	)
}
