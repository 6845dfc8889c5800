// Package notify dispatches best-effort claim notifications without blocking the caller.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/claimflow/internal/metrics"
	"github.com/JaimeStill/claimflow/internal/payout"
	"github.com/JaimeStill/claimflow/pkg/lifecycle"
)

// ErrSkipped is returned by a Channel that has nothing to do for a summary.
var ErrSkipped = errors.New("notification skipped")

// Summary is the decision digest sent to every channel.
type Summary struct {
	ClaimID       uuid.UUID       `json:"claim_id"`
	PolicyID      string          `json:"policy_id"`
	DamageType    string          `json:"damage_type"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	PayoutAmount  decimal.Decimal `json:"payout_amount"`
	Status        payout.Status   `json:"status"`
	Reason        payout.Reason   `json:"reason"`
	DocumentURL   string          `json:"document_url"`
}

// Channel delivers a summary to one destination.
type Channel interface {
	Name() string
	Send(ctx context.Context, s Summary, address string) error
}

// Notifier accepts summaries for asynchronous delivery.
type Notifier interface {
	// Notify schedules delivery and returns immediately. Delivery failures are
	// logged and counted, never returned.
	Notify(ctx context.Context, s Summary, address string)
	// Wait blocks until every scheduled delivery has finished.
	Wait()
}

// Dispatcher fans each summary out to its channels on a background goroutine.
type Dispatcher struct {
	base     context.Context
	timeout  time.Duration
	channels []Channel
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// New creates a Dispatcher. Deliveries run under a context derived from
// base, so cancelling base aborts them; each is also bounded by timeout.
func New(base context.Context, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		base:     base,
		timeout:  timeout,
		channels: channels,
		logger:   logger.With("system", "notify"),
		metrics:  m,
	}
}

// Start drains in-flight deliveries during shutdown.
func (d *Dispatcher) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.Close()
		d.logger.Info("notifications drained")
	})
	return nil
}

func (d *Dispatcher) Notify(ctx context.Context, s Summary, address string) {
	if len(d.channels) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.base.Err() != nil {
		d.logger.WarnContext(ctx, "notification dropped, shutting down", "claim_id", s.ClaimID)
		return
	}

	d.inflight.Go(func() {
		dctx, cancel := context.WithTimeout(d.base, d.timeout)
		defer cancel()

		if err := d.dispatch(dctx, s, address); err != nil {
			d.logger.WarnContext(ctx, "notification incomplete", "claim_id", s.ClaimID, "error", err)
		}
	})
}

func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// Close stops accepting summaries and waits for scheduled deliveries.
// Notify calls after Close are dropped.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, s Summary, address string) error {
	var g errgroup.Group

	for _, ch := range d.channels {
		g.Go(func() error {
			err := d.send(ctx, ch, s, address)
			switch {
			case err == nil:
				d.metrics.IncrementNotifications(ch.Name(), "sent")
				d.logger.InfoContext(ctx, "notification sent", "channel", ch.Name(), "claim_id", s.ClaimID)
				return nil
			case errors.Is(err, ErrSkipped):
				d.metrics.IncrementNotifications(ch.Name(), "skipped")
				d.logger.DebugContext(ctx, "notification skipped", "channel", ch.Name(), "claim_id", s.ClaimID, "reason", err)
				return nil
			default:
				d.metrics.IncrementNotifications(ch.Name(), "failed")
				d.logger.ErrorContext(ctx, "notification failed", "channel", ch.Name(), "claim_id", s.ClaimID, "error", err)
				return fmt.Errorf("%s: %w", ch.Name(), err)
			}
		})
	}

	return g.Wait()
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, s Summary, address string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return ch.Send(ctx, s, address)
}
