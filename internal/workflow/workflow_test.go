package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/metrics"
	"github.com/JaimeStill/claimflow/internal/notify"
	"github.com/JaimeStill/claimflow/internal/offers"
	"github.com/JaimeStill/claimflow/internal/payout"
	"github.com/JaimeStill/claimflow/internal/policies"
	"github.com/JaimeStill/claimflow/internal/workflow"
	"github.com/JaimeStill/claimflow/pkg/lifecycle"
	"github.com/JaimeStill/claimflow/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockEstimator struct {
	assessFn func(ctx context.Context, image []byte) (assessment.Assessment, error)
}

func (m *mockEstimator) Assess(ctx context.Context, image []byte) (assessment.Assessment, error) {
	return m.assessFn(ctx, image)
}

func fixed(t assessment.DamageType, cost string) *mockEstimator {
	return &mockEstimator{assessFn: func(ctx context.Context, image []byte) (assessment.Assessment, error) {
		return assessment.Assessment{
			DamageType:    t,
			Severity:      assessment.Moderate,
			EstimatedCost: decimal.RequireFromString(cost),
			Confidence:    0.9,
		}, nil
	}}
}

type recordingNotifier struct {
	mu        sync.Mutex
	summaries []notify.Summary
	addresses []string
}

func (r *recordingNotifier) Notify(ctx context.Context, s notify.Summary, address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
	r.addresses = append(r.addresses, address)
}

func (r *recordingNotifier) Wait() {}

type failingStore struct {
	storage.System
}

func (failingStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (failingStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	return errors.New("disk full")
}

func newRuntime(t *testing.T, est assessment.Estimator) (*workflow.Runtime, *recordingNotifier) {
	t.Helper()

	table, err := policies.NewTable(policies.Defaults()...)
	require.NoError(t, err)

	store := storage.NewFilesystem(t.TempDir(), discard())
	lc := lifecycle.New()
	require.NoError(t, store.Start(lc))
	lc.WaitForStartup()

	n := &recordingNotifier{}
	return &workflow.Runtime{
		Estimator: est,
		Policies:  table,
		Offers:    offers.New(store, discard()),
		Notifier:  n,
		Logger:    discard(),
		DocumentURL: func(id uuid.UUID) string {
			return "http://localhost:8000/api/claims/" + id.String() + "/document"
		},
	}, n
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name       string
		policyID   string
		damage     assessment.DamageType
		cost       string
		wantPayout string
		wantStatus payout.Status
		wantReason payout.Reason
	}{
		{"covered", "POL001", assessment.Collision, "5000", "4500", payout.Approved, payout.ReasonCovered},
		{"capped at limit", "POL003", assessment.Hail, "30000", "25000", payout.Approved, payout.ReasonCovered},
		{"not covered", "POL001", assessment.Vandalism, "5000", "0", payout.Denied, payout.ReasonNotCovered},
		{"below deductible", "POL002", assessment.Fire, "800", "0", payout.Denied, payout.ReasonBelowDeductible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, n := newRuntime(t, fixed(tt.damage, tt.cost))

			claim, err := workflow.Execute(context.Background(), rt, workflow.Request{
				PolicyID: tt.policyID,
				Image:    []byte("jpeg"),
				Email:    "jane@example.com",
			})
			require.NoError(t, err)

			assert.NotEqual(t, uuid.Nil, claim.ClaimID)
			assert.Equal(t, tt.policyID, claim.PolicyID)
			assert.Equal(t, tt.policyID, claim.Policy.ID)
			assert.Equal(t, tt.damage, claim.Assessment.DamageType)
			assert.True(t, decimal.RequireFromString(tt.wantPayout).Equal(claim.Payout.PayoutAmount),
				"payout %s", claim.Payout.PayoutAmount)
			assert.Equal(t, tt.wantStatus, claim.Payout.Status)
			assert.Equal(t, tt.wantReason, claim.Payout.Reason)

			assert.Equal(t, offers.Key(claim.ClaimID), claim.Document.Key)
			assert.Equal(t, 1, claim.Document.PageCount)
			assert.Positive(t, claim.Document.SizeBytes)
			assert.Contains(t, claim.Document.URL, claim.ClaimID.String())

			data, err := rt.Offers.Find(context.Background(), claim.ClaimID)
			require.NoError(t, err)
			assert.Equal(t, claim.Document.SizeBytes, int64(len(data)))

			require.Len(t, n.summaries, 1)
			assert.Equal(t, claim.ClaimID, n.summaries[0].ClaimID)
			assert.Equal(t, "jane@example.com", n.addresses[0])
		})
	}
}

func TestExecuteRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  workflow.Request
	}{
		{"missing policy id", workflow.Request{PolicyID: "  ", Image: []byte("jpeg")}},
		{"empty image", workflow.Request{PolicyID: "POL001"}},
		{"malformed email", workflow.Request{PolicyID: "POL001", Image: []byte("jpeg"), Email: "not-an-address"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			est := &mockEstimator{assessFn: func(ctx context.Context, image []byte) (assessment.Assessment, error) {
				called = true
				return assessment.Assessment{}, nil
			}}
			rt, n := newRuntime(t, est)

			_, err := workflow.Execute(context.Background(), rt, tt.req)
			require.ErrorIs(t, err, workflow.ErrInvalidInput)
			assert.Equal(t, http.StatusBadRequest, workflow.MapHTTPStatus(err))
			assert.False(t, called, "estimator ran before validation")
			assert.Empty(t, n.summaries)
		})
	}
}

func TestExecuteUnknownPolicy(t *testing.T) {
	rt, n := newRuntime(t, fixed(assessment.Collision, "5000"))

	_, err := workflow.Execute(context.Background(), rt, workflow.Request{PolicyID: "POL999", Image: []byte("jpeg")})
	require.ErrorIs(t, err, workflow.ErrPolicyNotFound)
	assert.Equal(t, http.StatusNotFound, workflow.MapHTTPStatus(err))
	assert.Empty(t, n.summaries)
}

func TestExecuteEstimatorFailure(t *testing.T) {
	est := &mockEstimator{assessFn: func(ctx context.Context, image []byte) (assessment.Assessment, error) {
		return assessment.Assessment{}, errors.New("model unavailable")
	}}
	rt, _ := newRuntime(t, est)

	_, err := workflow.Execute(context.Background(), rt, workflow.Request{PolicyID: "POL001", Image: []byte("jpeg")})
	require.ErrorIs(t, err, workflow.ErrEstimateFailed)
	assert.Equal(t, http.StatusInternalServerError, workflow.MapHTTPStatus(err))
}

func TestExecuteDocumentFailure(t *testing.T) {
	rt, n := newRuntime(t, fixed(assessment.Collision, "5000"))
	rt.Offers = offers.New(failingStore{}, discard())

	_, err := workflow.Execute(context.Background(), rt, workflow.Request{PolicyID: "POL001", Image: []byte("jpeg")})
	require.ErrorIs(t, err, workflow.ErrDocumentFailed)
	assert.Equal(t, http.StatusInternalServerError, workflow.MapHTTPStatus(err))
	assert.Empty(t, n.summaries)
}

func TestExecuteSurvivesNotifierFailure(t *testing.T) {
	rt, _ := newRuntime(t, fixed(assessment.Collision, "5000"))

	failing := &failingChannel{}
	d := notify.New(context.Background(), defaultTimeout, discard(), nil, failing)
	rt.Notifier = d

	claim, err := workflow.Execute(context.Background(), rt, workflow.Request{PolicyID: "POL001", Image: []byte("jpeg")})
	require.NoError(t, err)
	assert.Equal(t, payout.Approved, claim.Payout.Status)

	d.Wait()
	assert.True(t, failing.called())
}

func TestExecuteRecordsMetrics(t *testing.T) {
	rt, _ := newRuntime(t, fixed(assessment.Collision, "5000"))
	rt.Metrics = metrics.New(prometheus.NewRegistry())

	_, err := workflow.Execute(context.Background(), rt, workflow.Request{PolicyID: "POL001", Image: []byte("jpeg")})
	require.NoError(t, err)
	_, err = workflow.Execute(context.Background(), rt, workflow.Request{PolicyID: "POL404", Image: []byte("jpeg")})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(rt.Metrics.ClaimsProcessed.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rt.Metrics.ClaimsProcessed.WithLabelValues("rejected")))
	assert.Equal(t, 4, testutil.CollectAndCount(rt.Metrics.StageLatency))
}

func TestExecuteConcurrentClaims(t *testing.T) {
	rt, n := newRuntime(t, assessment.NewMock(42, discard()))

	const workers = 16
	claims := make([]*workflow.Claim, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			claims[i], errs[i] = workflow.Execute(context.Background(), rt, workflow.Request{
				PolicyID: "POL002",
				Image:    []byte("jpeg"),
			})
		})
	}
	wg.Wait()

	seen := make(map[uuid.UUID]bool, workers)
	for i := range workers {
		require.NoError(t, errs[i])
		assert.False(t, seen[claims[i].ClaimID], "duplicate claim id")
		seen[claims[i].ClaimID] = true

		want, err := payout.ForPolicy(claims[i].Assessment, &claims[i].Policy)
		require.NoError(t, err)
		assert.True(t, want.PayoutAmount.Equal(claims[i].Payout.PayoutAmount))
	}
	assert.Len(t, n.summaries, workers)
}
