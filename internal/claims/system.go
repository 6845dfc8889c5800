// Package claims accepts claim submissions, runs them through the pipeline,
// and keeps the results in process memory for retrieval.
package claims

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/claimflow/internal/workflow"
	"github.com/JaimeStill/claimflow/pkg/pagination"
)

// System defines the public contract for claim operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Process(ctx context.Context, req workflow.Request) (*workflow.Claim, error)
	Find(ctx context.Context, id uuid.UUID) (*workflow.Claim, error)
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[workflow.Claim], error)
	Document(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type registry struct {
	rt         *workflow.Runtime
	logger     *slog.Logger
	pagination pagination.Config

	mu     sync.RWMutex
	claims map[uuid.UUID]workflow.Claim
}

// New creates a claim System that processes requests with rt.
// Claims are held in memory and do not survive a restart; their offer
// letters remain in blob storage.
func New(rt *workflow.Runtime, logger *slog.Logger, pagination pagination.Config) System {
	return &registry{
		rt:         rt,
		logger:     logger.With("system", "claims"),
		pagination: pagination,
		claims:     make(map[uuid.UUID]workflow.Claim),
	}
}

func (r *registry) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *registry) Process(ctx context.Context, req workflow.Request) (*workflow.Claim, error) {
	claim, err := workflow.Execute(ctx, r.rt, req)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.claims[claim.ClaimID] = *claim
	r.mu.Unlock()

	return claim, nil
}

func (r *registry) Find(ctx context.Context, id uuid.UUID) (*workflow.Claim, error) {
	r.mu.RLock()
	c, ok := r.claims[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &c, nil
}

// List returns one page of registered claims, oldest first.
func (r *registry) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[workflow.Claim], error) {
	page.Normalize(r.pagination)

	r.mu.RLock()
	out := make([]workflow.Claim, 0, len(r.claims))
	for _, c := range r.claims {
		out = append(out, c)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b workflow.Claim) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ClaimID.String(), b.ClaimID.String())
	})

	result := pagination.Slice(out, page)
	return &result, nil
}

// Document returns the stored offer letter. Letters are read from blob
// storage, so they remain retrievable after the registry is lost.
func (r *registry) Document(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return r.rt.Offers.Find(ctx, id)
}
