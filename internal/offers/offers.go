package offers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/claimflow/pkg/formatting"
	"github.com/JaimeStill/claimflow/pkg/storage"
)

const contentType = "application/pdf"

var disableConfigDir sync.Once

// System produces and retrieves offer letters.
type System interface {
	// Generate renders and stores the letter unless one already exists for the
	// claim, and returns a reference to the stored document.
	Generate(ctx context.Context, l Letter) (*Document, error)
	// Find returns the stored letter bytes for a claim or ErrNotFound.
	Find(ctx context.Context, claimID uuid.UUID) ([]byte, error)
}

type system struct {
	store  storage.System
	logger *slog.Logger
	flight singleflight.Group
}

// New creates a System storing letters in store.
func New(store storage.System, logger *slog.Logger) System {
	disableConfigDir.Do(api.DisableConfigDir)

	return &system{
		store:  store,
		logger: logger.With("system", "offers"),
	}
}

func (s *system) Generate(ctx context.Context, l Letter) (*Document, error) {
	key := Key(l.ClaimID)

	v, err, _ := s.flight.Do(key, func() (any, error) {
		return s.generate(ctx, key, l)
	})
	if err != nil {
		return nil, err
	}

	doc := *v.(*Document)
	return &doc, nil
}

func (s *system) generate(ctx context.Context, key string, l Letter) (*Document, error) {
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: check %s: %w", ErrDocumentFailed, key, err)
	}

	if exists {
		doc, err := s.stored(ctx, key)
		if err == nil {
			s.logger.InfoContext(ctx, "offer letter already stored", "key", key)
			return doc, nil
		}
		if !errors.Is(err, errUnreadable) {
			return nil, err
		}

		s.logger.WarnContext(ctx, "replacing unreadable offer letter", "key", key, "error", err)
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: delete %s: %w", ErrDocumentFailed, key, err)
		}
	}

	data, err := Render(l)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentFailed, err)
	}

	doc, err := describe(key, data)
	if err != nil {
		return nil, err
	}

	if err := s.store.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("%w: upload %s: %w", ErrDocumentFailed, key, err)
	}

	s.logger.InfoContext(
		ctx, "offer letter stored",
		"key", key,
		"size", formatting.FormatBytes(doc.SizeBytes, 1),
		"pages", doc.PageCount,
	)

	return doc, nil
}

// stored loads and verifies an existing letter. A letter that does not
// parse as a PDF is reported as errUnreadable.
func (s *system) stored(ctx context.Context, key string) (*Document, error) {
	data, err := storage.ReadAll(ctx, s.store, key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDocumentFailed, key, err)
	}

	doc, err := describe(key, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnreadable, err)
	}
	return doc, nil
}

func (s *system) Find(ctx context.Context, claimID uuid.UUID) ([]byte, error) {
	key := Key(claimID)

	data, err := storage.ReadAll(ctx, s.store, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, claimID)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// describe verifies data parses as a PDF and builds its Document reference.
func describe(key string, data []byte) (*Document, error) {
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: verify %s: %w", ErrDocumentFailed, key, err)
	}

	return &Document{
		Key:       key,
		SizeBytes: int64(len(data)),
		PageCount: pages,
	}, nil
}
