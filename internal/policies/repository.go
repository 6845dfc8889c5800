package policies

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/pkg/repository"
)

const selectPolicy = `
SELECT policy_id, deductible::text, coverage_limit::text, array_to_string(covered_types, ',')
FROM policies`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRepository creates a Lookup backed by the policies table.
func NewRepository(db *sql.DB, logger *slog.Logger) Lookup {
	return &repo{
		db:     db,
		logger: logger.With("system", "policies"),
	}
}

func (r *repo) Find(ctx context.Context, id string) (*Policy, error) {
	p, err := repository.QueryOne(ctx, r.db, selectPolicy+" WHERE policy_id = $1", []any{id}, scanPolicy)
	if err != nil {
		err = repository.MapError(err, ErrNotFound)
		return nil, fmt.Errorf("find policy %s: %w", id, err)
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context) ([]Policy, error) {
	list, err := repository.QueryMany(ctx, r.db, selectPolicy+" ORDER BY policy_id", nil, scanPolicy)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return list, nil
}

func scanPolicy(s repository.Scanner) (Policy, error) {
	var (
		p     Policy
		types string
	)
	if err := s.Scan(&p.ID, &p.Deductible, &p.CoverageLimit, &types); err != nil {
		return Policy{}, err
	}

	p.CoveredTypes = make([]assessment.DamageType, 0)
	for _, raw := range strings.Split(types, ",") {
		if raw == "" {
			continue
		}
		t, err := assessment.ParseDamageType(raw)
		if err != nil {
			return Policy{}, fmt.Errorf("policy %s: %w", p.ID, err)
		}
		p.CoveredTypes = append(p.CoveredTypes, t)
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
