package policies

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// Table is an immutable in-memory Lookup. Concurrent reads need no locking.
type Table struct {
	policies map[string]Policy
	ordered  []string
}

// NewTable builds a Table from policies. Duplicate ids and invalid terms are rejected.
func NewTable(policies ...Policy) (*Table, error) {
	t := &Table{policies: make(map[string]Policy, len(policies))}

	for _, p := range policies {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.policies[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidPolicy, p.ID)
		}
		t.policies[p.ID] = *p.clone()
		t.ordered = append(t.ordered, p.ID)
	}

	slices.SortFunc(t.ordered, cmp.Compare[string])
	return t, nil
}

func (t *Table) Find(ctx context.Context, id string) (*Policy, error) {
	p, ok := t.policies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p.clone(), nil
}

func (t *Table) List(ctx context.Context) ([]Policy, error) {
	out := make([]Policy, 0, len(t.ordered))
	for _, id := range t.ordered {
		out = append(out, *t.policies[id].clone())
	}
	return out, nil
}
