package sqlite

import (
	"context"
	"fmt"

	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
)

// paramStore implements driven.ParamStore on the search_params table.
// Only overrides are stored; defaults live in the domain.
type paramStore struct {
	store *Store
}

var _ driven.ParamStore = (*paramStore)(nil)

// LoadParams returns all persisted overrides keyed by parameter name.
func (p *paramStore) LoadParams(ctx context.Context) (map[string]float64, error) {
	rows, err := p.store.db.QueryContext(ctx, "SELECT name, value FROM search_params")
	if err != nil {
		return nil, fmt.Errorf("querying search params: %w", err)
	}
	defer rows.Close()

	params := make(map[string]float64)
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scanning search param: %w", err)
		}
		params[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search params: %w", err)
	}
	return params, nil
}

// SaveParam upserts one override.
func (p *paramStore) SaveParam(ctx context.Context, name string, value float64) error {
	_, err := p.store.db.ExecContext(ctx, `
		INSERT INTO search_params (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, value)
	if err != nil {
		return fmt.Errorf("saving search param %s: %w", name, err)
	}
	return nil
}
