package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/criteria/internal/criteria"
)

// Select runs the SELECT for c. Callers are responsible for closing the
// returned rows.
func (s *Store) Select(ctx context.Context, c *criteria.Criteria) (*sql.Rows, error) {
	query, params, err := s.compiler.Select(c)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	q, args := s.prepare(ctx, "select", query, params)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return rows, nil
}

// Count returns the number of rows Select would return.
func (s *Store) Count(ctx context.Context, c *criteria.Criteria) (int64, error) {
	query, params, err := s.compiler.Count(c)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	q, args := s.prepare(ctx, "count", query, params)
	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// SelectMaps runs the SELECT for c and returns each row as a column-name
// map. Byte slices are returned as strings.
func (s *Store) SelectMaps(ctx context.Context, c *criteria.Criteria) ([]map[string]any, error) {
	rows, err := s.Select(ctx, c)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
