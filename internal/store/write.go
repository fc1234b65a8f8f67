package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
)

// Exec runs an already compiled statement.
func (s *Store) Exec(ctx context.Context, query string, params []bind.Param) (sql.Result, error) {
	q, args := s.prepare(ctx, "exec", query, params)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

// Update runs the UPDATE for c and returns the number of affected rows.
func (s *Store) Update(ctx context.Context, c *criteria.Criteria) (int64, error) {
	query, params, err := s.compiler.Update(c)
	if err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}
	return s.execAffected(ctx, "update", query, params)
}

// Delete runs the DELETE for c and returns the number of deleted rows.
func (s *Store) Delete(ctx context.Context, c *criteria.Criteria) (int64, error) {
	query, params, err := s.compiler.Delete(c)
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	return s.execAffected(ctx, "delete", query, params)
}

// DeleteAll empties table.
func (s *Store) DeleteAll(ctx context.Context, table string) (int64, error) {
	query, params, err := s.compiler.DeleteAll(table)
	if err != nil {
		return 0, fmt.Errorf("delete all: %w", err)
	}
	return s.execAffected(ctx, "delete", query, params)
}

func (s *Store) execAffected(ctx context.Context, op, query string, params []bind.Param) (int64, error) {
	q, args := s.prepare(ctx, op, query, params)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return n, nil
}
