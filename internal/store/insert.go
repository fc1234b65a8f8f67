package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/dialect"
	"github.com/roach88/criteria/internal/schema"
)

// InsertPlan is a rendered INSERT together with the key decided before it.
type InsertPlan struct {
	// Criteria is the copy the INSERT was rendered from, including any
	// generated key.
	Criteria *criteria.Criteria

	// Table is the target table map, nil when the schema does not know it.
	Table *schema.TableMap

	SQL    string
	Params []bind.Param

	// ID is the key drawn before the INSERT, or the caller's primary key
	// value on tables whose keys are drawn before inserting.
	ID any
}

// PrepareInsert resolves the target table, draws a key when the adapter
// fetches keys before inserting, and renders the INSERT. q runs the key
// lookup. c is not modified.
func (s *Store) PrepareInsert(ctx context.Context, q dialect.Querier, c *criteria.Criteria) (*InsertPlan, error) {
	work := c.Clone()
	plan := &InsertPlan{Criteria: work, Table: insertTable(work)}

	tm := plan.Table
	if pk := firstPrimaryKey(tm); pk != nil && tm.UseIDGenerator && s.adapter.IsGetIDBeforeInsert() {
		key := tm.Name + "." + pk.Name
		if u, ok := work.UpdateValue(key); ok && u.Value != nil {
			plan.ID = u.Value
		} else {
			id, err := s.adapter.GetID(ctx, q, tm.IDMethodInfo)
			if err != nil {
				return nil, &GeneratorError{Op: OpInsertID, Table: tm.Name, Err: err}
			}
			slog.Debug("generated primary key", "table", tm.Name, "column", pk.Name, "id", id)
			work.SetUpdateValue(key, id, "")
			plan.ID = id
		}
	}

	query, params, err := s.compiler.Insert(work)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	plan.SQL, plan.Params = query, params
	return plan, nil
}

// Insert inserts the update values of c and returns the new row's key:
// the key drawn before the INSERT, or the id read back after it. The key
// is nil when the table has no id generator.
func (s *Store) Insert(ctx context.Context, c *criteria.Criteria) (any, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	defer conn.Close()

	plan, err := s.PrepareInsert(ctx, conn, c)
	if err != nil {
		return nil, err
	}

	q, args := s.prepare(ctx, "insert", plan.SQL, plan.Params)
	if _, err := conn.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	tm := plan.Table
	if tm == nil || !tm.UseIDGenerator || !s.adapter.IsGetIDAfterInsert() {
		return plan.ID, nil
	}

	id, err := s.adapter.LastInsertID(ctx, conn)
	if err != nil {
		return nil, &GeneratorError{Op: OpAutoincrementID, Table: tm.Name, Err: err}
	}
	return id, nil
}

// insertTable returns the primary table's map, else the map of the first
// update column's table.
func insertTable(c *criteria.Criteria) *schema.TableMap {
	m := c.Schema()
	if m == nil {
		return nil
	}
	if pt := c.PrimaryTable(); pt != "" {
		if real, ok := c.TableForAlias(pt); ok {
			pt = real
		}
		if tm, ok := m.Table(pt); ok {
			return tm
		}
	}
	values := c.UpdateValues()
	if len(values) == 0 || values[0].Column.Table == "" {
		return nil
	}
	tm, ok := m.Table(values[0].Column.Table)
	if !ok {
		return nil
	}
	return tm
}

func firstPrimaryKey(tm *schema.TableMap) *schema.ColumnMap {
	if tm == nil {
		return nil
	}
	pks := tm.PrimaryKeys()
	if len(pks) == 0 {
		return nil
	}
	return pks[0]
}
