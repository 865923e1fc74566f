package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// builder renders every statement in the SQLite dialect.
var builder = entsql.Dialect(dialect.SQLite)

// eventRepo implements EventRepo on the ent SQL driver and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

// header returns the sequence and timestamp for a new event row.
func (r *eventRepo) header(ctx context.Context) (int64, int64, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("next sequence: %w", err)
	}
	return seqNum, time.Now().UTC().UnixMilli(), nil
}

// insert appends one row built by ins.
func (r *eventRepo) insert(ctx context.Context, ins *entsql.InsertBuilder) error {
	query, args := ins.Query()
	return r.drv.Exec(ctx, query, args, nil)
}

// query runs sel and hands back the open rows; the caller closes them.
func (r *eventRepo) query(ctx context.Context, sel *entsql.Selector) (*entsql.Rows, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// where returns the QueryOpts filters as predicates on the columns named
// by c.
func (o QueryOpts) where(c func(string) string) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if o.After > 0 {
		preds = append(preds, entsql.GT(c("sequence"), o.After))
	}
	if o.Before > 0 {
		preds = append(preds, entsql.LT(c("sequence"), o.Before))
	}
	if !o.From.IsZero() {
		preds = append(preds, entsql.GTE(c("timestamp"), o.From.UTC().UnixMilli()))
	}
	if !o.To.IsZero() {
		preds = append(preds, entsql.LTE(c("timestamp"), o.To.UTC().UnixMilli()))
	}
	return preds
}

// apply adds the filters and the limit to sel. Zero Limit means unlimited.
func (o QueryOpts) apply(sel *entsql.Selector, c func(string) string) *entsql.Selector {
	for _, p := range o.where(c) {
		sel.Where(p)
	}
	if o.Limit > 0 {
		sel.Limit(o.Limit)
	}
	return sel
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func (r *eventRepo) Reset(ctx context.Context) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}

	for _, t := range eventTables {
		query, args := builder.Delete(t.Name).Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			tx.Rollback()
			return fmt.Errorf("clear %s: %w", t.Name, err)
		}
	}
	return tx.Commit()
}
