package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence shared by every
// event table. Per-table row ids cannot order an answer against the session
// start that preceded it; the shared sequence can.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

// newSequenceCounter seeds the single counter row if it is missing.
func newSequenceCounter(ctx context.Context, drv *entsql.Driver) (*sequenceCounter, error) {
	query, args := builder.Insert(globalSequenceTable.Name).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{drv: drv}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	query, args := builder.Update(globalSequenceTable.Name).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val").
		Query()

	var rows entsql.Rows
	if err := sc.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, errors.New("next sequence: counter row missing")
	}
	var next int64
	if err := rows.Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}
