package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, ts, err := r.header(ctx)
	if err != nil {
		return err
	}

	err = r.insert(ctx, builder.Insert(llmRequestEventsTable.Name).
		Columns("sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
			"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body").
		Values(seqNum, ts, data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs,
			data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody))
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}

	return nil
}

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body",
}

func scanLLMEvent(rows *entsql.Rows) (*LLMEventRecord, error) {
	var (
		rec LLMEventRecord
		ts  int64
	)
	err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Provider, &rec.Model, &rec.Purpose,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &rec.Success,
		&rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody)
	if err != nil {
		return nil, err
	}
	rec.Timestamp = fromMillis(ts)
	return &rec, nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	t := builder.Table(llmRequestEventsTable.Name)
	sel := builder.Select(t.Columns(llmEventColumns...)...).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence")))

	rows, err := r.query(ctx, opts.apply(sel, t.C))
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	t := builder.Table(llmRequestEventsTable.Name)
	sel := builder.Select(t.Columns(llmEventColumns...)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id))

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanLLMEvent(rows)
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	return rec, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "model")
}

// llmUsage groups request events by column.
func (r *eventRepo) llmUsage(ctx context.Context, column string) ([]LLMUsage, error) {
	t := builder.Table(llmRequestEventsTable.Name)
	sel := builder.Select(
		t.C(column),
		entsql.Count("*"),
		entsql.Sum(t.C("input_tokens")),
		entsql.Sum(t.C("output_tokens")),
		entsql.Avg(t.C("latency_ms")),
	).
		From(t).
		GroupBy(t.C(column)).
		OrderBy(t.C(column))

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u           LLMUsage
			key         string
			input, outp sql.NullInt64
			latency     sql.NullFloat64
		)
		if err := rows.Scan(&key, &u.Calls, &input, &outp, &latency); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.InputTokens = int(input.Int64)
		u.OutputTokens = int(outp.Int64)
		u.AvgLatencyMs = int64(latency.Float64)
		if column == "model" {
			u.Model = key
		} else {
			u.Purpose = key
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
