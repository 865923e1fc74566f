package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.Action != ActionStart && data.Action != ActionEnd {
		return fmt.Errorf("unknown session action %q", data.Action)
	}
	seqNum, ts, err := r.header(ctx)
	if err != nil {
		return err
	}

	err = r.insert(ctx, builder.Insert(sessionEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "action", "bank_title",
			"questions_served", "correct_answers", "duration_secs", "completed").
		Values(seqNum, ts, data.SessionID, data.Action, data.BankTitle,
			data.QuestionsServed, data.CorrectAnswers, data.DurationSecs,
			data.Action == ActionEnd && data.Completed))
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	s := builder.Table(sessionEventsTable.Name).As("s")
	e := builder.Table(sessionEventsTable.Name).As("e")
	sel := builder.Select(
		s.C("session_id"), s.C("timestamp"), s.C("bank_title"),
		e.C("questions_served"), e.C("correct_answers"), e.C("duration_secs"), e.C("completed"),
	).
		From(s).
		LeftJoin(e).
		OnP(entsql.And(
			entsql.ColumnsEQ(e.C("session_id"), s.C("session_id")),
			entsql.EQ(e.C("action"), ActionEnd),
		)).
		Where(entsql.EQ(s.C("action"), ActionStart)).
		OrderBy(entsql.Desc(s.C("sequence")))

	rows, err := r.query(ctx, opts.apply(sel, s.C))
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var out []SessionSummaryRecord
	for rows.Next() {
		var (
			rec                      SessionSummaryRecord
			ts                       int64
			served, correct, elapsed sql.NullInt64
			completed                sql.NullBool
		)
		err := rows.Scan(&rec.SessionID, &ts, &rec.BankTitle, &served, &correct, &elapsed, &completed)
		if err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		rec.StartedAt = fromMillis(ts)
		rec.Ended = served.Valid
		rec.Completed = completed.Valid && completed.Bool
		rec.QuestionsServed = int(served.Int64)
		rec.CorrectAnswers = int(correct.Int64)
		rec.DurationSecs = int(elapsed.Int64)
		out = append(out, rec)
	}
	return out, rows.Err()
}
