package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, ts, err := r.header(ctx)
	if err != nil {
		return err
	}

	err = r.insert(ctx, builder.Insert(answerEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "item_id", "question_text",
			"selected_index", "correct_index", "selected_text", "correct_text", "correct", "time_ms").
		Values(seqNum, ts, data.SessionID, data.ItemID, data.QuestionText,
			data.SelectedIndex, data.CorrectIndex, data.SelectedText, data.CorrectText,
			data.Correct, data.TimeMs))
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error) {
	t := builder.Table(answerEventsTable.Name)
	sel := builder.Select(t.Columns(
		"sequence", "timestamp", "session_id", "item_id", "question_text", "selected_index",
		"correct_index", "selected_text", "correct_text", "correct", "time_ms",
	)...).
		From(t).
		Where(entsql.EQ(t.C("session_id"), sessionID)).
		OrderBy(t.C("sequence"))

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var (
			rec AnswerRecord
			ts  int64
		)
		err := rows.Scan(&rec.Sequence, &ts, &rec.SessionID, &rec.ItemID, &rec.QuestionText,
			&rec.SelectedIndex, &rec.CorrectIndex, &rec.SelectedText, &rec.CorrectText,
			&rec.Correct, &rec.TimeMs)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) ItemAccuracy(ctx context.Context, itemID string) (Accuracy, error) {
	t := builder.Table(answerEventsTable.Name)
	sel := builder.Select(entsql.Count("*"), entsql.Sum(t.C("correct"))).
		From(t).
		Where(entsql.EQ(t.C("item_id"), itemID))

	rows, err := r.query(ctx, sel)
	if err != nil {
		return Accuracy{}, fmt.Errorf("item accuracy: %w", err)
	}
	defer rows.Close()

	var (
		acc     Accuracy
		correct sql.NullInt64
	)
	if rows.Next() {
		if err := rows.Scan(&acc.Attempts, &correct); err != nil {
			return Accuracy{}, fmt.Errorf("scan item accuracy: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return Accuracy{}, fmt.Errorf("item accuracy: %w", err)
	}
	acc.Correct = int(correct.Int64)
	return acc, nil
}
