package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Every event table starts with the same header: a row id, the global
// sequence and a unix-millisecond timestamp.
var (
	// sessionEventsColumns holds the columns for the "session_events" table.
	sessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "bank_title", Type: field.TypeString, Default: ""},
		{Name: "questions_served", Type: field.TypeInt, Default: 0},
		{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		{Name: "duration_secs", Type: field.TypeInt, Default: 0},
		{Name: "completed", Type: field.TypeBool, Default: false},
	}
	// sessionEventsTable holds the schema information for the "session_events" table.
	sessionEventsTable = &schema.Table{
		Name:       "session_events",
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "sessionevent_session_id_action",
				Unique:  false,
				Columns: []*schema.Column{sessionEventsColumns[3], sessionEventsColumns[4]},
			},
		},
	}

	// answerEventsColumns holds the columns for the "answer_events" table.
	answerEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "question_text", Type: field.TypeString},
		{Name: "selected_index", Type: field.TypeInt},
		{Name: "correct_index", Type: field.TypeInt},
		{Name: "selected_text", Type: field.TypeString},
		{Name: "correct_text", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "time_ms", Type: field.TypeInt, Default: 0},
	}
	// answerEventsTable holds the schema information for the "answer_events" table.
	answerEventsTable = &schema.Table{
		Name:       "answer_events",
		Columns:    answerEventsColumns,
		PrimaryKey: []*schema.Column{answerEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "answerevent_session_id",
				Unique:  false,
				Columns: []*schema.Column{answerEventsColumns[3]},
			},
			{
				Name:    "answerevent_item_id",
				Unique:  false,
				Columns: []*schema.Column{answerEventsColumns[4]},
			},
		},
	}

	// llmRequestEventsColumns holds the columns for the "llm_request_events" table.
	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	// llmRequestEventsTable holds the schema information for the "llm_request_events" table.
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
	}

	// globalSequenceColumns holds the columns for the single-row "global_sequence" table.
	globalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// globalSequenceTable holds the schema information for the "global_sequence" table.
	globalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    globalSequenceColumns,
		PrimaryKey: []*schema.Column{globalSequenceColumns[0]},
	}

	// tables holds every table migrated by Open.
	tables = []*schema.Table{
		sessionEventsTable,
		answerEventsTable,
		llmRequestEventsTable,
		globalSequenceTable,
	}

	// eventTables lists the tables cleared by Reset.
	eventTables = []*schema.Table{
		sessionEventsTable,
		answerEventsTable,
		llmRequestEventsTable,
	}
)

// migrate creates missing tables and appends new columns. Existing columns
// are never dropped.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("init migration: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
