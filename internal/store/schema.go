package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column definitions, in the shape ent's migrate package expects.
// Auto-migration (schema.NewMigrate) creates missing tables, columns and
// indexes on Open.

const (
	tableTopics    = "topics"
	tableResults   = "quiz_results"
	tableUsers     = "users"
	tableLLMEvents = "llm_request_events"
)

var (
	topicsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "is_favourite", Type: field.TypeBool, Default: false},
		{Name: "questions", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	topicsTable = &schema.Table{
		Name:       tableTopics,
		Columns:    topicsColumns,
		PrimaryKey: []*schema.Column{topicsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "topic_user_id_name",
				Unique:  true,
				Columns: []*schema.Column{topicsColumns[1], topicsColumns[2]},
			},
			{
				Name:    "topic_user_id_created_at",
				Columns: []*schema.Column{topicsColumns[1], topicsColumns[5]},
			},
		},
	}

	resultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "topic_name", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	resultsTable = &schema.Table{
		Name:       tableResults,
		Columns:    resultsColumns,
		PrimaryKey: []*schema.Column{resultsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "quizresult_user_id_created_at",
				Columns: []*schema.Column{resultsColumns[1], resultsColumns[5]},
			},
		},
	}

	usersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	usersTable = &schema.Table{
		Name:       tableUsers,
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Nullable: true},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Nullable: true},
	}
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Columns: []*schema.Column{llmEventsColumns[5]},
			},
		},
	}

	// tables lists every table managed by auto-migration.
	tables = []*schema.Table{
		topicsTable,
		resultsTable,
		usersTable,
		llmEventsTable,
	}
)
