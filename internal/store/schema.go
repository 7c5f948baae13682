package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const requestEventsTable = "request_events"

// Column names of request_events.
const (
	colID            = "id"
	colRequestID     = "request_id"
	colCreatedAt     = "created_at_ms"
	colOperation     = "operation"
	colDetail        = "detail"
	colStatusCode    = "status_code"
	colLatencyMs     = "latency_ms"
	colSuccess       = "success"
	colErrorMessage  = "error_message"
	colRequestBytes  = "request_bytes"
	colResponseBytes = "response_bytes"
)

var (
	requestEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt64, Increment: true},
		{Name: colRequestID, Type: field.TypeString, Unique: true},
		{Name: colCreatedAt, Type: field.TypeInt64},
		{Name: colOperation, Type: field.TypeString},
		{Name: colDetail, Type: field.TypeString, Default: ""},
		{Name: colStatusCode, Type: field.TypeInt, Default: 0},
		{Name: colLatencyMs, Type: field.TypeInt64, Default: 0},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Default: ""},
		{Name: colRequestBytes, Type: field.TypeInt, Default: 0},
		{Name: colResponseBytes, Type: field.TypeInt, Default: 0},
	}

	requestEvents = &schema.Table{
		Name:       requestEventsTable,
		Columns:    requestEventsColumns,
		PrimaryKey: []*schema.Column{requestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "requestevent_operation", Columns: []*schema.Column{requestEventsColumns[3]}},
			{Name: "requestevent_success", Columns: []*schema.Column{requestEventsColumns[7]}},
		},
	}

	tables = []*schema.Table{requestEvents}
)
