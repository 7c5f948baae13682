package store

import (
	"context"
	"time"
)

// Operations recorded in the request log.
const (
	OperationGenerate = "generate"
	OperationExport   = "export"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // id > After
	Before    int64     // id < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Operation string    // exact match when non-empty
}

// RequestEventData captures a single call to the quiz service.
type RequestEventData struct {
	RequestID     string
	Operation     string
	Detail        string // e.g. "3 versions, mixed" or "pdf"
	StatusCode    int
	LatencyMs     int64
	Success       bool
	ErrorMessage  string
	RequestBytes  int
	ResponseBytes int
}

// RequestEventRecord is a stored request event.
type RequestEventRecord struct {
	ID        int64
	Timestamp time.Time
	RequestEventData
}

// OperationUsage aggregates request events for one operation.
type OperationUsage struct {
	Operation    string
	Calls        int
	Failures     int
	AvgLatencyMs float64
}

// EventRepo provides append and query access to request events.
type EventRepo interface {
	// AppendRequestEvent records a quiz service call.
	AppendRequestEvent(ctx context.Context, data RequestEventData) error

	// QueryRequestEvents returns events newest first.
	QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)

	// UsageByOperation returns per-operation totals ordered by operation.
	UsageByOperation(ctx context.Context) ([]OperationUsage, error)
}
