package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// eventRepo implements EventRepo with the ent SQL builder.
type eventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *eventRepo) AppendRequestEvent(ctx context.Context, data RequestEventData) error {
	if data.Operation == "" {
		return fmt.Errorf("append request event: operation is required")
	}
	if data.RequestID == "" {
		data.RequestID = uuid.NewString()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(requestEventsTable).
		Columns(
			colRequestID, colCreatedAt, colOperation, colDetail, colStatusCode,
			colLatencyMs, colSuccess, colErrorMessage, colRequestBytes, colResponseBytes,
		).
		Values(
			data.RequestID, r.clock().UnixMilli(), data.Operation, data.Detail, data.StatusCode,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBytes, data.ResponseBytes,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(requestEventsTable)
	sel := b.Select(
		t.C(colID), t.C(colRequestID), t.C(colCreatedAt), t.C(colOperation), t.C(colDetail),
		t.C(colStatusCode), t.C(colLatencyMs), t.C(colSuccess), t.C(colErrorMessage),
		t.C(colRequestBytes), t.C(colResponseBytes),
	).From(t)

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C(colID), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C(colID), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C(colCreatedAt), opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C(colCreatedAt), opts.To.UnixMilli()))
	}
	if opts.Operation != "" {
		preds = append(preds, entsql.EQ(t.C(colOperation), opts.Operation))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc(t.C(colID)))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var out []RequestEventRecord
	for rows.Next() {
		var (
			rec RequestEventRecord
			ms  int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &ms, &rec.Operation, &rec.Detail,
			&rec.StatusCode, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
			&rec.RequestBytes, &rec.ResponseBytes,
		); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ms)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) UsageByOperation(ctx context.Context) ([]OperationUsage, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(requestEventsTable)
	query, args := b.Select(
		t.C(colOperation),
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("SUM(CASE WHEN "+t.C(colSuccess)+" THEN 0 ELSE 1 END)", "failures"),
		entsql.As(entsql.Avg(t.C(colLatencyMs)), "avg_latency"),
	).
		From(t).
		GroupBy(t.C(colOperation)).
		OrderBy(t.C(colOperation)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var out []OperationUsage
	for rows.Next() {
		var u OperationUsage
		if err := rows.Scan(&u.Operation, &u.Calls, &u.Failures, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage: %w", err)
	}
	return out, nil
}
