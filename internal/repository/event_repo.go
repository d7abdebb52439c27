package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"myhouse/internal/models"

	"github.com/google/uuid"
)

const sqliteTimestamp = "2006-01-02 15:04:05.000"

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a recorded state change. Missing id and time are filled in.
func (r *EventSQLite) Append(ctx context.Context, e models.RecordedEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO state_events (id, occurred_at, type, value)
		VALUES (?, ?, ?, ?)
	`,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimestamp),
		normalizeType(string(e.Type)),
		e.Value,
	)
	if err != nil {
		return fmt.Errorf("insert state event: %w", err)
	}
	return nil
}

// List returns events in [from, to] (inclusive, zero bounds are open) with an
// optional type filter, oldest first.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.RecordedEvent, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimestamp))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimestamp))
	}
	if typ = normalizeType(typ); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, value FROM state_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query state events: %w", err)
	}
	defer rows.Close()

	out := make([]models.RecordedEvent, 0, 64)
	for rows.Next() {
		var (
			ev  models.RecordedEvent
			typ string
		)
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &typ, &ev.Value); err != nil {
			return nil, fmt.Errorf("scan state event: %w", err)
		}
		ev.Type = models.EventType(typ)
		ev.OccurredAt = ev.OccurredAt.UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
