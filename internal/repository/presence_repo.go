package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"myhouse/internal/models"
)

type PresenceSQLite struct {
	db *sql.DB
}

func NewPresenceSQLite(db *sql.DB) *PresenceSQLite {
	return &PresenceSQLite{db: db}
}

const (
	presenceRowID = 1

	upsertPresenceSQL = `
		INSERT INTO presence (id, is_present, confidence, reason, score, last_activity, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_present=excluded.is_present,
			confidence=excluded.confidence,
			reason=excluded.reason,
			score=excluded.score,
			last_activity=excluded.last_activity,
			updated_at=excluded.updated_at
	`

	selectPresenceSQL = `
		SELECT is_present, confidence, reason, score, last_activity, updated_at
		FROM presence WHERE id=?
	`
)

// Save overwrites the single presence row.
func (r *PresenceSQLite) Save(ctx context.Context, rec models.PresenceRecord) error {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	var last any
	if rec.LastActivity != nil {
		last = rec.LastActivity.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertPresenceSQL,
		presenceRowID,
		rec.IsPresent,
		rec.Confidence,
		rec.Reason,
		rec.Score,
		last,
		updated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

// Load returns the stored judgment; ok is false when nothing was saved yet.
func (r *PresenceSQLite) Load(ctx context.Context) (models.PresenceRecord, bool, error) {
	var (
		rec  models.PresenceRecord
		last sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, selectPresenceSQL, presenceRowID).Scan(
		&rec.IsPresent,
		&rec.Confidence,
		&rec.Reason,
		&rec.Score,
		&last,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PresenceRecord{}, false, nil
	}
	if err != nil {
		return models.PresenceRecord{}, false, fmt.Errorf("load presence: %w", err)
	}
	if last.Valid {
		t := last.Time.UTC()
		rec.LastActivity = &t
	}
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, true, nil
}
