package repository

import (
	"context"
	"database/sql"
	"time"

	"myhouse/internal/models"
)

type PresenceRepo interface {
	Save(ctx context.Context, r models.PresenceRecord) error
	Load(ctx context.Context) (models.PresenceRecord, bool, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.RecordedEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.RecordedEvent, error)
}

type Repository struct {
	PresenceRepo PresenceRepo
	EventRepo    EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		PresenceRepo: NewPresenceSQLite(db),
		EventRepo:    NewEventSQLite(db),
	}
}
