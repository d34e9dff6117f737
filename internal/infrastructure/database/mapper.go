package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"doorlist/internal/domain/entities"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// scanGuest reads one guests row (guestColumns order) into a domain Guest.
func scanGuest(row pgx.Row) (*entities.Guest, error) {
	var (
		g           entities.Guest
		id, eventID uuid.UUID
		category    string
		checkedInAt pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &eventID, &g.Name, &g.Phone, &category, &g.ScanCode,
		&g.CheckedIn, &checkedInAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.ID = id
	g.EventID = eventID
	g.Category = entities.Category(category)
	g.CheckedInAt = pgtypeTimestamptzToTime(checkedInAt)
	g.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	g.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return &g, nil
}
