package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"doorlist/internal/domain"
	"doorlist/internal/domain/entities"
	"doorlist/internal/ports/output"
)

var _ output.GuestRepository = (*GuestRepository)(nil)

const guestColumns = `id, event_id, name, phone, category, scan_code, checked_in, checked_in_at, created_at, updated_at`

// GuestRepository implements output.GuestRepository on PostgreSQL via pgx.
type GuestRepository struct {
	pool *pgxpool.Pool
}

// NewGuestRepository creates a GuestRepository.
func NewGuestRepository(pool *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{pool: pool}
}

func (r *GuestRepository) Create(ctx context.Context, guest *entities.Guest) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO guests (event_id, name, phone, category, scan_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+guestColumns,
		guest.EventID, guest.Name, guest.Phone, string(guest.Category), guest.ScanCode,
	)
	created, err := scanGuest(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrScanCodeCollision
		}
		return fmt.Errorf("create guest: %w", err)
	}
	*guest = *created
	return nil
}

func (r *GuestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Guest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+guestColumns+` FROM guests WHERE id = $1`, id)
	guest, err := scanGuest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGuestNotFound
		}
		return nil, fmt.Errorf("get guest by id: %w", err)
	}
	return guest, nil
}

func (r *GuestRepository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entities.Guest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+guestColumns+`
		FROM guests
		WHERE event_id = $1
		ORDER BY name, id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list guests by event id: %w", err)
	}
	defer rows.Close()

	var out []entities.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		out = append(out, *guest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list guests by event id: %w", err)
	}
	return out, nil
}

// CheckIn performs the guarded conditional update. The WHERE clause carries
// the whole concurrency guarantee: two stations racing on the same guest hit
// the same row lock and only one sees checked_in=false.
func (r *GuestRepository) CheckIn(ctx context.Context, id uuid.UUID) (*entities.Guest, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE guests
		SET checked_in = true, checked_in_at = now(), updated_at = now()
		WHERE id = $1 AND checked_in = false
		RETURNING `+guestColumns,
		id,
	)
	guest, err := scanGuest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("check in guest: %w", err)
	}
	return guest, nil
}

func (r *GuestRepository) UndoCheckIn(ctx context.Context, id uuid.UUID) (*entities.Guest, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE guests
		SET checked_in = false, checked_in_at = NULL, updated_at = now()
		WHERE id = $1
		RETURNING `+guestColumns,
		id,
	)
	guest, err := scanGuest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGuestNotFound
		}
		return nil, fmt.Errorf("undo check-in: %w", err)
	}
	return guest, nil
}

func (r *GuestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGuestNotFound
	}
	return nil
}
