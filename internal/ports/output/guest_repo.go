package output

import (
	"context"

	"github.com/google/uuid"

	"doorlist/internal/domain/entities"
)

// GuestRepository is the durable-store port for guests.
//
// CheckIn must be implemented as a single guarded conditional update ("set
// checked_in only if it is currently false") applied atomically by the store.
// It returns domain.ErrAlreadyCheckedIn when the guard matched zero rows; the
// caller distinguishes "already checked in" from "no such guest" by
// re-reading. Implementations must never use a read-then-write pair here.
type GuestRepository interface {
	Create(ctx context.Context, guest *entities.Guest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Guest, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entities.Guest, error)
	CheckIn(ctx context.Context, id uuid.UUID) (*entities.Guest, error)
	UndoCheckIn(ctx context.Context, id uuid.UUID) (*entities.Guest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
