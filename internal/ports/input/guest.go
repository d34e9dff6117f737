package input

import (
	"context"

	"github.com/google/uuid"

	"doorlist/internal/domain/entities"
)

// GuestUseCase covers the organizer-side guest-list operations. Creation
// issues the guest's scan code; stations never call these.
type GuestUseCase interface {
	CreateGuest(ctx context.Context, eventID uuid.UUID, name, phone string, category entities.Category) (*entities.Guest, error)
	ListGuests(ctx context.Context, eventID uuid.UUID) ([]entities.Guest, error)
	DeleteGuest(ctx context.Context, guestID uuid.UUID) error
}
