package input

import (
	"context"

	"github.com/google/uuid"

	"doorlist/internal/application"
	"doorlist/internal/domain/entities"
)

// CheckInUseCase is the only authority allowed to move a guest between the
// NotCheckedIn and CheckedIn states.
type CheckInUseCase interface {
	CheckIn(ctx context.Context, guestID uuid.UUID) (*application.CheckInResult, error)
	UndoCheckIn(ctx context.Context, guestID uuid.UUID) (*entities.Guest, error)
}
