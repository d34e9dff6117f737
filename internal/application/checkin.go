package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"doorlist/internal/domain"
	"doorlist/internal/domain/entities"
	"doorlist/internal/ports/output"
)

// CheckInStatus is the outcome of a check-in attempt that did not fail.
type CheckInStatus string

const (
	// StatusCheckedIn means this call won the transition: the guest went
	// from NotCheckedIn to CheckedIn and the timestamp is fresh.
	StatusCheckedIn CheckInStatus = "checked_in"
	// StatusAlreadyCheckedIn means the guest was already checked in, either
	// before the scan or because a concurrent station won the race. The
	// timestamp is the winner's, not a new one.
	StatusAlreadyCheckedIn CheckInStatus = "already_checked_in"
)

// CheckInResult carries the outcome and the authoritative guest record.
type CheckInResult struct {
	Status CheckInStatus
	Guest  *entities.Guest
}

// CheckInService coordinates the guarded NotCheckedIn -> CheckedIn transition.
// The atomicity lives in the repository's conditional update; this service
// only interprets its outcome, so any number of concurrent callers for the
// same guest see exactly one StatusCheckedIn.
type CheckInService struct {
	guests output.GuestRepository
	log    zerolog.Logger
}

func NewCheckInService(guests output.GuestRepository, log zerolog.Logger) *CheckInService {
	return &CheckInService{guests: guests, log: log}
}

// CheckIn attempts the guarded transition for guestID.
//
// When the conditional update matches zero rows the current record is
// re-read: a checked-in guest yields StatusAlreadyCheckedIn with the existing
// timestamp (the expected outcome of a concurrent race, never an error), a
// missing guest yields domain.ErrGuestNotFound. The narrow race where the
// re-read shows the guest not checked in (a concurrent undo landed in
// between) is returned as domain.ErrNotCheckedIn so the operator rescans.
func (s *CheckInService) CheckIn(ctx context.Context, guestID uuid.UUID) (*CheckInResult, error) {
	guest, err := s.guests.CheckIn(ctx, guestID)
	if err == nil {
		s.log.Info().
			Stringer("guest_id", guest.ID).
			Stringer("event_id", guest.EventID).
			Time("checked_in_at", guest.CheckedInAt).
			Msg("guest checked in")
		return &CheckInResult{Status: StatusCheckedIn, Guest: guest}, nil
	}
	if !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		return nil, fmt.Errorf("check in guest: %w", err)
	}

	current, err := s.guests.FindByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if !current.CheckedIn {
		return nil, domain.ErrNotCheckedIn
	}
	s.log.Debug().
		Stringer("guest_id", current.ID).
		Time("checked_in_at", current.CheckedInAt).
		Msg("check-in race lost, guest already checked in")
	return &CheckInResult{Status: StatusAlreadyCheckedIn, Guest: current}, nil
}

// UndoCheckIn unconditionally resets the guest to NotCheckedIn. It is an
// organizer-initiated correction and carries no uniqueness guard.
func (s *CheckInService) UndoCheckIn(ctx context.Context, guestID uuid.UUID) (*entities.Guest, error) {
	guest, err := s.guests.UndoCheckIn(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("undo check-in: %w", err)
	}
	s.log.Info().
		Stringer("guest_id", guest.ID).
		Stringer("event_id", guest.EventID).
		Msg("check-in undone")
	return guest, nil
}
