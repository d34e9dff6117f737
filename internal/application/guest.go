package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"doorlist/internal/domain"
	"doorlist/internal/domain/entities"
	"doorlist/internal/ports/output"
	"doorlist/pkg/phone"
	"doorlist/pkg/scancode"
)

// GuestService handles the organizer-side guest-list operations: creating
// guests (which issues their scan code), listing and deleting them.
type GuestService struct {
	guests output.GuestRepository
	log    zerolog.Logger
}

func NewGuestService(guests output.GuestRepository, log zerolog.Logger) *GuestService {
	return &GuestService{guests: guests, log: log}
}

// CreateGuest stores a new guest with a freshly issued scan code.
//
// Codes are random enough that collisions are not expected; the unique
// (event_id, scan_code) constraint is the backstop, and on a collision one
// regeneration is attempted before giving up.
func (s *GuestService) CreateGuest(ctx context.Context, eventID uuid.UUID, name, rawPhone string, category entities.Category) (*entities.Guest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create guest: name must not be empty")
	}
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	guest := &entities.Guest{
		EventID:  eventID,
		Name:     name,
		Phone:    phone.Normalize(rawPhone),
		Category: category,
	}

	for attempt := 0; attempt < 2; attempt++ {
		guest.ScanCode = scancode.New()
		err := s.guests.Create(ctx, guest)
		if err == nil {
			s.log.Info().
				Stringer("guest_id", guest.ID).
				Stringer("event_id", eventID).
				Str("scan_code", guest.ScanCode).
				Msg("guest created")
			return guest, nil
		}
		if !errors.Is(err, domain.ErrScanCodeCollision) {
			return nil, fmt.Errorf("create guest: %w", err)
		}
		s.log.Warn().Str("scan_code", guest.ScanCode).Msg("scan code collision, regenerating")
	}
	return nil, domain.ErrScanCodeCollision
}

func (s *GuestService) ListGuests(ctx context.Context, eventID uuid.UUID) ([]entities.Guest, error) {
	return s.guests.ListByEventID(ctx, eventID)
}

func (s *GuestService) DeleteGuest(ctx context.Context, guestID uuid.UUID) error {
	if err := s.guests.Delete(ctx, guestID); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	s.log.Info().Stringer("guest_id", guestID).Msg("guest deleted")
	return nil
}
