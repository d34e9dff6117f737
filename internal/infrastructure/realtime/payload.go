package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"doorlist/internal/domain/entities"
)

// channelName returns the per-event NOTIFY channel, matching what the
// guests_notify trigger publishes on.
func channelName(eventID uuid.UUID) string {
	return "guest_changes_" + eventID.String()
}

// payload mirrors the JSON built by the notify_guest_change() trigger:
// {"type": "...", "guest": <row_to_json of the guests row>}.
type payload struct {
	Type  string       `json:"type"`
	Guest guestPayload `json:"guest"`
}

type guestPayload struct {
	ID          uuid.UUID  `json:"id"`
	EventID     uuid.UUID  `json:"event_id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Category    string     `json:"category"`
	ScanCode    string     `json:"scan_code"`
	CheckedIn   bool       `json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func decodeMutation(data []byte) (entities.GuestMutation, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return entities.GuestMutation{}, fmt.Errorf("decode mutation payload: %w", err)
	}

	typ := entities.MutationType(p.Type)
	switch typ {
	case entities.MutationInserted, entities.MutationUpdated, entities.MutationDeleted:
	default:
		return entities.GuestMutation{}, fmt.Errorf("decode mutation payload: unknown type %q", p.Type)
	}

	guest := entities.Guest{
		ID:        p.Guest.ID,
		EventID:   p.Guest.EventID,
		Name:      p.Guest.Name,
		Phone:     p.Guest.Phone,
		Category:  entities.Category(p.Guest.Category),
		ScanCode:  p.Guest.ScanCode,
		CheckedIn: p.Guest.CheckedIn,
		CreatedAt: p.Guest.CreatedAt,
		UpdatedAt: p.Guest.UpdatedAt,
	}
	if p.Guest.CheckedInAt != nil {
		guest.CheckedInAt = *p.Guest.CheckedInAt
	}
	return entities.GuestMutation{Type: typ, Guest: guest}, nil
}
