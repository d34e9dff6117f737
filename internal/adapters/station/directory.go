package station

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"doorlist/internal/domain"
	"doorlist/internal/domain/entities"
	"doorlist/internal/ports/output"
	"doorlist/pkg/phone"
)

// Directory is the station's in-memory copy of one event's guest list,
// keyed by guest id and by scan code. It is loaded from the durable store at
// session start and kept current by applying bus mutations; all lookups on
// the scan path hit these maps, never the store.
type Directory struct {
	eventID uuid.UUID
	guests  output.GuestRepository

	mu     sync.RWMutex
	byID   map[uuid.UUID]entities.Guest
	byCode map[string]entities.Guest
}

func NewDirectory(eventID uuid.UUID, guests output.GuestRepository) *Directory {
	return &Directory{
		eventID: eventID,
		guests:  guests,
		byID:    make(map[uuid.UUID]entities.Guest),
		byCode:  make(map[string]entities.Guest),
	}
}

// Load replaces the cached guest list with the durable store's current
// state. It is called at session start and again after every realtime
// reconnect, since the bus replays nothing.
func (d *Directory) Load(ctx context.Context) error {
	guests, err := d.guests.ListByEventID(ctx, d.eventID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
	}

	byID := make(map[uuid.UUID]entities.Guest, len(guests))
	byCode := make(map[string]entities.Guest, len(guests))
	for _, g := range guests {
		byID[g.ID] = g
		byCode[g.ScanCode] = g
	}

	d.mu.Lock()
	d.byID = byID
	d.byCode = byCode
	d.mu.Unlock()
	return nil
}

func (d *Directory) Get(id uuid.UUID) (entities.Guest, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	g, ok := d.byID[id]
	return g, ok
}

func (d *Directory) LookupByCode(code string) (entities.Guest, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	g, ok := d.byCode[code]
	return g, ok
}

// SearchByText matches query case-insensitively as a substring of guest
// names and phone numbers. An empty query returns nothing: manual search
// must never silently reveal the entire guest list. This is policy, not an
// oversight.
func (d *Directory) SearchByText(query string) []entities.Guest {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	digits := phone.Digits(query)

	d.mu.RLock()
	var out []entities.Guest
	for _, g := range d.byID {
		if strings.Contains(strings.ToLower(g.Name), needle) {
			out = append(out, g)
			continue
		}
		if digits != "" && strings.Contains(phone.Digits(g.Phone), digits) {
			out = append(out, g)
		}
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Apply overwrites the cached record for the mutation's guest with the
// incoming version. Applying the same mutation twice leaves the cache
// unchanged, so at-least-once bus delivery is harmless.
func (d *Directory) Apply(m entities.GuestMutation) {
	if m.Guest.EventID != d.eventID {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	switch m.Type {
	case entities.MutationDeleted:
		if old, ok := d.byID[m.Guest.ID]; ok {
			delete(d.byCode, old.ScanCode)
		}
		delete(d.byID, m.Guest.ID)
	default:
		if old, ok := d.byID[m.Guest.ID]; ok && old.ScanCode != m.Guest.ScanCode {
			delete(d.byCode, old.ScanCode)
		}
		d.byID[m.Guest.ID] = m.Guest
		d.byCode[m.Guest.ScanCode] = m.Guest
	}
}

// Guests returns the cached list sorted by name.
func (d *Directory) Guests() []entities.Guest {
	d.mu.RLock()
	out := make([]entities.Guest, 0, len(d.byID))
	for _, g := range d.byID {
		out = append(out, g)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
