package station

import (
	"sync"
	"time"

	"doorlist/internal/domain"
	"doorlist/internal/domain/entities"
)

// debounceWindow is the fixed interval during which a decode identical to
// the previous one is treated as the same physical presentation of a code.
const debounceWindow = 2500 * time.Millisecond

// Scanner turns decoded payloads and manual selections into scan intents.
// A code held in front of the camera decodes once per frame; the debounce
// keyed on the last seen code collapses that into one intent per
// presentation.
type Scanner struct {
	stationID string
	dir       *Directory
	now       func() time.Time

	mu       sync.Mutex
	lastCode string
	lastAt   time.Time
}

func NewScanner(stationID string, dir *Directory) *Scanner {
	return &Scanner{stationID: stationID, dir: dir, now: time.Now}
}

// Scan converts one decoded payload into a ScanIntent and the matching
// cached guest. It returns domain.ErrDuplicateScan while the same code stays
// within the debounce window (the window slides with every repeat, so a code
// left in view never re-fires), and domain.ErrScanCodeNotFound when no guest
// carries the code. In both cases no intent is emitted and nothing reaches
// the coordinator.
func (s *Scanner) Scan(code string) (entities.ScanIntent, entities.Guest, error) {
	observedAt := s.now()

	s.mu.Lock()
	suppressed := code == s.lastCode && observedAt.Sub(s.lastAt) < debounceWindow
	s.lastCode = code
	s.lastAt = observedAt
	s.mu.Unlock()

	if suppressed {
		return entities.ScanIntent{}, entities.Guest{}, domain.ErrDuplicateScan
	}

	guest, ok := s.dir.LookupByCode(code)
	if !ok {
		return entities.ScanIntent{}, entities.Guest{}, domain.ErrScanCodeNotFound
	}

	intent := entities.ScanIntent{
		GuestID:    guest.ID,
		Code:       code,
		StationID:  s.stationID,
		ObservedAt: observedAt,
	}
	return intent, guest, nil
}

// Select emits an intent for a guest picked from manual search results. It
// bypasses decode and debounce entirely; the coordinator guard still
// applies.
func (s *Scanner) Select(guest entities.Guest) entities.ScanIntent {
	return entities.ScanIntent{
		GuestID:    guest.ID,
		Code:       guest.ScanCode,
		StationID:  s.stationID,
		Manual:     true,
		ObservedAt: s.now(),
	}
}
