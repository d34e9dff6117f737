package station

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"doorlist/internal/domain"
)

// fakeClock lets tests drive the debounce window deterministically.
type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time { return c.at }

func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func newScannerWithClock(t *testing.T) (*Scanner, *fakeClock, *Directory) {
	t.Helper()
	eventID := uuid.New()
	dir := loadedDirectory(t, eventID,
		guestNamed(eventID, "John Doe", "", "QR-001"),
		guestNamed(eventID, "Joanna", "", "QR-002"),
	)
	clock := &fakeClock{at: time.Date(2026, 6, 20, 19, 0, 0, 0, time.UTC)}
	s := NewScanner("door-a", dir)
	s.now = clock.now
	return s, clock, dir
}

func TestScanEmitsIntentForKnownCode(t *testing.T) {
	s, clock, dir := newScannerWithClock(t)

	intent, guest, err := s.Scan("QR-001")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want, _ := dir.LookupByCode("QR-001")
	if intent.GuestID != want.ID || guest.ID != want.ID {
		t.Errorf("intent targets %s, want %s", intent.GuestID, want.ID)
	}
	if intent.StationID != "door-a" || intent.Manual {
		t.Errorf("unexpected intent metadata: %+v", intent)
	}
	if !intent.ObservedAt.Equal(clock.at) {
		t.Errorf("ObservedAt = %v, want %v", intent.ObservedAt, clock.at)
	}
}

func TestScanDebouncesRepeatedCode(t *testing.T) {
	s, clock, _ := newScannerWithClock(t)

	if _, _, err := s.Scan("QR-001"); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	clock.advance(400 * time.Millisecond)
	if _, _, err := s.Scan("QR-001"); !errors.Is(err, domain.ErrDuplicateScan) {
		t.Fatalf("repeat within window: err = %v, want ErrDuplicateScan", err)
	}
}

func TestScanWindowSlidesWithEachRepeat(t *testing.T) {
	s, clock, _ := newScannerWithClock(t)

	if _, _, err := s.Scan("QR-001"); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	// A code left in view decodes roughly once a second. Each suppressed
	// repeat refreshes the window, so it must keep suppressing far past the
	// initial 2.5s.
	for i := 0; i < 5; i++ {
		clock.advance(time.Second)
		if _, _, err := s.Scan("QR-001"); !errors.Is(err, domain.ErrDuplicateScan) {
			t.Fatalf("repeat %d: err = %v, want ErrDuplicateScan", i+1, err)
		}
	}
}

func TestScanFiresAgainAfterWindowPasses(t *testing.T) {
	s, clock, _ := newScannerWithClock(t)

	if _, _, err := s.Scan("QR-001"); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	clock.advance(debounceWindow)
	if _, _, err := s.Scan("QR-001"); err != nil {
		t.Fatalf("scan after window: %v", err)
	}
}

func TestScanDifferentCodesAreNotDebounced(t *testing.T) {
	s, clock, _ := newScannerWithClock(t)

	if _, _, err := s.Scan("QR-001"); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	clock.advance(100 * time.Millisecond)
	if _, _, err := s.Scan("QR-002"); err != nil {
		t.Fatalf("different code: %v", err)
	}
}

func TestScanUnknownCode(t *testing.T) {
	s, _, _ := newScannerWithClock(t)

	_, _, err := s.Scan("QR-404")
	if !errors.Is(err, domain.ErrScanCodeNotFound) {
		t.Fatalf("err = %v, want ErrScanCodeNotFound", err)
	}
}

func TestSelectBypassesDebounce(t *testing.T) {
	s, clock, dir := newScannerWithClock(t)
	guest, _ := dir.LookupByCode("QR-001")

	if _, _, err := s.Scan("QR-001"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	clock.advance(100 * time.Millisecond)
	intent := s.Select(guest)
	if !intent.Manual {
		t.Error("manual selection must be flagged Manual")
	}
	if intent.GuestID != guest.ID || intent.Code != guest.ScanCode {
		t.Errorf("unexpected intent: %+v", intent)
	}
}
