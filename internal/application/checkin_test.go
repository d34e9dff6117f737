package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"doorlist/internal/domain"
	"doorlist/internal/domain/entities"
)

// memGuestRepo mirrors the semantics of the SQL repository in memory: the
// conditional check-in mutates under a single lock, and zero matched rows
// (missing guest or guard failure alike) surface as ErrAlreadyCheckedIn.
type memGuestRepo struct {
	mu     sync.Mutex
	guests map[uuid.UUID]*entities.Guest
}

func newMemGuestRepo(guests ...entities.Guest) *memGuestRepo {
	r := &memGuestRepo{guests: make(map[uuid.UUID]*entities.Guest)}
	for i := range guests {
		g := guests[i]
		r.guests[g.ID] = &g
	}
	return r
}

func (r *memGuestRepo) Create(ctx context.Context, guest *entities.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.guests {
		if g.EventID == guest.EventID && g.ScanCode == guest.ScanCode {
			return domain.ErrScanCodeCollision
		}
	}
	if guest.ID == uuid.Nil {
		guest.ID = uuid.New()
	}
	cp := *guest
	r.guests[guest.ID] = &cp
	return nil
}

func (r *memGuestRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return nil, domain.ErrGuestNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *memGuestRepo) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entities.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Guest
	for _, g := range r.guests {
		if g.EventID == eventID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *memGuestRepo) CheckIn(ctx context.Context, id uuid.UUID) (*entities.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok || g.CheckedIn {
		return nil, domain.ErrAlreadyCheckedIn
	}
	g.CheckedIn = true
	g.CheckedInAt = time.Now()
	g.UpdatedAt = g.CheckedInAt
	cp := *g
	return &cp, nil
}

func (r *memGuestRepo) UndoCheckIn(ctx context.Context, id uuid.UUID) (*entities.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return nil, domain.ErrGuestNotFound
	}
	g.CheckedIn = false
	g.CheckedInAt = time.Time{}
	g.UpdatedAt = time.Now()
	cp := *g
	return &cp, nil
}

func (r *memGuestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.guests[id]; !ok {
		return domain.ErrGuestNotFound
	}
	delete(r.guests, id)
	return nil
}

func newTestGuest() entities.Guest {
	return entities.Guest{
		ID:       uuid.New(),
		EventID:  uuid.New(),
		Name:     "John Doe",
		Category: entities.CategoryRegular,
		ScanCode: "QR-001",
	}
}

func TestCheckInExactlyOnceUnderConcurrency(t *testing.T) {
	guest := newTestGuest()
	repo := newMemGuestRepo(guest)
	svc := NewCheckInService(repo, zerolog.Nop())

	const callers = 32
	results := make([]*CheckInResult, callers)
	errs := make([]error, callers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			results[i], errs[i] = svc.CheckIn(context.Background(), guest.ID)
		}(i)
	}
	start.Done()
	done.Wait()

	var wins, already int
	var stamp time.Time
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		switch results[i].Status {
		case StatusCheckedIn:
			wins++
		case StatusAlreadyCheckedIn:
			already++
		}
		if stamp.IsZero() {
			stamp = results[i].Guest.CheckedInAt
		} else if !results[i].Guest.CheckedInAt.Equal(stamp) {
			t.Errorf("caller %d: timestamp %v diverges from %v", i, results[i].Guest.CheckedInAt, stamp)
		}
	}
	if wins != 1 {
		t.Errorf("got %d StatusCheckedIn, want exactly 1", wins)
	}
	if already != callers-1 {
		t.Errorf("got %d StatusAlreadyCheckedIn, want %d", already, callers-1)
	}
}

func TestCheckInIsIdempotent(t *testing.T) {
	guest := newTestGuest()
	repo := newMemGuestRepo(guest)
	svc := NewCheckInService(repo, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, guest.ID)
	if err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	if first.Status != StatusCheckedIn {
		t.Fatalf("first check-in status = %s, want %s", first.Status, StatusCheckedIn)
	}

	second, err := svc.CheckIn(ctx, guest.ID)
	if err != nil {
		t.Fatalf("second check-in: %v", err)
	}
	if second.Status != StatusAlreadyCheckedIn {
		t.Errorf("second check-in status = %s, want %s", second.Status, StatusAlreadyCheckedIn)
	}
	if !second.Guest.CheckedInAt.Equal(first.Guest.CheckedInAt) {
		t.Errorf("second check-in moved the timestamp: %v != %v", second.Guest.CheckedInAt, first.Guest.CheckedInAt)
	}
}

func TestCheckInUnknownGuest(t *testing.T) {
	repo := newMemGuestRepo()
	svc := NewCheckInService(repo, zerolog.Nop())

	_, err := svc.CheckIn(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrGuestNotFound) {
		t.Fatalf("err = %v, want ErrGuestNotFound", err)
	}
}

func TestUndoCheckInRoundTrip(t *testing.T) {
	guest := newTestGuest()
	repo := newMemGuestRepo(guest)
	svc := NewCheckInService(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, guest.ID); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	undone, err := svc.UndoCheckIn(ctx, guest.ID)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if undone.CheckedIn {
		t.Error("guest still checked in after undo")
	}
	if !undone.CheckedInAt.IsZero() {
		t.Errorf("checked_in_at not cleared after undo: %v", undone.CheckedInAt)
	}

	// The transition is available again after the organizer's correction.
	again, err := svc.CheckIn(ctx, guest.ID)
	if err != nil {
		t.Fatalf("re-check-in after undo: %v", err)
	}
	if again.Status != StatusCheckedIn {
		t.Errorf("re-check-in status = %s, want %s", again.Status, StatusCheckedIn)
	}
}

// raceUndoRepo simulates losing the guard to a concurrent undo: the guarded
// update matches nothing but the re-read shows the guest not checked in.
type raceUndoRepo struct {
	*memGuestRepo
}

func (r *raceUndoRepo) CheckIn(ctx context.Context, id uuid.UUID) (*entities.Guest, error) {
	return nil, domain.ErrAlreadyCheckedIn
}

func TestCheckInRacingUndoTellsOperatorToRescan(t *testing.T) {
	guest := newTestGuest()
	svc := NewCheckInService(&raceUndoRepo{newMemGuestRepo(guest)}, zerolog.Nop())

	_, err := svc.CheckIn(context.Background(), guest.ID)
	if !errors.Is(err, domain.ErrNotCheckedIn) {
		t.Fatalf("err = %v, want ErrNotCheckedIn", err)
	}
}
