package station

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"doorlist/internal/application"
	"doorlist/internal/domain"
	"doorlist/internal/domain/entities"
	"doorlist/internal/ports/input"
	"doorlist/internal/ports/output"
)

// Decoder produces decoded scan payloads from whatever physical scanner is
// attached. The payload channel closes when the decoder stops; Err then
// reports why, or nil for a clean stop. The decoder's internals (camera,
// frames) are opaque to the station.
type Decoder interface {
	Payloads() <-chan string
	Err() error
}

// Station is one check-in post for one event: the cooperative loop feeding
// decoder payloads and manual selections into the coordinator, and bus
// mutations back into the local directory.
//
// The loop itself is single-threaded; in-flight check-ins run in their own
// goroutines so a pending mutation never blocks the next decode. All cross-
// station concurrency is resolved by the coordinator's guarded update, never
// locally.
type Station struct {
	id       string
	eventID  uuid.UUID
	dir      *Directory
	scanner  *Scanner
	checkins input.CheckInUseCase
	bus      output.MutationBus
	feedback FeedbackSink
	log      zerolog.Logger

	mu      sync.Mutex
	pending map[uuid.UUID]*PendingCheckIn
	closed  bool
	wg      sync.WaitGroup
}

func New(
	id string,
	eventID uuid.UUID,
	checkins input.CheckInUseCase,
	guests output.GuestRepository,
	bus output.MutationBus,
	feedback FeedbackSink,
	log zerolog.Logger,
) *Station {
	dir := NewDirectory(eventID, guests)
	return &Station{
		id:       id,
		eventID:  eventID,
		dir:      dir,
		scanner:  NewScanner(id, dir),
		checkins: checkins,
		bus:      bus,
		feedback: feedback,
		log:      log.With().Str("station_id", id).Stringer("event_id", eventID).Logger(),
		pending:  make(map[uuid.UUID]*PendingCheckIn),
	}
}

// Run loads the directory, subscribes to the bus and consumes decoder
// payloads until ctx is canceled. decoder may be nil for a manual-only
// station; a decoder that dies mid-session degrades the station to
// manual-only instead of stopping it.
func (st *Station) Run(ctx context.Context, decoder Decoder) error {
	if err := st.dir.Load(ctx); err != nil {
		st.feedback.Notice("directory_unavailable", nil)
		return err
	}

	sub, err := st.bus.Subscribe(ctx, st.eventID)
	if err != nil {
		return fmt.Errorf("subscribe to guest mutations: %w", err)
	}
	defer sub.Close()

	var payloads <-chan string
	if decoder != nil {
		payloads = decoder.Payloads()
	}
	mutations := sub.Mutations()
	resyncs := sub.Resyncs()
	st.log.Info().Msg("station running")

	for {
		select {
		case <-ctx.Done():
			st.close()
			st.wg.Wait()
			st.log.Info().Msg("station stopped")
			return nil

		case m, ok := <-mutations:
			if !ok {
				// Subscription only closes on teardown; wait for ctx.
				mutations = nil
				continue
			}
			st.applyMutation(m)

		case _, ok := <-resyncs:
			if !ok {
				resyncs = nil
				continue
			}
			st.resync(ctx)

		case code, ok := <-payloads:
			if !ok {
				payloads = nil
				if derr := decoder.Err(); derr != nil {
					st.log.Warn().Err(derr).Msg("decoder unavailable, manual path only")
					st.feedback.Notice("decoder_unavailable", map[string]any{"Reason": derr.Error()})
				}
				continue
			}
			st.HandleDecode(ctx, code)
		}
	}
}

// HandleDecode processes one decoded payload: debounce, cache lookup, then
// dispatch. An unknown code surfaces a no-match cue and never reaches the
// coordinator.
func (st *Station) HandleDecode(ctx context.Context, code string) {
	intent, guest, err := st.scanner.Scan(code)
	switch {
	case errors.Is(err, domain.ErrDuplicateScan):
		return
	case errors.Is(err, domain.ErrScanCodeNotFound):
		st.log.Debug().Str("code", code).Msg("scan code not in directory")
		st.feedback.NoMatch(code)
		return
	}
	st.dispatch(ctx, intent, guest)
}

// Search runs a manual query against the directory cache.
func (st *Station) Search(query string) []entities.Guest {
	return st.dir.SearchByText(query)
}

// CheckInManual dispatches a check-in for a guest picked from search
// results. No debounce applies, the coordinator guard does.
func (st *Station) CheckInManual(ctx context.Context, guestID uuid.UUID) error {
	st.mu.Lock()
	closed := st.closed
	st.mu.Unlock()
	if closed {
		return domain.ErrStationClosed
	}
	guest, ok := st.dir.Get(guestID)
	if !ok {
		return domain.ErrGuestNotFound
	}
	st.dispatch(ctx, st.scanner.Select(guest), guest)
	return nil
}

// Guest returns the operator's view of a guest: confirmed state with any
// pending optimistic check-in overlaid.
func (st *Station) Guest(id uuid.UUID) (entities.Guest, bool) {
	confirmed, ok := st.dir.Get(id)
	if !ok {
		return entities.Guest{}, false
	}
	st.mu.Lock()
	pending := st.pending[id]
	st.mu.Unlock()
	return View(confirmed, pending), true
}

// Guests returns the operator's view of the whole list, sorted by name.
func (st *Station) Guests() []entities.Guest {
	guests := st.dir.Guests()
	st.mu.Lock()
	for i := range guests {
		guests[i] = View(guests[i], st.pending[guests[i].ID])
	}
	st.mu.Unlock()
	return guests
}

// dispatch applies the optimistic shadow and fires the coordinator call.
func (st *Station) dispatch(ctx context.Context, intent entities.ScanIntent, guest entities.Guest) {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return
	}
	st.pending[intent.GuestID] = &PendingCheckIn{StationID: intent.StationID, AppliedAt: intent.ObservedAt}
	st.wg.Add(1)
	st.mu.Unlock()

	st.log.Debug().
		Stringer("guest_id", intent.GuestID).
		Bool("manual", intent.Manual).
		Msg("dispatching check-in")

	go func() {
		defer st.wg.Done()
		result, err := st.checkins.CheckIn(ctx, intent.GuestID)
		st.resolve(intent, guest, result, err)
	}()
}

// resolve reconciles the coordinator's answer with the optimistic state and
// cues the operator. After teardown it does nothing: an in-flight intent
// must not update a torn-down UI.
func (st *Station) resolve(intent entities.ScanIntent, optimistic entities.Guest, result *application.CheckInResult, err error) {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return
	}

	if err != nil {
		delete(st.pending, intent.GuestID)
		st.mu.Unlock()
		st.log.Warn().Err(err).Stringer("guest_id", intent.GuestID).Msg("check-in failed")
		st.feedback.Failed(optimistic, err)
		return
	}

	confirmed, _ := st.dir.Get(intent.GuestID)
	next, nextPending := Reconcile(confirmed, st.pending[intent.GuestID], result.Guest)
	st.dir.Apply(entities.GuestMutation{Type: entities.MutationUpdated, Guest: next})
	if nextPending == nil {
		delete(st.pending, intent.GuestID)
	} else {
		st.pending[intent.GuestID] = nextPending
	}
	st.mu.Unlock()

	switch result.Status {
	case application.StatusCheckedIn:
		st.feedback.CheckedIn(*result.Guest)
	case application.StatusAlreadyCheckedIn:
		st.feedback.AlreadyCheckedIn(*result.Guest)
	}
}

// applyMutation folds one bus delivery into the directory. An echo of this
// station's own check-in settles the matching pending shadow; the record
// replacement itself is idempotent, so redelivery changes nothing.
func (st *Station) applyMutation(m entities.GuestMutation) {
	st.mu.Lock()
	if m.Type == entities.MutationDeleted {
		delete(st.pending, m.Guest.ID)
		st.dir.Apply(m)
		st.mu.Unlock()
		return
	}

	confirmed, ok := st.dir.Get(m.Guest.ID)
	if !ok {
		confirmed = m.Guest
	}
	next, nextPending := Reconcile(confirmed, st.pending[m.Guest.ID], &m.Guest)
	st.dir.Apply(entities.GuestMutation{Type: m.Type, Guest: next})
	if nextPending == nil {
		delete(st.pending, m.Guest.ID)
	} else {
		st.pending[m.Guest.ID] = nextPending
	}
	st.mu.Unlock()
}

// resync reloads the full directory after a realtime reconnect bridged an
// unknown gap.
func (st *Station) resync(ctx context.Context) {
	if err := st.dir.Load(ctx); err != nil {
		st.log.Error().Err(err).Msg("resync failed")
		st.feedback.Notice("directory_unavailable", nil)
		return
	}
	st.log.Info().Msg("directory resynced after reconnect")
	st.feedback.Notice("resynced", nil)
}

func (st *Station) close() {
	st.mu.Lock()
	st.closed = true
	st.mu.Unlock()
}
