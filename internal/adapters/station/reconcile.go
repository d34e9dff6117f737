package station

import (
	"time"

	"doorlist/internal/domain/entities"
)

// PendingCheckIn is the optimistic shadow a station applies the moment it
// dispatches a scan intent, before the coordinator has answered. It carries
// the originating station and a tentative timestamp that is replaced by the
// authoritative one on confirmation.
type PendingCheckIn struct {
	StationID string
	AppliedAt time.Time
}

// Reconcile is the pure reconciliation step, keyed by guest id: given the
// last confirmed record, this station's pending optimistic state for the
// guest (nil when none) and an incoming authoritative record (coordinator
// response or bus echo; nil when none), it returns the next confirmed record
// and the pending state that remains.
//
// Last write wins by presence of checked_in_at: once any authoritative
// record shows the guest checked in, the pending shadow has been confirmed.
// That includes an echo of this station's own mutation, which is thereby a
// no-op rather than a second check-in.
func Reconcile(confirmed entities.Guest, pending *PendingCheckIn, incoming *entities.Guest) (entities.Guest, *PendingCheckIn) {
	if incoming == nil {
		return confirmed, pending
	}
	next := *incoming
	if pending != nil && next.CheckedIn {
		pending = nil
	}
	return next, pending
}

// View is what the operator sees for a guest: the confirmed record, with the
// pending optimistic check-in overlaid while the coordinator's answer is in
// flight. Rolling back an optimistic update is simply dropping the pending
// shadow; the confirmed record was never touched.
func View(confirmed entities.Guest, pending *PendingCheckIn) entities.Guest {
	if pending == nil || confirmed.CheckedIn {
		return confirmed
	}
	v := confirmed
	v.CheckedIn = true
	v.CheckedInAt = pending.AppliedAt
	return v
}
