package output

import (
	"context"

	"github.com/google/uuid"

	"doorlist/internal/domain/entities"
)

// MutationBus is the realtime fan-out port: every committed guest mutation
// for an event reaches every live subscription for that event, including the
// station that originated it.
type MutationBus interface {
	Subscribe(ctx context.Context, eventID uuid.UUID) (Subscription, error)
}

// Subscription is a long-lived handle on one event's mutation stream.
//
// Delivery is at-least-once: after a transport drop the subscription
// reconnects by itself and then signals on Resyncs, at which point the
// subscriber must reload the full directory before trusting cached state
// again (mutations committed during the gap are not replayed). Mutations for
// the same guest arrive in commit order; no order is guaranteed across
// guests.
type Subscription interface {
	Mutations() <-chan entities.GuestMutation
	Resyncs() <-chan struct{}
	Close()
}
