package entities

// MutationType identifies the kind of committed change carried by a
// GuestMutation.
type MutationType string

const (
	MutationInserted MutationType = "inserted"
	MutationUpdated  MutationType = "updated"
	MutationDeleted  MutationType = "deleted"
)

// GuestMutation is one committed change to a guest row, rebroadcast to every
// station subscribed to the guest's event. Receivers must treat it as a full
// replacement of the guest record, never as a delta, so redelivery after a
// reconnect is harmless.
type GuestMutation struct {
	Type  MutationType
	Guest Guest
}
