package entities

import (
	"time"

	"github.com/google/uuid"
)

// ScanIntent is a normalized, ephemeral request to check a guest in. It is
// created by the scanner adapter (decode or manual selection), handed to the
// check-in coordinator, and discarded after the outcome is reported.
type ScanIntent struct {
	GuestID    uuid.UUID
	Code       string
	StationID  string
	Manual     bool
	ObservedAt time.Time
}
