package entities

import (
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of guest categories.
type Category string

const (
	CategoryVIP     Category = "vip"
	CategoryRegular Category = "regular"
	CategoryFamily  Category = "family"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryVIP, CategoryRegular, CategoryFamily:
		return true
	}
	return false
}

// Guest is one invited person for one event. ScanCode is the opaque payload
// embedded in the guest's invitation, unique within the event. CheckedInAt is
// zero exactly when CheckedIn is false; it is always assigned by the database,
// never by a station.
type Guest struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	Name        string
	Phone       string
	Category    Category
	ScanCode    string
	CheckedIn   bool
	CheckedInAt time.Time // zero = not checked in
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
