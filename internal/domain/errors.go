package domain

import "errors"

// Domain errors.
var (
	ErrGuestNotFound        = errors.New("guest not found")
	ErrAlreadyCheckedIn     = errors.New("guest already checked in")
	ErrNotCheckedIn         = errors.New("guest is not checked in")
	ErrDirectoryUnavailable = errors.New("guest directory unavailable")
	ErrDuplicateScan        = errors.New("duplicate scan suppressed")
	ErrScanCodeNotFound     = errors.New("no guest matches this scan code")
	ErrScanCodeCollision    = errors.New("scan code already issued for this event")
	ErrInvalidCategory      = errors.New("invalid guest category")
	ErrStationClosed        = errors.New("station is shut down")
)

// Code maps a domain error to a stable short code, used as the suffix of
// operator-facing message keys ("feedback.<code>"). Unknown errors map to "".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrGuestNotFound):
		return "guest_not_found"
	case errors.Is(err, ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, ErrNotCheckedIn):
		return "not_checked_in"
	case errors.Is(err, ErrDirectoryUnavailable):
		return "directory_unavailable"
	case errors.Is(err, ErrDuplicateScan):
		return "duplicate_scan"
	case errors.Is(err, ErrScanCodeNotFound):
		return "scan_code_not_found"
	case errors.Is(err, ErrScanCodeCollision):
		return "scan_code_collision"
	case errors.Is(err, ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, ErrStationClosed):
		return "station_closed"
	default:
		return ""
	}
}
