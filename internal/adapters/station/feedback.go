package station

import (
	"fmt"
	"io"
	"sync"

	"doorlist/internal/domain"
	"doorlist/internal/domain/entities"
	"doorlist/internal/ports/output"
)

// FeedbackSink receives the operator-facing cues keyed to scan outcomes.
// The station guarantees no cue is delivered after shutdown.
type FeedbackSink interface {
	// CheckedIn is the fresh confirmation cue, carrying the authoritative
	// timestamp.
	CheckedIn(guest entities.Guest)
	// AlreadyCheckedIn must be distinguishable from CheckedIn: the guest is
	// in either way, but the operator needs to know this was not a first
	// scan.
	AlreadyCheckedIn(guest entities.Guest)
	// NoMatch reports a decoded code with no guest behind it.
	NoMatch(code string)
	// Failed reports a check-in attempt that errored; the optimistic state
	// has already been rolled back and the operator should rescan.
	Failed(guest entities.Guest, err error)
	// Notice carries non-scan messages (decoder unavailable, resync done).
	Notice(key string, data map[string]any)
}

var _ FeedbackSink = (*TerminalFeedback)(nil)

// TerminalFeedback renders cues as localized lines on a terminal station.
type TerminalFeedback struct {
	translator output.T
	locale     string

	mu sync.Mutex
	w  io.Writer
}

func NewTerminalFeedback(w io.Writer, translator output.T, locale string) *TerminalFeedback {
	return &TerminalFeedback{w: w, translator: translator, locale: locale}
}

func (f *TerminalFeedback) CheckedIn(guest entities.Guest) {
	f.line("✅", "feedback.checked_in", map[string]any{
		"Name": guest.Name,
		"Time": guest.CheckedInAt.Local().Format("15:04:05"),
	})
}

func (f *TerminalFeedback) AlreadyCheckedIn(guest entities.Guest) {
	f.line("ℹ️", "feedback.already_checked_in", map[string]any{
		"Name": guest.Name,
		"Time": guest.CheckedInAt.Local().Format("15:04:05"),
	})
}

func (f *TerminalFeedback) NoMatch(code string) {
	f.line("❓", "feedback.scan_code_not_found", map[string]any{"Code": code})
}

func (f *TerminalFeedback) Failed(guest entities.Guest, err error) {
	key := "feedback.check_in_failed"
	if code := domain.Code(err); code != "" {
		key = "feedback." + code
	}
	f.line("❌", key, map[string]any{"Name": guest.Name})
}

func (f *TerminalFeedback) Notice(key string, data map[string]any) {
	f.line("·", "feedback."+key, data)
}

func (f *TerminalFeedback) line(cue, key string, data map[string]any) {
	msg := f.translator.T(f.locale, key, data)
	f.mu.Lock()
	fmt.Fprintf(f.w, "%s %s\n", cue, msg)
	f.mu.Unlock()
}
