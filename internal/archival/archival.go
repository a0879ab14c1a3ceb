// Package archival moves the active evaluations into the archive once per
// month transition.
//
// A check is cheap when nothing needs to move and safe to trigger from any
// number of callers: the storage-level guard, not process state, decides
// whether the current month has already been archived.
package archival

import (
	"time"

	"github.com/google/uuid"
)

// Reason explains the outcome of a rollover check.
type Reason string

// Rollover outcomes.
const (
	ReasonNoEvaluations   Reason = "no_evaluations"
	ReasonSameMonth       Reason = "same_month"
	ReasonAlreadyArchived Reason = "already_archived"
	ReasonArchived        Reason = "archived"
)

// Result reports a rollover check. Count and FromMonth are set only when
// evaluations were moved.
type Result struct {
	Archived  bool   `json:"archived"`
	Reason    Reason `json:"reason"`
	Count     int    `json:"count,omitempty"`
	FromMonth string `json:"from_month,omitempty"`
}

// Run is a ledger entry written by a completed rollover.
// Year and Month identify the month in which the rollover ran and are
// unique across the ledger.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	FromMonth  string    `json:"from_month"`
	Count      int       `json:"count"`
	ArchivedAt time.Time `json:"archived_at"`
}

// monthStart returns the first instant of t's calendar month in t's location.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// beforeMonth reports whether a's calendar month is strictly earlier than b's.
func beforeMonth(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() < b.Year()
	}
	return a.Month() < b.Month()
}
