/*
store.go - Persistence interface for timesheet entries

PURPOSE:
  Defines the interface between the billing engine and the database. The
  engine itself performs no I/O; it produces Entry batches and the store
  persists them.

ATOMIC BATCHES:
  AppendBatch() is all-or-nothing. When one work interval segments into N
  entries (a split hotel shift, a multi-day pet-sitting stay), either all N
  are written or none are. Partial persistence must surface as an error.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - billing/store: In-memory for testing
*/
package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTRY - One persisted timesheet row (one segment)
// =============================================================================

type EntryStatus string

const (
	StatusPending  EntryStatus = "pending"
	StatusApproved EntryStatus = "approved"
	StatusPaid     EntryStatus = "paid"
)

// Entry is one billable timesheet row. Entries produced from the same work
// interval share a ReferenceID.
type Entry struct {
	ID          string
	ReferenceID string
	Employee    string
	JobType     JobType
	Start       time.Time
	End         time.Time
	Duration    Duration
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	Note        string
	PetNames    []string
	Description string
	Status      EntryStatus
	WeekStart   time.Time
	CreatedAt   time.Time
}

// =============================================================================
// TIMESHEET STORE
// =============================================================================

// TimesheetStore persists computed entries. Append-only: corrections are
// new entries, not updates to amounts already reported to payroll.
type TimesheetStore interface {
	// AppendBatch persists the entries of one work interval atomically.
	AppendBatch(ctx context.Context, entries []Entry) error

	// ListByEmployee returns an employee's entries with Start in
	// [from, to), ordered by Start.
	ListByEmployee(ctx context.Context, employee string, from, to time.Time) ([]Entry, error)

	// ListWeek returns all entries for the week beginning at weekStart,
	// ordered by employee then Start.
	ListWeek(ctx context.Context, weekStart time.Time) ([]Entry, error)
}
