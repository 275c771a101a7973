/*
entry.go - Full pipeline from raw interval to payable entries

PURPOSE:
  Wires the three engine stages together: segment the raw interval, price
  each segment, and package the results as one atomic batch of timesheet
  entries. The N segments of a single work interval share a reference ID
  and must be persisted all-or-nothing; partial persistence is a storage
  error to surface, never to tolerate.

DATA FLOW:
  WorkInterval -> SegmentInterval -> Calculator (per segment, reads the
  RateSource) -> EntryResult{segments, total} -> []Entry for the store.
*/
package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE - Segmenter + Calculator over one RateSource
// =============================================================================

// Engine computes complete billable entries from raw work intervals.
type Engine struct {
	calculator *Calculator
}

func NewEngine(source RateSource) *Engine {
	return &Engine{calculator: NewCalculator(source)}
}

// SegmentResult pairs one segment with its billable outcome.
type SegmentResult struct {
	Segment Segment
	Result  Result
}

// EntryResult is the outcome for one work interval: an ordered list of
// priced segments and their grand total. Callers must treat the list as an
// atomic unit for persistence.
type EntryResult struct {
	ReferenceID string
	Segments    []SegmentResult
	Total       decimal.Decimal
}

// ComputeEntry segments the interval and prices every segment. Any
// resolver, interval, or quantity failure aborts the whole entry.
func (e *Engine) ComputeEntry(interval WorkInterval) (*EntryResult, error) {
	segments, err := SegmentInterval(interval.JobType, interval.Start, interval.End)
	if err != nil {
		return nil, err
	}

	cctx := CalcContext{
		Quantity: interval.Quantity,
		PetNames: interval.PetNames,
		Date:     interval.Date,
	}

	result := &EntryResult{
		ReferenceID: uuid.NewString(),
		Total:       decimal.Zero,
	}
	for _, seg := range segments {
		r, err := e.calculator.Calculate(seg, interval.Employee, cctx)
		if err != nil {
			return nil, err
		}
		result.Segments = append(result.Segments, SegmentResult{Segment: seg, Result: r})
		result.Total = result.Total.Add(r.Amount)
	}
	return result, nil
}

// Entries materializes the result as persistable rows, one per segment,
// sharing the result's reference ID.
func (res *EntryResult) Entries(interval WorkInterval, createdAt time.Time) []Entry {
	entries := make([]Entry, len(res.Segments))
	for i, sr := range res.Segments {
		entries[i] = Entry{
			ID:           uuid.NewString(),
			ReferenceID:  res.ReferenceID,
			Employee:     interval.Employee,
			JobType:      sr.Segment.JobType,
			Start:        sr.Segment.Start,
			End:          sr.Segment.End,
			Duration:     sr.Result.Duration,
			Rate:         sr.Result.Rate,
			Amount:       sr.Result.Amount,
			Note:         sr.Segment.Note,
			PetNames:     interval.PetNames,
			Description:  interval.Description,
			Status:       StatusPending,
			WeekStart:    WeekStart(sr.Segment.Start),
			CreatedAt:    createdAt,
		}
	}
	return entries
}

// WeekStart returns the Monday of the calendar week containing t.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}
