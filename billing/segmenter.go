/*
segmenter.go - Interval splitting policies

PURPOSE:
  Decides whether a raw work interval must split into typed sub-intervals.
  Two independent policies exist; a single call takes exactly one branch,
  selected by job type:

  Policy A - multi-day pet sitting (umbrella "pet_sitting" type):
    Walk forward from start. Remaining <= 8h ends with an hourly segment;
    remaining <= 24h ends with one flat overnight segment; otherwise carve
    a full 24h overnight chunk and repeat. A 3-night job bills as 3 nights,
    not 72 hours - overnight pet sitting is a flat nightly rate.
    The <= 8h check runs first on every iteration, so a short remainder
    after 24h chunks becomes an hourly tail (matches the shipped system;
    see DESIGN.md).

  Policy B - shift normalization:
    hourly pet sitting  > 8h     -> one overnight segment, with a note.
    hotel crossing calendar days -> day segment until 20:00, overnight
    20:00-08:00 (typed overnight_hotel), repeat; trailing day segment after
    the final 08:00. A shift ending exactly at 08:00 synthesizes an
    08:00-12:00 morning segment instead of ending with no day portion.

  Everything else passes through as a single unmodified segment.

INVARIANT:
  Returned segments are ordered, non-empty, and their concatenated ranges
  reconstruct [start, end) exactly - no gaps, no overlaps. The synthesized
  08:00-12:00 morning segment is the one deliberate exception.

ERROR POLICY:
  end <= start fails fast with ErrInvalidInterval for hourly job types
  (walks logged with no end time, or with end equal to start, are the
  exception and bill as one hour); per-day types reject only reversed
  ranges. Flat-rate and quantity-driven types tolerate degenerate
  intervals because their amounts ignore elapsed time.
*/
package billing

import (
	"fmt"
	"time"
)

const (
	// maxHourlySitting is the longest stretch billable at the hourly
	// pet-sitting rate before it converts to an overnight flat rate.
	maxHourlySitting = 8 * time.Hour

	// overnightChunk is the span of one flat overnight pet-sitting segment.
	overnightChunk = 24 * time.Hour

	// Hotel shifts hand over at these wall-clock hours.
	hotelDayEndHour       = 20 // day portion ends, overnight begins
	hotelOvernightEndHour = 8  // overnight ends, next day portion begins
	hotelMorningEndHour   = 12
)

// SegmentInterval splits [start, end) into billable segments for the given
// job type. Non-splitting job types return exactly one segment equal to the
// input.
func SegmentInterval(jobType JobType, start, end time.Time) ([]Segment, error) {
	semantics, ok := jobType.Semantics()
	if !ok {
		return nil, &RateError{JobType: jobType, Reason: ErrUnknownJobType}
	}

	switch semantics {
	case SemanticsHourly:
		if !end.After(start) {
			// Walks are routinely logged without an end time, either as
			// a zero End or as End == Start; the calculator bills those
			// as one hour.
			if !(jobType == JobWalk && (end.IsZero() || end.Equal(start))) {
				return nil, &IntervalError{JobType: jobType, Start: start, End: end}
			}
		}
	case SemanticsPerDay:
		if end.Before(start) {
			return nil, &IntervalError{JobType: jobType, Start: start, End: end}
		}
	}

	switch jobType {
	case JobPetSitting:
		return segmentStay(start, end), nil
	case JobPetSittingHourly, JobHotel:
		return normalizeShift(jobType, start, end), nil
	default:
		return []Segment{{JobType: jobType, Start: start, End: end}}, nil
	}
}

// =============================================================================
// POLICY A - Multi-day pet sitting
// =============================================================================

func segmentStay(start, end time.Time) []Segment {
	var segments []Segment
	current := start

	for current.Before(end) {
		remaining := end.Sub(current)

		switch {
		case remaining <= maxHourlySitting:
			segments = append(segments, Segment{
				JobType: JobPetSittingHourly,
				Start:   current,
				End:     end,
			})
			return segments

		case remaining <= overnightChunk:
			segments = append(segments, Segment{
				JobType: JobOvernightPetSitting,
				Start:   current,
				End:     end,
			})
			return segments

		default:
			chunkEnd := current.Add(overnightChunk)
			segments = append(segments, Segment{
				JobType: JobOvernightPetSitting,
				Start:   current,
				End:     chunkEnd,
			})
			current = chunkEnd
		}
	}
	return segments
}

// =============================================================================
// POLICY B - Shift normalization
// =============================================================================

func normalizeShift(jobType JobType, start, end time.Time) []Segment {
	totalHours := end.Sub(start).Hours()

	// Hourly pet sitting longer than 8 hours is operationally an overnight
	// stay; billing it hourly would overcharge the client.
	if jobType == JobPetSittingHourly && end.Sub(start) > maxHourlySitting {
		return []Segment{{
			JobType: JobOvernightPetSitting,
			Start:   start,
			End:     end,
			Note:    convertedNote(totalHours),
		}}
	}

	if jobType == JobHotel && !sameDate(start, end) {
		return splitHotelShift(start, end)
	}

	return []Segment{{JobType: jobType, Start: start, End: end}}
}

// splitHotelShift alternates day and overnight segments for a hotel shift
// spanning calendar days. The overnight portion is clamped to the raw
// interval so coverage stays exact even for shifts starting after 20:00 or
// ending before 08:00.
func splitHotelShift(start, end time.Time) []Segment {
	var segments []Segment
	current := start

	for dateBefore(current, end) {
		dayEnd := atHour(current, hotelDayEndHour)
		if current.Before(dayEnd) {
			segments = append(segments, Segment{
				JobType: JobHotel,
				Start:   current,
				End:     dayEnd,
				Note:    "Hotel shift (day portion)",
			})
			current = dayEnd
		}

		overnightEnd := atHour(current.AddDate(0, 0, 1), hotelOvernightEndHour)
		if end.Before(overnightEnd) {
			segments = append(segments, Segment{
				JobType: JobOvernightHotel,
				Start:   current,
				End:     end,
				Note:    "Overnight shift (20:00-08:00)",
			})
			return segments
		}
		segments = append(segments, Segment{
			JobType: JobOvernightHotel,
			Start:   current,
			End:     overnightEnd,
			Note:    "Overnight shift (20:00-08:00)",
		})
		current = overnightEnd
	}

	if current.Before(end) {
		segments = append(segments, Segment{
			JobType: JobHotel,
			Start:   current,
			End:     end,
			Note:    "Hotel shift (final day portion)",
		})
	} else if current.Equal(end) && end.Hour() == hotelOvernightEndHour {
		// A shift ending exactly at 08:00 still gets a standard morning
		// portion so no one "ends" a multi-day shift with zero day hours.
		segments = append(segments, Segment{
			JobType: JobHotel,
			Start:   current,
			End:     atHour(current, hotelMorningEndHour),
			Note:    "Hotel shift (morning portion 08:00-12:00)",
		})
	}

	return segments
}

// =============================================================================
// HELPERS
// =============================================================================

func convertedNote(hours float64) string {
	return fmt.Sprintf("Converted from %.1fh pet sitting to overnight", hours)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dateBefore(a, b time.Time) bool {
	return !sameDate(a, b) && a.Before(b)
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}
