/*
calculator.go - Duration and amount computation for one segment

PURPOSE:
  Converts a single typed segment (plus any non-time quantity) into a
  semantic duration and a payable amount, dispatching on the segment's unit
  semantics:

    exact_amount  duration = quantity (PLN)       amount = quantity
    per_km        duration = quantity (km)        amount = quantity x rate
    per_visit     duration = quantity (visits)    amount = quantity x rate
    flat_rate     12.0 hours for overnight hotel, amount = rate
                  flat 1.0 otherwise
    per_day       max(1, calendar-date diff)      amount = days x rate
    hourly        elapsed hours (walks without    amount = hours x rate
                  an end time default to 1.0h)

SIDE EFFECTS:
  None. Pure function over its inputs plus one RateSource read. Resolver
  failures propagate unchanged.
*/
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// overnightHotelHours is the duration credited for one flat overnight hotel
// shift (the 20:00-08:00 window).
var overnightHotelHours = decimal.NewFromInt(12)

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes duration and amount for segments. Stateless; safe for
// concurrent use if the underlying RateSource is.
type Calculator struct {
	resolver *Resolver
}

func NewCalculator(source RateSource) *Calculator {
	return &Calculator{resolver: NewResolver(source)}
}

// CalcContext carries the per-entry inputs that are not part of the segment.
type CalcContext struct {
	// Quantity is the non-time dimension: PLN for expenses, km for
	// transport, visit count for cat visits. Zero means "not supplied".
	Quantity float64

	PetNames []string
	Date     time.Time // calendar date for holiday lookup; zero = no lookup
}

// Result is the billable outcome for one segment.
type Result struct {
	Duration Duration
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// Calculate computes the semantic duration and payable amount for a segment.
// Re-running it with identical inputs yields an identical Result.
func (c *Calculator) Calculate(seg Segment, employee string, cctx CalcContext) (Result, error) {
	semantics, ok := seg.JobType.Semantics()
	if !ok {
		return Result{}, &RateError{Employee: employee, JobType: seg.JobType, Reason: ErrUnknownJobType}
	}

	rctx := ResolveContext{PetNames: cctx.PetNames, Date: cctx.Date}
	rate, err := c.resolver.Resolve(employee, seg.JobType, rctx)
	if err != nil {
		return Result{}, err
	}

	switch semantics {
	case SemanticsExactAmount:
		qty, err := requireQuantity(seg.JobType, cctx.Quantity)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Duration: Duration{Value: qty, Unit: UnitPLN},
			Rate:     rate,
			Amount:   qty.Mul(rate), // rate is fixed at 1
		}, nil

	case SemanticsPerKM:
		qty, err := requireQuantity(seg.JobType, cctx.Quantity)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Duration: Duration{Value: qty, Unit: UnitKilometers},
			Rate:     rate,
			Amount:   qty.Mul(rate),
		}, nil

	case SemanticsPerVisit:
		qty, err := defaultQuantity(seg.JobType, cctx.Quantity)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Duration: Duration{Value: qty, Unit: UnitVisits},
			Rate:     rate,
			Amount:   qty.Mul(rate),
		}, nil

	case SemanticsFlatRate:
		duration := Duration{Value: decimal.NewFromInt(1), Unit: UnitFlat}
		if seg.JobType == JobOvernightHotel {
			duration = Duration{Value: overnightHotelHours, Unit: UnitHours}
		}
		return Result{Duration: duration, Rate: rate, Amount: rate}, nil

	case SemanticsPerDay:
		if seg.End.Before(seg.Start) {
			return Result{}, &IntervalError{JobType: seg.JobType, Start: seg.Start, End: seg.End}
		}
		// A stay crossing zero midnights still counts as one day.
		days := calendarDaysBetween(seg.Start, seg.End)
		if days < 1 {
			days = 1
		}
		d := decimal.NewFromInt(int64(days))
		return Result{
			Duration: Duration{Value: d, Unit: UnitDays},
			Rate:     rate,
			Amount:   d.Mul(rate),
		}, nil

	default: // SemanticsHourly
		// Walks logged without an end time bill a standard hour.
		if seg.JobType == JobWalk && !seg.End.After(seg.Start) {
			one := decimal.NewFromInt(1)
			return Result{
				Duration: Duration{Value: one, Unit: UnitHours},
				Rate:     rate,
				Amount:   one.Mul(rate),
			}, nil
		}
		if !seg.End.After(seg.Start) {
			return Result{}, &IntervalError{JobType: seg.JobType, Start: seg.Start, End: seg.End}
		}
		hours := hoursBetween(seg.Start, seg.End)
		return Result{
			Duration: Duration{Value: hours, Unit: UnitHours},
			Rate:     rate,
			Amount:   hours.Mul(rate),
		}, nil
	}
}

// requireQuantity validates a mandatory positive quantity.
func requireQuantity(jt JobType, quantity float64) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, &QuantityError{JobType: jt, Quantity: quantity}
	}
	return decimal.NewFromFloat(quantity), nil
}

// defaultQuantity validates an optional quantity, defaulting to 1 when the
// caller supplied none. Negative values are still rejected.
func defaultQuantity(jt JobType, quantity float64) (decimal.Decimal, error) {
	if quantity < 0 {
		return decimal.Zero, &QuantityError{JobType: jt, Quantity: quantity}
	}
	if quantity == 0 {
		return decimal.NewFromInt(1), nil
	}
	return decimal.NewFromFloat(quantity), nil
}
