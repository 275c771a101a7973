/*
rates.go - Rate resolution with fixed precedence

PURPOSE:
  Answers "what is the per-unit rate for this employee doing this job?",
  honoring pet-specific contracts and holiday pricing. Configuration is
  injected through the RateSource interface so tests substitute fixtures
  without touching shared state.

PRECEDENCE (first match wins):
  1. Exact-amount job types (expense) -> multiplier 1. The caller supplies
     the amount directly as the quantity.
  2. The umbrella "pet_sitting" type remaps to the employee's concrete
     hourly variant before any further lookup.
  3. Pet custom rate. Tied to the animal, not the worker: applies to every
     employee and ignores holiday status.
  4. Holiday override, only when the date is flagged. Per-job holiday rate
     first; for overnight_hotel specifically, the employee's general
     overnight holiday rate is consulted as a fallback.
  5. Standard employee rate.

  Pet rates dominate holiday pricing because they are a contractual
  exception; holiday pricing is blanket operational policy and only
  dominates the everyday rate.

SEE ALSO:
  - calculator.go: The only in-package caller
  - config package: Production RateSource implementation
*/
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE SOURCE - Injected configuration, owned elsewhere
// =============================================================================

// EmployeeRates is the read-only rate card for one employee.
type EmployeeRates struct {
	// Rates maps job type to the standard rate.
	Rates map[JobType]decimal.Decimal

	// HolidayRates maps job type to the override used on flagged dates.
	// Only hotel, walk and overnight_hotel carry holiday overrides in
	// practice, but the resolver does not enforce that set.
	HolidayRates map[JobType]decimal.Decimal

	// OvernightHolidayRate is the general overnight override some
	// configurations carry instead of a per-job overnight holiday rate.
	// Consulted only for overnight_hotel, after HolidayRates.
	OvernightHolidayRate *decimal.Decimal
}

// HasJobType reports whether the employee has a standard rate for jt.
func (er EmployeeRates) HasJobType(jt JobType) bool {
	_, ok := er.Rates[jt]
	return ok
}

// RateSource supplies the configuration the resolver reads. Implementations
// must be read-consistent for the duration of one resolve/segment/calculate
// call chain; the engine takes no snapshot of its own.
type RateSource interface {
	// Employee returns the rate card for a configured employee.
	Employee(name string) (EmployeeRates, bool)

	// PetRate returns the custom rate for a pet/job-type pair, if any.
	// Pet custom rates apply identically to every employee.
	PetRate(petName string, jt JobType) (decimal.Decimal, bool)

	// IsHoliday reports whether the calendar date (time of day ignored)
	// is flagged as a holiday.
	IsHoliday(date time.Time) bool
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver resolves billable rates against an injected RateSource.
// It is stateless and safe for concurrent use if the source is.
type Resolver struct {
	source RateSource
}

func NewResolver(source RateSource) *Resolver {
	return &Resolver{source: source}
}

// ResolveContext carries the optional inputs of a rate lookup.
type ResolveContext struct {
	PetNames []string
	Date     time.Time // zero value disables the holiday check
}

// Resolve returns the single numeric rate for employee/jobType under the
// fixed precedence order. Deterministic and pure over its inputs plus the
// source's current snapshot.
func (r *Resolver) Resolve(employee string, jobType JobType, rctx ResolveContext) (decimal.Decimal, error) {
	if !jobType.IsKnown() {
		return decimal.Zero, &RateError{Employee: employee, JobType: jobType, Reason: ErrUnknownJobType}
	}

	card, ok := r.source.Employee(employee)
	if !ok {
		return decimal.Zero, &RateError{Employee: employee, JobType: jobType, Reason: ErrUnknownEmployee}
	}

	// 1. Exact-amount types bill the quantity directly; the rate is a
	// fixed multiplier of 1 regardless of any other rule.
	if s, _ := jobType.Semantics(); s == SemanticsExactAmount {
		return decimal.NewFromInt(1), nil
	}

	// 2. The umbrella type is never billable itself. Remap to the
	// employee's concrete hourly variant before any lookup.
	if jobType == JobPetSitting {
		if !card.HasJobType(JobPetSittingHourly) {
			return decimal.Zero, &RateError{Employee: employee, JobType: jobType, Reason: ErrJobTypeNotAvailable}
		}
		jobType = JobPetSittingHourly
	}

	// 3. Pet custom rates dominate everything below, for every employee.
	for _, pet := range rctx.PetNames {
		if rate, ok := r.source.PetRate(pet, jobType); ok {
			return rate, nil
		}
	}

	// 4. Holiday override.
	if !rctx.Date.IsZero() && r.source.IsHoliday(rctx.Date) {
		if rate, ok := card.HolidayRates[jobType]; ok {
			return rate, nil
		}
		if jobType == JobOvernightHotel && card.OvernightHolidayRate != nil {
			return *card.OvernightHolidayRate, nil
		}
	}

	// 5. Standard rate.
	rate, ok := card.Rates[jobType]
	if !ok {
		return decimal.Zero, &RateError{Employee: employee, JobType: jobType, Reason: ErrJobTypeNotAvailable}
	}
	return rate, nil
}
