/*
Package billing provides the core timesheet billing engine.

PURPOSE:
  This package contains the pure computation core of the CityPets timesheet
  system: given a raw work interval (employee, job type, start/end, optional
  quantity and pet names), decide how the interval splits into billable
  segments and what each segment costs. Everything around it (HTTP API,
  persistence, configuration files) is orchestration.

KEY CONCEPTS IN THIS FILE (types.go):
  - JobType: A closed enum of billable work kinds (hotel, walk, ...)
  - UnitSemantics: How a job type is billed (hourly, flat, per-day, ...)
  - Segment: A typed, contiguous sub-interval of a work interval
  - WorkInterval: The raw input unit, never mutated
  - Duration: A quantity with a display unit (hours, days, visits, ...)

DESIGN PRINCIPLES:
  1. Purity: No I/O, no shared mutable state, no clock reads
  2. Precision: Uses decimal.Decimal to avoid floating-point money errors
  3. Closed tables: The job-type/unit-semantics mapping is fixed in code
  4. Immutability: WorkInterval in, fresh Segments out

SEE ALSO:
  - rates.go: Rate resolution with precedence rules
  - segmenter.go: Interval splitting policies
  - calculator.go: Duration and amount computation
*/
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// JOB TYPES - Closed enum of billable work kinds
// =============================================================================

type JobType string

const (
	JobHotel               JobType = "hotel"
	JobWalk                JobType = "walk"
	JobOvernightHotel      JobType = "overnight_hotel"
	JobExpense             JobType = "expense"
	JobCatVisit            JobType = "cat_visit"
	JobPetSittingHourly    JobType = "pet_sitting_hourly"
	JobPetSitting          JobType = "pet_sitting" // umbrella type, see segmenter.go
	JobOvernightPetSitting JobType = "overnight_pet_sitting"
	JobDogAtHome           JobType = "dog_at_home"
	JobCatAtHome           JobType = "cat_at_home"
	JobManagement          JobType = "management"
	JobTransport           JobType = "transport"
	JobTransportKM         JobType = "transport_km"
	JobTraining            JobType = "training"
	JobHouseholdWork       JobType = "household_work"
)

// =============================================================================
// UNIT SEMANTICS - How each job type converts time/quantity into money
// =============================================================================

type UnitSemantics string

const (
	SemanticsHourly      UnitSemantics = "hourly"       // hours x rate
	SemanticsFlatRate    UnitSemantics = "flat_rate"    // rate, regardless of elapsed time
	SemanticsPerDay      UnitSemantics = "per_day"      // calendar days x rate
	SemanticsPerVisit    UnitSemantics = "per_visit"    // visit count x rate
	SemanticsPerKM       UnitSemantics = "per_km"       // kilometers x rate
	SemanticsExactAmount UnitSemantics = "exact_amount" // caller supplies the amount
)

// semanticsByJobType is the closed billing table. It is intentionally NOT
// configurable: the Calculator depends on this mapping absolutely, and an
// admin changing it at runtime would silently re-price historical entries.
var semanticsByJobType = map[JobType]UnitSemantics{
	JobHotel:               SemanticsHourly,
	JobWalk:                SemanticsHourly,
	JobOvernightHotel:      SemanticsFlatRate,
	JobExpense:             SemanticsExactAmount,
	JobCatVisit:            SemanticsPerVisit,
	JobPetSittingHourly:    SemanticsHourly,
	JobPetSitting:          SemanticsHourly, // umbrella resolves to the hourly variant
	JobOvernightPetSitting: SemanticsFlatRate,
	JobDogAtHome:           SemanticsPerDay,
	JobCatAtHome:           SemanticsPerDay,
	JobManagement:          SemanticsHourly,
	JobTransport:           SemanticsHourly,
	JobTransportKM:         SemanticsPerKM,
	JobTraining:            SemanticsHourly,
	JobHouseholdWork:       SemanticsHourly,
}

// jobTypeNames provides display names for the closed enum.
var jobTypeNames = map[JobType]string{
	JobHotel:               "Hotel (Hours)",
	JobWalk:                "Walk (Hours)",
	JobOvernightHotel:      "Overnight Hotel",
	JobExpense:             "Expense (PLN)",
	JobCatVisit:            "Cat Visit",
	JobPetSittingHourly:    "Pet Sitting Hourly",
	JobPetSitting:          "Pet Sitting",
	JobOvernightPetSitting: "Overnight Pet Sitting",
	JobDogAtHome:           "dog@home",
	JobCatAtHome:           "cat@home",
	JobManagement:          "management",
	JobTransport:           "Transport (Hours)",
	JobTransportKM:         "Transport KM",
	JobTraining:            "Training (Hours)",
	JobHouseholdWork:       "Household Work (Hours)",
}

// Semantics returns the billing semantics for a job type.
// The second return is false for keys outside the closed enum.
func (jt JobType) Semantics() (UnitSemantics, bool) {
	s, ok := semanticsByJobType[jt]
	return s, ok
}

// IsKnown reports whether jt is part of the closed job-type table.
func (jt JobType) IsKnown() bool {
	_, ok := semanticsByJobType[jt]
	return ok
}

// IsFlatRate reports whether jt bills a fixed amount per occurrence.
// Flat-rate types are the only ones allowed to carry degenerate intervals
// (the amount does not depend on elapsed time).
func (jt JobType) IsFlatRate() bool {
	s, ok := semanticsByJobType[jt]
	return ok && s == SemanticsFlatRate
}

// DisplayName returns the human-facing name of a job type.
func (jt JobType) DisplayName() string {
	if name, ok := jobTypeNames[jt]; ok {
		return name
	}
	return string(jt)
}

// AllJobTypes returns the closed enum in a stable order.
func AllJobTypes() []JobType {
	return []JobType{
		JobHotel, JobWalk, JobOvernightHotel, JobExpense, JobCatVisit,
		JobPetSittingHourly, JobPetSitting, JobOvernightPetSitting,
		JobDogAtHome, JobCatAtHome, JobManagement, JobTransport,
		JobTransportKM, JobTraining, JobHouseholdWork,
	}
}

// =============================================================================
// DURATION - Semantic quantity with a display unit
// =============================================================================

type DurationUnit string

const (
	UnitHours      DurationUnit = "hours"
	UnitDays       DurationUnit = "days"
	UnitVisits     DurationUnit = "visits"
	UnitKilometers DurationUnit = "km"
	UnitFlat       DurationUnit = "flat"
	UnitPLN        DurationUnit = "pln"
)

// Duration is the semantic "how much work" of a segment: 3.5 hours,
// 2 days, 12 km, or an exact amount for expenses.
type Duration struct {
	Value decimal.Decimal
	Unit  DurationUnit
}

func NewDuration(value float64, unit DurationUnit) Duration {
	return Duration{Value: decimal.NewFromFloat(value), Unit: unit}
}

// hoursBetween converts an elapsed interval to decimal hours with second
// precision (decimal division avoids float drift on odd intervals).
func hoursBetween(start, end time.Time) decimal.Decimal {
	seconds := end.Sub(start) / time.Second
	return decimal.NewFromInt(int64(seconds)).Div(decimal.NewFromInt(3600))
}

// calendarDaysBetween returns the difference in calendar dates, ignoring
// time of day. day1 08:00 -> day3 09:00 is 2, not ceil(49h/24h).
func calendarDaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// =============================================================================
// SEGMENT - Typed sub-interval produced by the segmenter
// =============================================================================

// Segment is a pure value object: one typed, contiguous piece of a work
// interval. The job type may differ from what the caller requested (e.g. a
// long pet-sitting shift upgraded to overnight); Note says why.
type Segment struct {
	JobType JobType
	Start   time.Time
	End     time.Time
	Note    string
}

// =============================================================================
// WORK INTERVAL - Raw input unit
// =============================================================================

// WorkInterval is what the presentation layer hands to the engine.
// It is consumed, never mutated.
type WorkInterval struct {
	Employee string
	JobType  JobType
	Start    time.Time
	End      time.Time

	// Quantity carries the non-time dimension: PLN for expenses, km for
	// transport, visit count for cat visits. Zero means "not supplied";
	// quantity-driven job types reject that, the rest default to 1.
	Quantity float64

	PetNames    []string
	Date        time.Time // calendar date for holiday lookup; zero = no lookup
	Description string
}
