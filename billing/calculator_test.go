package billing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloudtriquetra/citypets-employee-app/billing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func calc(t *testing.T, seg billing.Segment, employee string, cctx billing.CalcContext) billing.Result {
	t.Helper()
	result, err := billing.NewCalculator(testConfig()).Calculate(seg, employee, cctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func wantAmount(t *testing.T, r billing.Result, amount float64) {
	t.Helper()
	if !r.Amount.Equal(decimal.NewFromFloat(amount)) {
		t.Errorf("amount: got %s, want %v", r.Amount, amount)
	}
}

func wantDuration(t *testing.T, r billing.Result, value float64, unit billing.DurationUnit) {
	t.Helper()
	if !r.Duration.Value.Equal(decimal.NewFromFloat(value)) {
		t.Errorf("duration: got %s, want %v", r.Duration.Value, value)
	}
	if r.Duration.Unit != unit {
		t.Errorf("duration unit: got %s, want %s", r.Duration.Unit, unit)
	}
}

// =============================================================================
// HOURLY
// =============================================================================

func TestCalculate_Hourly_Hotel(t *testing.T) {
	r := calc(t, billing.Segment{
		JobType: billing.JobHotel,
		Start:   at(1, 9, 0),
		End:     at(1, 13, 30),
	}, "ROXANA", billing.CalcContext{})

	wantDuration(t, r, 4.5, billing.UnitHours)
	wantAmount(t, r, 112.5) // 4.5h x 25
}

func TestCalculate_Hourly_KeepsSubMinutePrecision(t *testing.T) {
	// 90 elapsed seconds is 0.025h; the odd half minute must not be
	// truncated away.
	r := calc(t, billing.Segment{
		JobType: billing.JobHotel,
		Start:   time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2025, time.March, 1, 10, 1, 30, 0, time.UTC),
	}, "ROXANA", billing.CalcContext{})

	wantDuration(t, r, 0.025, billing.UnitHours)
	wantAmount(t, r, 0.625) // 0.025h x 25
}

func TestCalculate_Walk_EqualEndDefaultsToOneHour(t *testing.T) {
	r := calc(t, billing.Segment{
		JobType: billing.JobWalk,
		Start:   at(1, 9, 0),
		End:     at(1, 9, 0),
	}, "JEAN", billing.CalcContext{})

	wantDuration(t, r, 1, billing.UnitHours)
	wantAmount(t, r, 25)
}

func TestCalculate_Walk_NoEndTime_DefaultsToOneHour(t *testing.T) {
	r := calc(t, billing.Segment{
		JobType: billing.JobWalk,
		Start:   at(1, 9, 0),
	}, "JEAN", billing.CalcContext{})

	wantDuration(t, r, 1, billing.UnitHours)
	wantAmount(t, r, 25)
}

func TestCalculate_Hourly_HolidayRateApplied(t *testing.T) {
	r := calc(t, billing.Segment{
		JobType: billing.JobHotel,
		Start:   at(1, 9, 0),
		End:     at(1, 11, 0),
	}, "ROXANA", billing.CalcContext{Date: christmas})

	wantAmount(t, r, 60) // 2h x holiday rate 30
}

func TestCalculate_Hourly_InvalidInterval(t *testing.T) {
	_, err := billing.NewCalculator(testConfig()).Calculate(billing.Segment{
		JobType: billing.JobHotel,
		Start:   at(1, 9, 0),
		End:     at(1, 9, 0),
	}, "ROXANA", billing.CalcContext{})

	if !errors.Is(err, billing.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

// =============================================================================
// FLAT RATE
// =============================================================================

func TestCalculate_OvernightHotel_TwelveHoursFlat(t *testing.T) {
	// Overnight hotel credits 12 hours of duration and bills the flat
	// rate unmultiplied, whatever the actual interval was.
	r := calc(t, billing.Segment{
		JobType: billing.JobOvernightHotel,
		Start:   at(1, 20, 0),
		End:     at(2, 8, 0),
	}, "ROXANA", billing.CalcContext{})

	wantDuration(t, r, 12, billing.UnitHours)
	wantAmount(t, r, 90)
}

func TestCalculate_OvernightPetSitting_FlatUnit(t *testing.T) {
	r := calc(t, billing.Segment{
		JobType: billing.JobOvernightPetSitting,
		Start:   at(1, 10, 0),
		End:     at(2, 10, 0),
	}, "ROXANA", billing.CalcContext{})

	wantDuration(t, r, 1, billing.UnitFlat)
	wantAmount(t, r, 140)
}

// =============================================================================
// PER DAY
// =============================================================================

func TestCalculate_DogAtHome_CalendarDateDifference(t *testing.T) {
	// GIVEN: dog@home from day 1 08:00 to day 3 09:00 (49 elapsed hours)
	// THEN: days = 2 (calendar-date difference, not ceil of hours)

	r := calc(t, billing.Segment{
		JobType: billing.JobDogAtHome,
		Start:   at(1, 8, 0),
		End:     at(3, 9, 0),
	}, "JEAN", billing.CalcContext{})

	wantDuration(t, r, 2, billing.UnitDays)
	wantAmount(t, r, 150) // 2 x 75
}

func TestCalculate_CatAtHome_SameDay_MinimumOneDay(t *testing.T) {
	// A stay crossing zero midnights still counts as one day.
	r := calc(t, billing.Segment{
		JobType: billing.JobCatAtHome,
		Start:   at(1, 8, 0),
		End:     at(1, 19, 0),
	}, "JEAN", billing.CalcContext{})

	wantDuration(t, r, 1, billing.UnitDays)
	wantAmount(t, r, 25)
}

// =============================================================================
// QUANTITY-DRIVEN
// =============================================================================

func TestCalculate_Expense_ExactAmount(t *testing.T) {
	r := calc(t, billing.Segment{JobType: billing.JobExpense},
		"JEAN", billing.CalcContext{Quantity: 123.45})

	wantDuration(t, r, 123.45, billing.UnitPLN)
	wantAmount(t, r, 123.45)
}

func TestCalculate_TransportKM(t *testing.T) {
	r := calc(t, billing.Segment{JobType: billing.JobTransportKM},
		"OGUZ", billing.CalcContext{Quantity: 10})

	wantDuration(t, r, 10, billing.UnitKilometers)
	wantAmount(t, r, 15) // 10km x 1.5
}

func TestCalculate_CatVisit_DefaultsToOneVisit(t *testing.T) {
	r := calc(t, billing.Segment{JobType: billing.JobCatVisit},
		"JEAN", billing.CalcContext{})

	wantDuration(t, r, 1, billing.UnitVisits)
	wantAmount(t, r, 30)
}

func TestCalculate_CatVisit_MultipleVisits(t *testing.T) {
	r := calc(t, billing.Segment{JobType: billing.JobCatVisit},
		"JEAN", billing.CalcContext{Quantity: 3})

	wantAmount(t, r, 90)
}

func TestCalculate_InvalidQuantity(t *testing.T) {
	calculator := billing.NewCalculator(testConfig())

	cases := []struct {
		name     string
		jobType  billing.JobType
		quantity float64
	}{
		{"expense missing amount", billing.JobExpense, 0},
		{"expense negative", billing.JobExpense, -5},
		{"km missing", billing.JobTransportKM, 0},
		{"visits negative", billing.JobCatVisit, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calculator.Calculate(billing.Segment{JobType: tc.jobType},
				"OGUZ", billing.CalcContext{Quantity: tc.quantity})
			if !errors.Is(err, billing.ErrInvalidQuantity) {
				t.Errorf("expected ErrInvalidQuantity, got %v", err)
			}
		})
	}
}

// =============================================================================
// PURITY
// =============================================================================

func TestCalculate_Idempotent(t *testing.T) {
	// Re-running the calculator on an already-produced segment with the
	// same context yields the same result.
	seg := billing.Segment{
		JobType: billing.JobHotel,
		Start:   at(1, 9, 0),
		End:     at(1, 17, 0),
	}
	cctx := billing.CalcContext{Date: christmas, PetNames: []string{"Luna"}}

	first := calc(t, seg, "ROXANA", cctx)
	second := calc(t, seg, "ROXANA", cctx)

	if !first.Amount.Equal(second.Amount) || !first.Duration.Value.Equal(second.Duration.Value) {
		t.Errorf("calculator is not idempotent: %+v vs %+v", first, second)
	}
}

func TestCalculate_PropagatesResolverFailure(t *testing.T) {
	_, err := billing.NewCalculator(testConfig()).Calculate(billing.Segment{
		JobType: billing.JobWalk,
		Start:   at(1, 9, 0),
		End:     at(1, 10, 0),
	}, "GHOST", billing.CalcContext{})

	if !errors.Is(err, billing.ErrUnknownEmployee) {
		t.Errorf("expected ErrUnknownEmployee, got %v", err)
	}
}
