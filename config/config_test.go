package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudtriquetra/citypets-employee-app/billing"
	"github.com/cloudtriquetra/citypets-employee-app/config"
)

// =============================================================================
// YAML LOADING
// =============================================================================

const sampleYAML = `
employees:
  ROXANA:
    rates:
      hotel: 25
      walk: 25
      pet_sitting_hourly: 17
    holiday_rates:
      hotel: 30
    overnight_holiday_rate: 100
pet_rates:
  Luna:
    walk: 50
holidays:
  - 2025-12-25
  - 2026-01-01
restrictions:
  training: [WERONIKA]
`

func TestParse_SampleConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	emp, ok := cfg.Employees["ROXANA"]
	require.True(t, ok)
	assert.True(t, emp.Rates[billing.JobHotel].Equal(decimal.NewFromInt(25)))
	assert.True(t, emp.HolidayRates[billing.JobHotel].Equal(decimal.NewFromInt(30)))
	require.NotNil(t, emp.OvernightHolidayRate)
	assert.True(t, emp.OvernightHolidayRate.Equal(decimal.NewFromInt(100)))

	rate, ok := cfg.PetRate("Luna", billing.JobWalk)
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(50)))

	assert.True(t, cfg.IsHoliday(time.Date(2025, time.December, 25, 14, 0, 0, 0, time.UTC)))
	assert.False(t, cfg.IsHoliday(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, []string{"WERONIKA"}, cfg.Restrictions[billing.JobTraining])
}

func TestParse_RejectsUnknownJobType(t *testing.T) {
	_, err := config.Parse([]byte("employees:\n  A:\n    rates:\n      grooming: 10\n"))
	assert.ErrorContains(t, err, "unknown job type")
}

func TestParse_RejectsBadHolidayDate(t *testing.T) {
	_, err := config.Parse([]byte("holidays:\n  - 25.12.2025\n"))
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

// =============================================================================
// DEFAULT SEED
// =============================================================================

func TestDefault_RateCard(t *testing.T) {
	cfg := config.Default()

	// Standard vs senior day rates.
	assert.True(t, cfg.Employees["JEAN"].Rates[billing.JobWalk].Equal(decimal.NewFromInt(25)))
	assert.True(t, cfg.Employees["ANKITA"].Rates[billing.JobWalk].Equal(decimal.NewFromInt(28)))
	assert.True(t, cfg.Employees["ANKITA"].HolidayRates[billing.JobWalk].Equal(decimal.NewFromInt(32)))

	// ROXANA's walk holiday rate is intentionally absent.
	_, hasWalkHoliday := cfg.Employees["ROXANA"].HolidayRates[billing.JobWalk]
	assert.False(t, hasWalkHoliday)

	// Transport pricing differs per driver.
	assert.True(t, cfg.Employees["OGUZ"].Rates[billing.JobTransportKM].Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, cfg.Employees["WERONIKA"].Rates[billing.JobTransportKM].Equal(decimal.NewFromFloat(1.15)))

	assert.Len(t, cfg.EmployeeNames(), 13)
}

// =============================================================================
// AVAILABILITY
// =============================================================================

func TestJobTypesFor_CollapsesSittingAndHidesKM(t *testing.T) {
	cfg := config.Default()

	types, err := cfg.JobTypesFor("WERONIKA")
	require.NoError(t, err)

	set := make(map[billing.JobType]bool)
	for _, jt := range types {
		set[jt] = true
	}
	assert.True(t, set[billing.JobPetSitting], "umbrella type offered")
	assert.False(t, set[billing.JobPetSittingHourly], "variant hidden behind the umbrella")
	assert.False(t, set[billing.JobOvernightPetSitting], "variant hidden behind the umbrella")
	assert.False(t, set[billing.JobTransportKM], "km folded into the transport flow")
	assert.True(t, set[billing.JobExpense], "expense available to everyone")
	assert.True(t, set[billing.JobTraining], "WERONIKA passes the restriction")
}

func TestJobTypesFor_RestrictionFiltersOthers(t *testing.T) {
	cfg := config.Default()
	cfg.Employees["JEAN"].Rates[billing.JobTraining] = decimal.NewFromInt(100)

	types, err := cfg.JobTypesFor("JEAN")
	require.NoError(t, err)

	for _, jt := range types {
		assert.NotEqual(t, billing.JobTraining, jt, "training is restricted to WERONIKA")
	}
}

func TestJobTypesFor_UnknownEmployee(t *testing.T) {
	_, err := config.Default().JobTypesFor("GHOST")
	assert.ErrorIs(t, err, billing.ErrUnknownEmployee)
}

func TestCanPerform(t *testing.T) {
	cfg := config.Default()

	assert.True(t, cfg.CanPerform("JEAN", billing.JobWalk))
	assert.True(t, cfg.CanPerform("JEAN", billing.JobPetSitting))
	assert.True(t, cfg.CanPerform("JEAN", billing.JobExpense))
	assert.False(t, cfg.CanPerform("JEAN", billing.JobTraining))
	assert.True(t, cfg.CanPerform("WERONIKA", billing.JobTraining))
	assert.False(t, cfg.CanPerform("GHOST", billing.JobWalk))
}

// =============================================================================
// SNAPSHOT SEMANTICS
// =============================================================================

func TestClone_Independent(t *testing.T) {
	cfg := config.Default()
	cfg.Holidays["2025-12-25"] = true

	clone := cfg.Clone()
	clone.Employees["JEAN"].Rates[billing.JobWalk] = decimal.NewFromInt(999)
	delete(clone.Holidays, "2025-12-25")
	clone.Restrictions[billing.JobTraining] = append(clone.Restrictions[billing.JobTraining], "JEAN")

	assert.True(t, cfg.Employees["JEAN"].Rates[billing.JobWalk].Equal(decimal.NewFromInt(25)),
		"mutating the clone must not touch the original")
	assert.True(t, cfg.Holidays["2025-12-25"])
	assert.Equal(t, []string{"WERONIKA"}, cfg.Restrictions[billing.JobTraining])
}
