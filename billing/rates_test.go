package billing_test

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
// TEST SETUP
// =============================================================================

var (
	christmas = time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)
	ordinary  = time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
)

// testConfig is the production rate card plus a flagged holiday and one
// pet custom rate.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Holidays["2025-12-25"] = true
	cfg.PetRates["Luna"] = map[billing.JobType]decimal.Decimal{
		billing.JobWalk: decimal.NewFromInt(50),
	}
	return cfg
}

func resolve(t *testing.T, cfg *config.Config, employee string, jt billing.JobType, rctx billing.ResolveContext) decimal.Decimal {
	t.Helper()
	rate, err := billing.NewResolver(cfg).Resolve(employee, jt, rctx)
	require.NoError(t, err)
	return rate
}

// =============================================================================
// PRECEDENCE TESTS
// =============================================================================

func TestResolve_Deterministic(t *testing.T) {
	cfg := testConfig()
	rctx := billing.ResolveContext{PetNames: []string{"Luna"}, Date: christmas}

	first := resolve(t, cfg, "JEAN", billing.JobWalk, rctx)
	second := resolve(t, cfg, "JEAN", billing.JobWalk, rctx)

	assert.True(t, first.Equal(second), "identical inputs must yield identical rates")
}

func TestResolve_PetRateDominatesHoliday(t *testing.T) {
	// Luna has a contractual walk rate of 50. JEAN's standard walk rate is
	// 25 and his holiday walk rate is 30 - neither may win, even on a
	// flagged holiday.
	cfg := testConfig()

	rate := resolve(t, cfg, "JEAN", billing.JobWalk, billing.ResolveContext{
		PetNames: []string{"Luna"},
		Date:     christmas,
	})

	assert.True(t, rate.Equal(decimal.NewFromInt(50)), "pet custom rate must win, got %s", rate)
}

func TestResolve_PetRateAppliesToEveryEmployee(t *testing.T) {
	cfg := testConfig()

	for _, employee := range []string{"ROXANA", "ANKITA", "WERONIKA"} {
		rate := resolve(t, cfg, employee, billing.JobWalk, billing.ResolveContext{
			PetNames: []string{"Luna"},
		})
		assert.True(t, rate.Equal(decimal.NewFromInt(50)), "employee %s", employee)
	}
}

func TestResolve_HolidayBeforeStandard(t *testing.T) {
	cfg := testConfig()

	onHoliday := resolve(t, cfg, "ROXANA", billing.JobHotel, billing.ResolveContext{Date: christmas})
	offHoliday := resolve(t, cfg, "ROXANA", billing.JobHotel, billing.ResolveContext{Date: ordinary})

	assert.True(t, onHoliday.Equal(decimal.NewFromInt(30)), "holiday rate expected, got %s", onHoliday)
	assert.True(t, offHoliday.Equal(decimal.NewFromInt(25)), "standard rate expected, got %s", offHoliday)
}

func TestResolve_HolidayRateMissing_FallsBackToStandard(t *testing.T) {
	// ROXANA has no holiday walk rate configured.
	cfg := testConfig()

	rate := resolve(t, cfg, "ROXANA", billing.JobWalk, billing.ResolveContext{Date: christmas})

	assert.True(t, rate.Equal(decimal.NewFromInt(25)))
}

func TestResolve_OvernightHolidayFallback(t *testing.T) {
	// The general overnight holiday rate covers overnight_hotel when no
	// per-job override exists, and never touches overnight pet sitting.
	cfg := testConfig()

	hotel := resolve(t, cfg, "JEAN", billing.JobOvernightHotel, billing.ResolveContext{Date: christmas})
	sitting := resolve(t, cfg, "JEAN", billing.JobOvernightPetSitting, billing.ResolveContext{Date: christmas})

	assert.True(t, hotel.Equal(decimal.NewFromInt(100)), "overnight hotel holiday fallback, got %s", hotel)
	assert.True(t, sitting.Equal(decimal.NewFromInt(140)), "overnight pet sitting keeps its standard rate, got %s", sitting)
}

func TestResolve_PerJobHolidayRateBeatsOvernightFallback(t *testing.T) {
	cfg := testConfig()
	emp := cfg.Employees["JEAN"]
	emp.HolidayRates[billing.JobOvernightHotel] = decimal.NewFromInt(110)
	cfg.Employees["JEAN"] = emp

	rate := resolve(t, cfg, "JEAN", billing.JobOvernightHotel, billing.ResolveContext{Date: christmas})

	assert.True(t, rate.Equal(decimal.NewFromInt(110)))
}

func TestResolve_ExpenseAlwaysOne(t *testing.T) {
	// Exact-amount types short-circuit every other rule.
	cfg := testConfig()
	cfg.PetRates["Luna"][billing.JobExpense] = decimal.NewFromInt(999)

	rate := resolve(t, cfg, "JEAN", billing.JobExpense, billing.ResolveContext{
		PetNames: []string{"Luna"},
		Date:     christmas,
	})

	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestResolve_UmbrellaRemapsToHourlyVariant(t *testing.T) {
	cfg := testConfig()

	rate := resolve(t, cfg, "ANKITA", billing.JobPetSitting, billing.ResolveContext{})

	assert.True(t, rate.Equal(decimal.NewFromInt(20)), "ANKITA's special hourly sitting rate, got %s", rate)
}

func TestResolve_UmbrellaPetRateOnConcreteVariant(t *testing.T) {
	// A pet custom rate recorded under the concrete hourly variant applies
	// when the caller requests the umbrella type, because the remap runs
	// before the pet lookup.
	cfg := testConfig()
	cfg.PetRates["Rex"] = map[billing.JobType]decimal.Decimal{
		billing.JobPetSittingHourly: decimal.NewFromInt(22),
	}

	rate := resolve(t, cfg, "JEAN", billing.JobPetSitting, billing.ResolveContext{PetNames: []string{"Rex"}})

	assert.True(t, rate.Equal(decimal.NewFromInt(22)))
}

// =============================================================================
// FAILURE MODES
// =============================================================================

func TestResolve_UnknownEmployee(t *testing.T) {
	_, err := billing.NewResolver(testConfig()).Resolve("GHOST", billing.JobWalk, billing.ResolveContext{})

	assert.ErrorIs(t, err, billing.ErrUnknownEmployee)
	var rateErr *billing.RateError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "GHOST", rateErr.Employee)
}

func TestResolve_UnknownJobType(t *testing.T) {
	_, err := billing.NewResolver(testConfig()).Resolve("JEAN", billing.JobType("unicorn_grooming"), billing.ResolveContext{})

	assert.ErrorIs(t, err, billing.ErrUnknownJobType)
}

func TestResolve_JobTypeNotAvailable(t *testing.T) {
	// JEAN has no training rate; training is also restricted, but the
	// resolver only cares about the missing rate.
	_, err := billing.NewResolver(testConfig()).Resolve("JEAN", billing.JobTraining, billing.ResolveContext{})

	assert.ErrorIs(t, err, billing.ErrJobTypeNotAvailable)
}

func TestResolve_UmbrellaWithoutVariant(t *testing.T) {
	cfg := testConfig()
	cfg.Employees["CASUAL"] = config.Employee{
		Rates: map[billing.JobType]decimal.Decimal{
			billing.JobWalk: decimal.NewFromInt(25),
		},
	}

	_, err := billing.NewResolver(cfg).Resolve("CASUAL", billing.JobPetSitting, billing.ResolveContext{})

	assert.ErrorIs(t, err, billing.ErrJobTypeNotAvailable)
}
