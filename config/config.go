/*
Package config owns the billing configuration: employee rate cards, pet
custom rates, holiday dates, and job-type restrictions.

PURPOSE:
  The engine reads configuration through the billing.RateSource interface;
  this package supplies the production implementation. Configuration is an
  explicitly owned, injectable object - never ambient process globals - so
  tests substitute fixtures and the API layer hands each request a stable
  snapshot.

OWNERSHIP:
  Config is an immutable-by-convention snapshot. All mutation goes through
  Registry (registry.go), which guards the live copy and hands out deep
  copies for request-scoped reads.

SEE ALSO:
  - loader.go: YAML loading and the default seed
  - registry.go: Guarded owner + admin mutations
*/
package config

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloudtriquetra/citypets-employee-app/billing"
)

// dateLayout is the wire format for holiday dates.
const dateLayout = "2006-01-02"

// =============================================================================
// CONFIG SNAPSHOT
// =============================================================================

// Employee is one employee's configured rate card.
type Employee struct {
	Rates        map[billing.JobType]decimal.Decimal
	HolidayRates map[billing.JobType]decimal.Decimal

	// OvernightHolidayRate is the general overnight holiday override,
	// consulted for overnight_hotel only.
	OvernightHolidayRate *decimal.Decimal
}

// Config is a read-consistent snapshot of all billing configuration.
// It implements billing.RateSource.
type Config struct {
	Employees map[string]Employee
	PetRates  map[string]map[billing.JobType]decimal.Decimal
	Holidays  map[string]bool // keys are YYYY-MM-DD

	// Restrictions limits a job type to a set of employees. A job type
	// with no entry is available to everyone who has a rate for it.
	Restrictions map[billing.JobType][]string
}

func New() *Config {
	return &Config{
		Employees:    make(map[string]Employee),
		PetRates:     make(map[string]map[billing.JobType]decimal.Decimal),
		Holidays:     make(map[string]bool),
		Restrictions: make(map[billing.JobType][]string),
	}
}

// =============================================================================
// billing.RateSource IMPLEMENTATION
// =============================================================================

var _ billing.RateSource = (*Config)(nil)

func (c *Config) Employee(name string) (billing.EmployeeRates, bool) {
	emp, ok := c.Employees[name]
	if !ok {
		return billing.EmployeeRates{}, false
	}
	return billing.EmployeeRates{
		Rates:                emp.Rates,
		HolidayRates:         emp.HolidayRates,
		OvernightHolidayRate: emp.OvernightHolidayRate,
	}, true
}

func (c *Config) PetRate(petName string, jt billing.JobType) (decimal.Decimal, bool) {
	rates, ok := c.PetRates[petName]
	if !ok {
		return decimal.Zero, false
	}
	rate, ok := rates[jt]
	return rate, ok
}

func (c *Config) IsHoliday(date time.Time) bool {
	return c.Holidays[date.Format(dateLayout)]
}

// =============================================================================
// AVAILABILITY QUERIES - What can this employee log?
// =============================================================================

// JobTypesFor returns the job types an employee may select. Holiday
// override keys never appear here (they are applied automatically by date),
// transport_km is folded into the transport flow, expense is available to
// everyone, and the pet-sitting variants collapse into the umbrella type.
func (c *Config) JobTypesFor(employee string) ([]billing.JobType, error) {
	emp, ok := c.Employees[employee]
	if !ok {
		return nil, &billing.RateError{Employee: employee, Reason: billing.ErrUnknownEmployee}
	}

	available := make(map[billing.JobType]bool)
	hasSitting := false
	for jt := range emp.Rates {
		switch jt {
		case billing.JobTransportKM:
			// Selected implicitly via the transport flow.
		case billing.JobPetSittingHourly, billing.JobOvernightPetSitting:
			hasSitting = true
		default:
			available[jt] = true
		}
	}
	if hasSitting {
		available[billing.JobPetSitting] = true
	}
	available[billing.JobExpense] = true

	var result []billing.JobType
	for _, jt := range billing.AllJobTypes() {
		if available[jt] && c.allowedByRestrictions(employee, jt) {
			result = append(result, jt)
		}
	}
	return result, nil
}

// CanPerform reports whether an employee may log a given job type.
func (c *Config) CanPerform(employee string, jt billing.JobType) bool {
	emp, ok := c.Employees[employee]
	if !ok {
		return false
	}
	if jt == billing.JobExpense {
		return true
	}
	if jt == billing.JobPetSitting {
		_, ok := emp.Rates[billing.JobPetSittingHourly]
		return ok && c.allowedByRestrictions(employee, jt)
	}
	_, ok = emp.Rates[jt]
	return ok && c.allowedByRestrictions(employee, jt)
}

func (c *Config) allowedByRestrictions(employee string, jt billing.JobType) bool {
	allowed, restricted := c.Restrictions[jt]
	if !restricted {
		return true
	}
	for _, name := range allowed {
		if name == employee {
			return true
		}
	}
	return false
}

// EmployeeNames returns all configured employees, sorted.
func (c *Config) EmployeeNames() []string {
	names := make([]string, 0, len(c.Employees))
	for name := range c.Employees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HolidayDates returns all flagged dates, sorted.
func (c *Config) HolidayDates() []string {
	dates := make([]string, 0, len(c.Holidays))
	for d := range c.Holidays {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// =============================================================================
// DEEP COPY - Snapshot support for the registry
// =============================================================================

// Clone returns an independent deep copy.
func (c *Config) Clone() *Config {
	out := New()
	for name, emp := range c.Employees {
		out.Employees[name] = emp.clone()
	}
	for pet, rates := range c.PetRates {
		out.PetRates[pet] = cloneRates(rates)
	}
	for d := range c.Holidays {
		out.Holidays[d] = true
	}
	for jt, names := range c.Restrictions {
		out.Restrictions[jt] = append([]string(nil), names...)
	}
	return out
}

func (e Employee) clone() Employee {
	out := Employee{
		Rates:        cloneRates(e.Rates),
		HolidayRates: cloneRates(e.HolidayRates),
	}
	if e.OvernightHolidayRate != nil {
		v := *e.OvernightHolidayRate
		out.OvernightHolidayRate = &v
	}
	return out
}

func cloneRates(in map[billing.JobType]decimal.Decimal) map[billing.JobType]decimal.Decimal {
	if in == nil {
		return nil
	}
	out := make(map[billing.JobType]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
