/*
registry.go - Guarded owner of the live configuration

PURPOSE:
  The engine needs configuration that is read-consistent for the duration
  of one resolve/segment/calculate chain. Registry owns the live Config
  behind an RWMutex: request handlers take Snapshot() (a deep copy) and run
  the whole chain against it; admin mutations swap state under the write
  lock and optionally notify a persistence hook.

MUTATIONS:
  Mirror the original admin surface: employee on/offboarding, per-job rate
  updates, pet custom rates, holiday dates, and job-type restrictions.
*/
package config

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cloudtriquetra/citypets-employee-app/billing"
)

// Registry guards the live Config.
type Registry struct {
	mu  sync.RWMutex
	cfg *Config

	// onChange, when set, receives a snapshot after every mutation.
	// Used by the server to persist configuration.
	onChange func(*Config)
}

func NewRegistry(cfg *Config) *Registry {
	if cfg == nil {
		cfg = New()
	}
	return &Registry{cfg: cfg}
}

// OnChange registers a persistence hook. Called outside the lock with a
// snapshot, so the hook may do I/O.
func (r *Registry) OnChange(fn func(*Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Snapshot returns a deep copy for request-scoped reads.
func (r *Registry) Snapshot() *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.Clone()
}

// mutate runs fn under the write lock and fires the persistence hook.
func (r *Registry) mutate(fn func(*Config) error) error {
	r.mu.Lock()
	err := fn(r.cfg)
	var snapshot *Config
	hook := r.onChange
	if err == nil && hook != nil {
		snapshot = r.cfg.Clone()
	}
	r.mu.Unlock()

	if err == nil && hook != nil {
		hook(snapshot)
	}
	return err
}

// =============================================================================
// EMPLOYEE MUTATIONS
// =============================================================================

// AddEmployee onboards an employee with the standard rate template.
func (r *Registry) AddEmployee(name string) error {
	return r.mutate(func(c *Config) error {
		if _, exists := c.Employees[name]; !exists {
			c.Employees[name] = standardCard(25, 30)
		}
		return nil
	})
}

// RemoveEmployee offboards an employee.
func (r *Registry) RemoveEmployee(name string) error {
	return r.mutate(func(c *Config) error {
		if _, ok := c.Employees[name]; !ok {
			return &billing.RateError{Employee: name, Reason: billing.ErrUnknownEmployee}
		}
		delete(c.Employees, name)
		return nil
	})
}

// SetEmployeeRate updates one standard rate. The expense multiplier is
// fixed at 1 and never stored.
func (r *Registry) SetEmployeeRate(name string, jt billing.JobType, rate decimal.Decimal) error {
	return r.mutate(func(c *Config) error {
		if !jt.IsKnown() {
			return &billing.RateError{Employee: name, JobType: jt, Reason: billing.ErrUnknownJobType}
		}
		emp, ok := c.Employees[name]
		if !ok {
			return &billing.RateError{Employee: name, JobType: jt, Reason: billing.ErrUnknownEmployee}
		}
		if jt == billing.JobExpense {
			return nil
		}
		if emp.Rates == nil {
			emp.Rates = make(map[billing.JobType]decimal.Decimal)
		}
		emp.Rates[jt] = rate
		c.Employees[name] = emp
		return nil
	})
}

// SetHolidayRate updates one holiday override rate.
func (r *Registry) SetHolidayRate(name string, jt billing.JobType, rate decimal.Decimal) error {
	return r.mutate(func(c *Config) error {
		if !jt.IsKnown() {
			return &billing.RateError{Employee: name, JobType: jt, Reason: billing.ErrUnknownJobType}
		}
		emp, ok := c.Employees[name]
		if !ok {
			return &billing.RateError{Employee: name, JobType: jt, Reason: billing.ErrUnknownEmployee}
		}
		if emp.HolidayRates == nil {
			emp.HolidayRates = make(map[billing.JobType]decimal.Decimal)
		}
		emp.HolidayRates[jt] = rate
		c.Employees[name] = emp
		return nil
	})
}

// =============================================================================
// PET RATE MUTATIONS
// =============================================================================

// SetPetRate records a custom rate for a pet/job pair. Applies to all
// employees.
func (r *Registry) SetPetRate(pet string, jt billing.JobType, rate decimal.Decimal) error {
	return r.mutate(func(c *Config) error {
		if !jt.IsKnown() {
			return &billing.RateError{JobType: jt, Reason: billing.ErrUnknownJobType}
		}
		if c.PetRates[pet] == nil {
			c.PetRates[pet] = make(map[billing.JobType]decimal.Decimal)
		}
		c.PetRates[pet][jt] = rate
		return nil
	})
}

// RemovePetRate deletes a custom rate, cleaning up empty pet entries.
func (r *Registry) RemovePetRate(pet string, jt billing.JobType) error {
	return r.mutate(func(c *Config) error {
		rates, ok := c.PetRates[pet]
		if !ok {
			return nil
		}
		delete(rates, jt)
		if len(rates) == 0 {
			delete(c.PetRates, pet)
		}
		return nil
	})
}

// =============================================================================
// HOLIDAY AND RESTRICTION MUTATIONS
// =============================================================================

// AddHoliday flags a YYYY-MM-DD date as a holiday.
func (r *Registry) AddHoliday(date string) error {
	return r.mutate(func(c *Config) error {
		c.Holidays[date] = true
		return nil
	})
}

// RemoveHoliday unflags a date.
func (r *Registry) RemoveHoliday(date string) error {
	return r.mutate(func(c *Config) error {
		delete(c.Holidays, date)
		return nil
	})
}

// SetRestriction limits a job type to the given employees. An empty list
// removes the restriction (available to all).
func (r *Registry) SetRestriction(jt billing.JobType, employees []string) error {
	return r.mutate(func(c *Config) error {
		if !jt.IsKnown() {
			return &billing.RateError{JobType: jt, Reason: billing.ErrUnknownJobType}
		}
		if len(employees) == 0 {
			delete(c.Restrictions, jt)
			return nil
		}
		c.Restrictions[jt] = append([]string(nil), employees...)
		return nil
	})
}
