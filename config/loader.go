/*
loader.go - YAML configuration loading and the default seed

PURPOSE:
  Reads a Config from a YAML file so rate changes do not require code
  changes, and provides Default(), the rate card the company actually runs
  on, used when no file is supplied and as the fixture base in tests.

YAML SCHEMA:
  employees:
    ROXANA:
      rates:
        hotel: 25
        walk: 25
      holiday_rates:
        hotel: 30
      overnight_holiday_rate: 100
  pet_rates:
    Luna:
      walk: 50
  holidays:
    - 2025-12-25
  restrictions:
    training: [WERONIKA]
*/
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cloudtriquetra/citypets-employee-app/billing"
)

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

type fileConfig struct {
	Employees    map[string]fileEmployee       `yaml:"employees"`
	PetRates     map[string]map[string]float64 `yaml:"pet_rates"`
	Holidays     []string                      `yaml:"holidays"`
	Restrictions map[string][]string           `yaml:"restrictions"`
}

type fileEmployee struct {
	Rates                map[string]float64 `yaml:"rates"`
	HolidayRates         map[string]float64 `yaml:"holiday_rates"`
	OvernightHolidayRate *float64           `yaml:"overnight_holiday_rate"`
}

// =============================================================================
// LOADING
// =============================================================================

// LoadFile reads and validates a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := New()
	for name, fe := range fc.Employees {
		emp := Employee{
			Rates:        make(map[billing.JobType]decimal.Decimal, len(fe.Rates)),
			HolidayRates: make(map[billing.JobType]decimal.Decimal, len(fe.HolidayRates)),
		}
		for key, rate := range fe.Rates {
			jt := billing.JobType(key)
			if !jt.IsKnown() {
				return nil, fmt.Errorf("employee %s: unknown job type %q", name, key)
			}
			emp.Rates[jt] = decimal.NewFromFloat(rate)
		}
		for key, rate := range fe.HolidayRates {
			jt := billing.JobType(key)
			if !jt.IsKnown() {
				return nil, fmt.Errorf("employee %s: unknown holiday job type %q", name, key)
			}
			emp.HolidayRates[jt] = decimal.NewFromFloat(rate)
		}
		if fe.OvernightHolidayRate != nil {
			v := decimal.NewFromFloat(*fe.OvernightHolidayRate)
			emp.OvernightHolidayRate = &v
		}
		cfg.Employees[name] = emp
	}

	for pet, rates := range fc.PetRates {
		cfg.PetRates[pet] = make(map[billing.JobType]decimal.Decimal, len(rates))
		for key, rate := range rates {
			jt := billing.JobType(key)
			if !jt.IsKnown() {
				return nil, fmt.Errorf("pet %s: unknown job type %q", pet, key)
			}
			cfg.PetRates[pet][jt] = decimal.NewFromFloat(rate)
		}
	}

	for _, d := range fc.Holidays {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("holiday %q: expected YYYY-MM-DD", d)
		}
		cfg.Holidays[d] = true
	}

	for key, names := range fc.Restrictions {
		jt := billing.JobType(key)
		if !jt.IsKnown() {
			return nil, fmt.Errorf("restriction: unknown job type %q", key)
		}
		cfg.Restrictions[jt] = append([]string(nil), names...)
	}

	return cfg, nil
}

// =============================================================================
// DEFAULT SEED - The production rate card
// =============================================================================

// Default returns the standard company configuration. All rates in PLN.
func Default() *Config {
	cfg := New()

	standard := func() Employee { return standardCard(25, 30) }
	senior := func() Employee { return standardCard(28, 32) }

	roxana := standard()
	delete(roxana.HolidayRates, billing.JobWalk) // no walk holiday rate configured
	cfg.Employees["ROXANA"] = roxana

	cfg.Employees["JEAN"] = standard()
	cfg.Employees["SURIYA"] = standard()
	cfg.Employees["KUBA"] = standard()
	cfg.Employees["SEAN"] = standard()
	cfg.Employees["YASH"] = standard()
	cfg.Employees["NAREYA"] = standard()

	ankita := senior()
	ankita.Rates[billing.JobPetSittingHourly] = dec(20)
	cfg.Employees["ANKITA"] = ankita

	cfg.Employees["PIYUSH"] = senior()

	prachi := senior()
	prachi.Rates[billing.JobManagement] = dec(30)
	cfg.Employees["PRACHI"] = prachi

	eray := standard()
	eray.Rates[billing.JobManagement] = dec(30)
	cfg.Employees["ERAY"] = eray

	oguz := standard()
	oguz.Rates[billing.JobTransport] = dec(25)
	oguz.Rates[billing.JobTransportKM] = decimal.NewFromFloat(1.5)
	cfg.Employees["OGUZ"] = oguz

	weronika := standard()
	weronika.Rates[billing.JobManagement] = dec(30)
	weronika.Rates[billing.JobTransport] = dec(25)
	weronika.Rates[billing.JobTransportKM] = decimal.NewFromFloat(1.15)
	weronika.Rates[billing.JobTraining] = dec(100)
	cfg.Employees["WERONIKA"] = weronika

	cfg.Restrictions[billing.JobTraining] = []string{"WERONIKA"}

	return cfg
}

// standardCard builds the shared rate template. dayRate covers hotel and
// walk; holidayRate is their holiday override.
func standardCard(dayRate, holidayRate int64) Employee {
	overnight := dec(100)
	return Employee{
		Rates: map[billing.JobType]decimal.Decimal{
			billing.JobHotel:               dec(dayRate),
			billing.JobWalk:                dec(dayRate),
			billing.JobOvernightHotel:      dec(90),
			billing.JobCatVisit:            dec(30),
			billing.JobPetSittingHourly:    dec(17),
			billing.JobOvernightPetSitting: dec(140),
			billing.JobDogAtHome:           dec(75),
			billing.JobCatAtHome:           dec(25),
		},
		HolidayRates: map[billing.JobType]decimal.Decimal{
			billing.JobHotel: dec(holidayRate),
			billing.JobWalk:  dec(holidayRate),
		},
		OvernightHolidayRate: &overnight,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
