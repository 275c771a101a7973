/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FORMAT:
  Rates and amounts serialize as decimal strings ("112.5"), never floats.
  Clients doing arithmetic on money must parse them as decimals too.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - server.go: Router setup
*/
package api

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TIMESHEET TYPES
// =============================================================================

// SubmitTimesheetRequest is one raw work interval as logged by an employee.
type SubmitTimesheetRequest struct {
	Employee    string   `json:"employee"`
	JobType     string   `json:"job_type"`
	Start       string   `json:"start"`              // RFC3339
	End         string   `json:"end,omitempty"`      // RFC3339, optional for walks and quantity types
	Quantity    float64  `json:"quantity,omitempty"` // expense amount, km, or visit count
	PetNames    []string `json:"pet_names,omitempty"`
	Date        string   `json:"date,omitempty"` // YYYY-MM-DD holiday lookup date, defaults to start's date
	Description string   `json:"description,omitempty"`
}

// EntryDTO is one billable timesheet row.
type EntryDTO struct {
	ID          string          `json:"id,omitempty"`
	ReferenceID string          `json:"reference_id"`
	Employee    string          `json:"employee"`
	JobType     string          `json:"job_type"`
	Start       string          `json:"start"`
	End         string          `json:"end,omitempty"`
	Duration    DurationDTO     `json:"duration"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
	PetNames    []string        `json:"pet_names,omitempty"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status,omitempty"`
	WeekStart   string          `json:"week_start,omitempty"`
}

// DurationDTO is a duration value with its unit (hours, days, visits, km,
// flat, PLN).
type DurationDTO struct {
	Value decimal.Decimal `json:"value"`
	Unit  string          `json:"unit"`
}

// TimesheetResultDTO is the computed outcome of one work interval.
type TimesheetResultDTO struct {
	ReferenceID string          `json:"reference_id"`
	Entries     []EntryDTO      `json:"entries"`
	Total       decimal.Decimal `json:"total"`
}

// =============================================================================
// EMPLOYEE AND RATE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	Name     string   `json:"name"`
	JobTypes []string `json:"job_types"`
}

// CreateEmployeeRequest onboards an employee with the standard rate card.
type CreateEmployeeRequest struct {
	Name string `json:"name"`
}

// SetRateRequest updates one rate for an employee.
type SetRateRequest struct {
	JobType string          `json:"job_type"`
	Rate    decimal.Decimal `json:"rate"`
	Holiday bool            `json:"holiday,omitempty"` // true updates the holiday override
}

// JobTypeDTO describes one job type of the closed table.
type JobTypeDTO struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Semantics   string `json:"semantics"`
}

// =============================================================================
// PET RATE, HOLIDAY, AND RESTRICTION TYPES
// =============================================================================

// SetPetRateRequest records a custom rate for a pet/job pair.
type SetPetRateRequest struct {
	JobType string          `json:"job_type"`
	Rate    decimal.Decimal `json:"rate"`
}

// CreateHolidayRequest flags a date as a holiday.
type CreateHolidayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// SetRestrictionRequest limits a job type to the listed employees. An
// empty list removes the restriction.
type SetRestrictionRequest struct {
	Employees []string `json:"employees"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
