/*
handlers.go - HTTP API handlers for the timesheet billing system

PURPOSE:
  Exposes the billing engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and stores.

ENDPOINTS:
  Timesheet:
    POST   /api/timesheet/preview      Compute an interval without persisting
    POST   /api/timesheet              Compute and persist atomically
    GET    /api/timesheet              List entries (employee + range)
    GET    /api/timesheet/week         All entries of one payroll week

  Employees:
    GET    /api/employees              List employees with their job types
    POST   /api/employees              Onboard with the standard rate card
    DELETE /api/employees/{name}       Offboard
    GET    /api/employees/{name}/jobtypes
    PUT    /api/employees/{name}/rates Update one rate (standard or holiday)

  Configuration:
    GET    /api/jobtypes               The closed job-type table
    PUT    /api/pets/{pet}/rates       Set a pet custom rate
    DELETE /api/pets/{pet}/rates/{jobType}
    GET    /api/holidays               List flagged dates
    POST   /api/holidays               Flag a date
    DELETE /api/holidays/{date}        Unflag a date
    PUT    /api/restrictions/{jobType} Limit a job type to named employees

REQUEST FLOW:
  1. Parse HTTP request
  2. Take a config snapshot from the registry
  3. Run the engine against the snapshot
  4. Persist (submit only) and serialize response

ERROR HANDLING:
  Engine errors map to HTTP status by category:
  - 400: Invalid interval, invalid quantity, malformed input
  - 403: Job type restricted away from this employee
  - 404: Unknown employee, unknown job type, no configured rate
  - 500: Storage failures

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloudtriquetra/citypets-employee-app/billing"
	"github.com/cloudtriquetra/citypets-employee-app/config"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *config.Registry
	Store    billing.TimesheetStore

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time
}

// NewHandler creates a new handler over the live config and the store.
func NewHandler(registry *config.Registry, store billing.TimesheetStore) *Handler {
	return &Handler{
		Registry: registry,
		Store:    store,
		now:      time.Now,
	}
}

// =============================================================================
// TIMESHEET HANDLERS
// =============================================================================

// PreviewTimesheet computes an interval without persisting anything.
// POST /api/timesheet/preview
func (h *Handler) PreviewTimesheet(w http.ResponseWriter, r *http.Request) {
	result, interval, ok := h.compute(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResultDTO(result, interval))
}

// SubmitTimesheet computes an interval and persists its entries as one
// atomic batch.
// POST /api/timesheet
func (h *Handler) SubmitTimesheet(w http.ResponseWriter, r *http.Request) {
	result, interval, ok := h.compute(w, r)
	if !ok {
		return
	}

	entries := result.Entries(interval, h.now().UTC())
	if err := h.Store.AppendBatch(r.Context(), entries); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist entries", err)
		return
	}

	writeJSON(w, http.StatusCreated, toResultDTO(result, interval))
}

// compute parses the request, takes a config snapshot, and runs the engine.
// Writes the error response itself; ok=false means the caller must return.
func (h *Handler) compute(w http.ResponseWriter, r *http.Request) (*billing.EntryResult, billing.WorkInterval, bool) {
	var req SubmitTimesheetRequest
	var zero billing.WorkInterval
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, zero, false
	}
	if req.Employee == "" {
		writeError(w, http.StatusBadRequest, "employee is required", nil)
		return nil, zero, false
	}

	interval, err := toWorkInterval(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid work interval", err)
		return nil, zero, false
	}

	snapshot := h.Registry.Snapshot()
	if _, known := snapshot.Employees[interval.Employee]; known &&
		interval.JobType.IsKnown() && !snapshot.CanPerform(interval.Employee, interval.JobType) {
		writeError(w, http.StatusForbidden, "Job type not available for employee", nil)
		return nil, zero, false
	}

	result, err := billing.NewEngine(snapshot).ComputeEntry(interval)
	if err != nil {
		writeEngineError(w, err)
		return nil, zero, false
	}
	return result, interval, true
}

// ListTimesheet returns an employee's entries in a time range.
// GET /api/timesheet?employee=NAME&from=RFC3339&to=RFC3339
func (h *Handler) ListTimesheet(w http.ResponseWriter, r *http.Request) {
	employee := r.URL.Query().Get("employee")
	if employee == "" {
		writeError(w, http.StatusBadRequest, "employee query parameter is required", nil)
		return
	}

	from, err := parseTimeParam(r.URL.Query().Get("from"), time.Time{})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from (use RFC3339)", err)
		return
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"), h.now().UTC().AddDate(1, 0, 0))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to (use RFC3339)", err)
		return
	}

	entries, err := h.Store.ListByEmployee(r.Context(), employee, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// WeekTimesheet returns all entries of one payroll week (Monday start).
// GET /api/timesheet/week?start=YYYY-MM-DD
func (h *Handler) WeekTimesheet(w http.ResponseWriter, r *http.Request) {
	start := h.now().UTC()
	if s := r.URL.Query().Get("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start (use YYYY-MM-DD)", err)
			return
		}
		start = parsed
	}

	entries, err := h.Store.ListWeek(r.Context(), billing.WeekStart(start))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list week", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees with their selectable job types.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	snapshot := h.Registry.Snapshot()

	dtos := make([]EmployeeDTO, 0, len(snapshot.Employees))
	for _, name := range snapshot.EmployeeNames() {
		types, err := snapshot.JobTypesFor(name)
		if err != nil {
			continue
		}
		dtos = append(dtos, EmployeeDTO{Name: name, JobTypes: jobTypeKeys(types)})
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee onboards an employee with the standard rate card.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	if err := h.Registry.AddEmployee(req.Name); err != nil {
		writeEngineError(w, err)
		return
	}

	snapshot := h.Registry.Snapshot()
	types, _ := snapshot.JobTypesFor(req.Name)
	writeJSON(w, http.StatusCreated, EmployeeDTO{Name: req.Name, JobTypes: jobTypeKeys(types)})
}

// DeleteEmployee offboards an employee. Persisted entries stay.
// DELETE /api/employees/{name}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.Registry.RemoveEmployee(name); err != nil {
		writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetEmployeeJobTypes returns the job types an employee may log.
// GET /api/employees/{name}/jobtypes
func (h *Handler) GetEmployeeJobTypes(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	types, err := h.Registry.Snapshot().JobTypesFor(name)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]JobTypeDTO, len(types))
	for i, jt := range types {
		dtos[i] = toJobTypeDTO(jt)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SetEmployeeRate updates one rate, standard or holiday.
// PUT /api/employees/{name}/rates
func (h *Handler) SetEmployeeRate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req SetRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Rate.IsNegative() {
		writeError(w, http.StatusBadRequest, "rate must not be negative", nil)
		return
	}

	jt := billing.JobType(req.JobType)
	var err error
	if req.Holiday {
		err = h.Registry.SetHolidayRate(name, jt, req.Rate)
	} else {
		err = h.Registry.SetEmployeeRate(name, jt, req.Rate)
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// JOB TYPE HANDLERS
// =============================================================================

// ListJobTypes returns the closed job-type table.
// GET /api/jobtypes
func (h *Handler) ListJobTypes(w http.ResponseWriter, r *http.Request) {
	all := billing.AllJobTypes()
	dtos := make([]JobTypeDTO, len(all))
	for i, jt := range all {
		dtos[i] = toJobTypeDTO(jt)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PET RATE HANDLERS
// =============================================================================

// SetPetRate records a custom rate for a pet/job pair.
// PUT /api/pets/{pet}/rates
func (h *Handler) SetPetRate(w http.ResponseWriter, r *http.Request) {
	pet := chi.URLParam(r, "pet")

	var req SetPetRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Rate.IsNegative() {
		writeError(w, http.StatusBadRequest, "rate must not be negative", nil)
		return
	}

	if err := h.Registry.SetPetRate(pet, billing.JobType(req.JobType), req.Rate); err != nil {
		writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePetRate removes a custom rate.
// DELETE /api/pets/{pet}/rates/{jobType}
func (h *Handler) DeletePetRate(w http.ResponseWriter, r *http.Request) {
	pet := chi.URLParam(r, "pet")
	jt := billing.JobType(chi.URLParam(r, "jobType"))

	if err := h.Registry.RemovePetRate(pet, jt); err != nil {
		writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all flagged dates.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Registry.Snapshot().HolidayDates())
}

// CreateHoliday flags a date as a holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Registry.AddHoliday(req.Date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"date": req.Date})
}

// DeleteHoliday unflags a date.
// DELETE /api/holidays/{date}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	if err := h.Registry.RemoveHoliday(date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to remove holiday", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESTRICTION HANDLERS
// =============================================================================

// SetRestriction limits a job type to the listed employees.
// PUT /api/restrictions/{jobType}
func (h *Handler) SetRestriction(w http.ResponseWriter, r *http.Request) {
	jt := billing.JobType(chi.URLParam(r, "jobType"))

	var req SetRestrictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Registry.SetRestriction(jt, req.Employees); err != nil {
		writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toWorkInterval(req SubmitTimesheetRequest) (billing.WorkInterval, error) {
	interval := billing.WorkInterval{
		Employee:    req.Employee,
		JobType:     billing.JobType(req.JobType),
		Quantity:    req.Quantity,
		PetNames:    req.PetNames,
		Description: req.Description,
	}

	var err error
	if req.Start != "" {
		if interval.Start, err = time.Parse(time.RFC3339, req.Start); err != nil {
			return interval, err
		}
	}
	if req.End != "" {
		if interval.End, err = time.Parse(time.RFC3339, req.End); err != nil {
			return interval, err
		}
	}

	switch {
	case req.Date != "":
		if interval.Date, err = time.Parse("2006-01-02", req.Date); err != nil {
			return interval, err
		}
		if interval.Start.IsZero() {
			interval.Start = interval.Date
		}
	case !interval.Start.IsZero():
		s := interval.Start
		interval.Date = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	}

	return interval, nil
}

func toResultDTO(result *billing.EntryResult, interval billing.WorkInterval) TimesheetResultDTO {
	dto := TimesheetResultDTO{
		ReferenceID: result.ReferenceID,
		Total:       result.Total,
		Entries:     make([]EntryDTO, len(result.Segments)),
	}
	for i, sr := range result.Segments {
		dto.Entries[i] = EntryDTO{
			ReferenceID: result.ReferenceID,
			Employee:    interval.Employee,
			JobType:     string(sr.Segment.JobType),
			Start:       formatTime(sr.Segment.Start),
			End:         formatTime(sr.Segment.End),
			Duration: DurationDTO{
				Value: sr.Result.Duration.Value,
				Unit:  string(sr.Result.Duration.Unit),
			},
			Rate:     sr.Result.Rate,
			Amount:   sr.Result.Amount,
			Note:     sr.Segment.Note,
			PetNames: interval.PetNames,
		}
	}
	return dto
}

func toEntryDTOs(entries []billing.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = EntryDTO{
			ID:          e.ID,
			ReferenceID: e.ReferenceID,
			Employee:    e.Employee,
			JobType:     string(e.JobType),
			Start:       formatTime(e.Start),
			End:         formatTime(e.End),
			Duration: DurationDTO{
				Value: e.Duration.Value,
				Unit:  string(e.Duration.Unit),
			},
			Rate:        e.Rate,
			Amount:      e.Amount,
			Note:        e.Note,
			PetNames:    e.PetNames,
			Description: e.Description,
			Status:      string(e.Status),
			WeekStart:   e.WeekStart.Format("2006-01-02"),
		}
	}
	return dtos
}

func toJobTypeDTO(jt billing.JobType) JobTypeDTO {
	semantics, _ := jt.Semantics()
	return JobTypeDTO{
		Key:         string(jt),
		DisplayName: jt.DisplayName(),
		Semantics:   string(semantics),
	}
}

func jobTypeKeys(types []billing.JobType) []string {
	keys := make([]string, len(types))
	for i, jt := range types {
		keys[i] = string(jt)
	}
	return keys
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseTimeParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.Parse(time.RFC3339, value)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine errors to HTTP status by category.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case billing.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case billing.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
