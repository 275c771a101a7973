/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Implements billing.TimesheetStore and persists configuration snapshots so
  admin changes (rates, holidays, pet rates, restrictions) survive restarts.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

APPEND-ONLY ENFORCEMENT:
  timesheet_entries has no UPDATE path for amounts. Corrections are new
  entries; AppendBatch writes the rows of one work interval inside a single
  database transaction so a split shift never half-persists.

KEY TABLES:
  timesheet_entries:     One row per billable segment
  employees:             Employee names + overnight holiday override
  employee_rates:        Standard and holiday rates per employee/job type
  pet_rates:             Per-pet custom rates (apply to all employees)
  holiday_dates:         Flagged YYYY-MM-DD dates
  job_type_restrictions: Job types limited to named employees

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/citypets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - billing/store.go: TimesheetStore interface
  - billing/store/memory.go: In-memory implementation for testing
  - config: The snapshot type persisted by SaveConfig/LoadConfig
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/cloudtriquetra/citypets-employee-app/billing"
	"github.com/cloudtriquetra/citypets-employee-app/config"
)

// Store implements billing.TimesheetStore and config persistence.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ billing.TimesheetStore = (*Store)(nil)

// New opens a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Timesheet entries (append-only)
	CREATE TABLE IF NOT EXISTS timesheet_entries (
		id TEXT PRIMARY KEY,
		reference_id TEXT NOT NULL,
		employee TEXT NOT NULL,
		job_type TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT,
		duration_value TEXT NOT NULL,
		duration_unit TEXT NOT NULL,
		rate TEXT NOT NULL,
		amount TEXT NOT NULL,
		note TEXT,
		pet_names_json TEXT,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		week_start TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_employee_start
		ON timesheet_entries(employee, start_at);
	CREATE INDEX IF NOT EXISTS idx_entries_week
		ON timesheet_entries(week_start);
	CREATE INDEX IF NOT EXISTS idx_entries_reference
		ON timesheet_entries(reference_id);

	-- Configuration snapshot
	CREATE TABLE IF NOT EXISTS employees (
		name TEXT PRIMARY KEY,
		overnight_holiday_rate TEXT
	);

	CREATE TABLE IF NOT EXISTS employee_rates (
		employee TEXT NOT NULL,
		job_type TEXT NOT NULL,
		is_holiday INTEGER NOT NULL DEFAULT 0,
		rate TEXT NOT NULL,
		PRIMARY KEY (employee, job_type, is_holiday)
	);

	CREATE TABLE IF NOT EXISTS pet_rates (
		pet TEXT NOT NULL,
		job_type TEXT NOT NULL,
		rate TEXT NOT NULL,
		PRIMARY KEY (pet, job_type)
	);

	CREATE TABLE IF NOT EXISTS holiday_dates (
		date TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS job_type_restrictions (
		job_type TEXT NOT NULL,
		employee TEXT NOT NULL,
		PRIMARY KEY (job_type, employee)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TIMESHEET STORE (billing.TimesheetStore interface)
// =============================================================================

// AppendBatch persists the entries of one work interval atomically.
func (s *Store) AppendBatch(ctx context.Context, entries []billing.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, e := range entries {
		if err := insertEntry(ctx, sqlTx, e); err != nil {
			return err
		}
	}

	return sqlTx.Commit()
}

func insertEntry(ctx context.Context, tx *sql.Tx, e billing.Entry) error {
	petNamesJSON, _ := json.Marshal(e.PetNames)

	query := `
		INSERT INTO timesheet_entries
		(id, reference_id, employee, job_type, start_at, end_at, duration_value,
		 duration_unit, rate, amount, note, pet_names_json, description, status,
		 week_start, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		e.ID,
		e.ReferenceID,
		e.Employee,
		string(e.JobType),
		e.Start.UTC().Format(time.RFC3339),
		nullTime(e.End),
		e.Duration.Value.String(),
		string(e.Duration.Unit),
		e.Rate.String(),
		e.Amount.String(),
		nullString(e.Note),
		string(petNamesJSON),
		nullString(e.Description),
		string(e.Status),
		e.WeekStart.UTC().Format(time.RFC3339),
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// ListByEmployee returns an employee's entries with Start in [from, to).
func (s *Store) ListByEmployee(ctx context.Context, employee string, from, to time.Time) ([]billing.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, reference_id, employee, job_type, start_at, end_at,
		       duration_value, duration_unit, rate, amount, note, pet_names_json,
		       description, status, week_start, created_at
		FROM timesheet_entries
		WHERE employee = ? AND start_at >= ? AND start_at < ?
		ORDER BY start_at ASC, created_at ASC
	`

	return s.queryEntries(ctx, query, employee,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
}

// ListWeek returns all entries for the week beginning at weekStart.
func (s *Store) ListWeek(ctx context.Context, weekStart time.Time) ([]billing.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, reference_id, employee, job_type, start_at, end_at,
		       duration_value, duration_unit, rate, amount, note, pet_names_json,
		       description, status, week_start, created_at
		FROM timesheet_entries
		WHERE week_start = ?
		ORDER BY employee ASC, start_at ASC
	`

	return s.queryEntries(ctx, query, weekStart.UTC().Format(time.RFC3339))
}

// ListByReference returns all entries sharing one reference ID, so a split
// interval can be inspected as a unit.
func (s *Store) ListByReference(ctx context.Context, referenceID string) ([]billing.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, reference_id, employee, job_type, start_at, end_at,
		       duration_value, duration_unit, rate, amount, note, pet_names_json,
		       description, status, week_start, created_at
		FROM timesheet_entries
		WHERE reference_id = ?
		ORDER BY start_at ASC
	`

	return s.queryEntries(ctx, query, referenceID)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]billing.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []billing.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (billing.Entry, error) {
	var (
		e             billing.Entry
		jobType       string
		startAt       string
		endAt         sql.NullString
		durationValue string
		durationUnit  string
		rate          string
		amount        string
		note          sql.NullString
		petNamesJSON  sql.NullString
		description   sql.NullString
		status        string
		weekStart     string
		createdAt     string
	)

	err := rows.Scan(
		&e.ID, &e.ReferenceID, &e.Employee, &jobType, &startAt, &endAt,
		&durationValue, &durationUnit, &rate, &amount, &note, &petNamesJSON,
		&description, &status, &weekStart, &createdAt,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	e.JobType = billing.JobType(jobType)
	e.Start, _ = time.Parse(time.RFC3339, startAt)
	if endAt.Valid {
		e.End, _ = time.Parse(time.RFC3339, endAt.String)
	}
	e.Duration = billing.Duration{
		Value: mustDecimal(durationValue),
		Unit:  billing.DurationUnit(durationUnit),
	}
	e.Rate = mustDecimal(rate)
	e.Amount = mustDecimal(amount)
	e.Note = note.String
	e.Description = description.String
	e.Status = billing.EntryStatus(status)
	e.WeekStart, _ = time.Parse(time.RFC3339, weekStart)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	if petNamesJSON.Valid && petNamesJSON.String != "" {
		json.Unmarshal([]byte(petNamesJSON.String), &e.PetNames)
	}

	return e, nil
}

// =============================================================================
// CONFIG PERSISTENCE
// =============================================================================

// SaveConfig replaces the stored configuration snapshot atomically. Wired
// as a Registry OnChange hook so every admin mutation is durable.
func (s *Store) SaveConfig(ctx context.Context, cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	tables := []string{"employees", "employee_rates", "pet_rates", "holiday_dates", "job_type_restrictions"}
	for _, table := range tables {
		if _, err := sqlTx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for name, emp := range cfg.Employees {
		var overnight *string
		if emp.OvernightHolidayRate != nil {
			v := emp.OvernightHolidayRate.String()
			overnight = &v
		}
		if _, err := sqlTx.ExecContext(ctx,
			"INSERT INTO employees (name, overnight_holiday_rate) VALUES (?, ?)",
			name, overnight,
		); err != nil {
			return err
		}
		if err := insertRates(ctx, sqlTx, name, emp.Rates, false); err != nil {
			return err
		}
		if err := insertRates(ctx, sqlTx, name, emp.HolidayRates, true); err != nil {
			return err
		}
	}

	for pet, rates := range cfg.PetRates {
		for jt, rate := range rates {
			if _, err := sqlTx.ExecContext(ctx,
				"INSERT INTO pet_rates (pet, job_type, rate) VALUES (?, ?, ?)",
				pet, string(jt), rate.String(),
			); err != nil {
				return err
			}
		}
	}

	for date := range cfg.Holidays {
		if _, err := sqlTx.ExecContext(ctx,
			"INSERT INTO holiday_dates (date) VALUES (?)", date,
		); err != nil {
			return err
		}
	}

	for jt, names := range cfg.Restrictions {
		for _, name := range names {
			if _, err := sqlTx.ExecContext(ctx,
				"INSERT INTO job_type_restrictions (job_type, employee) VALUES (?, ?)",
				string(jt), name,
			); err != nil {
				return err
			}
		}
	}

	return sqlTx.Commit()
}

func insertRates(ctx context.Context, tx *sql.Tx, employee string, rates map[billing.JobType]decimal.Decimal, holiday bool) error {
	for jt, rate := range rates {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO employee_rates (employee, job_type, is_holiday, rate) VALUES (?, ?, ?, ?)",
			employee, string(jt), holiday, rate.String(),
		); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig reads the stored configuration snapshot. Returns found=false
// when no snapshot has been saved yet.
func (s *Store) LoadConfig(ctx context.Context) (*config.Config, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := config.New()

	rows, err := s.db.QueryContext(ctx, "SELECT name, overnight_holiday_rate FROM employees")
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var overnight sql.NullString
		if err := rows.Scan(&name, &overnight); err != nil {
			return nil, false, err
		}
		emp := config.Employee{
			Rates:        make(map[billing.JobType]decimal.Decimal),
			HolidayRates: make(map[billing.JobType]decimal.Decimal),
		}
		if overnight.Valid {
			v := mustDecimal(overnight.String)
			emp.OvernightHolidayRate = &v
		}
		cfg.Employees[name] = emp
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(cfg.Employees) == 0 {
		return nil, false, nil
	}

	rateRows, err := s.db.QueryContext(ctx,
		"SELECT employee, job_type, is_holiday, rate FROM employee_rates")
	if err != nil {
		return nil, false, err
	}
	defer rateRows.Close()

	for rateRows.Next() {
		var employee, jobType, rate string
		var isHoliday bool
		if err := rateRows.Scan(&employee, &jobType, &isHoliday, &rate); err != nil {
			return nil, false, err
		}
		emp, ok := cfg.Employees[employee]
		if !ok {
			continue
		}
		if isHoliday {
			emp.HolidayRates[billing.JobType(jobType)] = mustDecimal(rate)
		} else {
			emp.Rates[billing.JobType(jobType)] = mustDecimal(rate)
		}
	}
	if err := rateRows.Err(); err != nil {
		return nil, false, err
	}

	petRows, err := s.db.QueryContext(ctx, "SELECT pet, job_type, rate FROM pet_rates")
	if err != nil {
		return nil, false, err
	}
	defer petRows.Close()

	for petRows.Next() {
		var pet, jobType, rate string
		if err := petRows.Scan(&pet, &jobType, &rate); err != nil {
			return nil, false, err
		}
		if cfg.PetRates[pet] == nil {
			cfg.PetRates[pet] = make(map[billing.JobType]decimal.Decimal)
		}
		cfg.PetRates[pet][billing.JobType(jobType)] = mustDecimal(rate)
	}
	if err := petRows.Err(); err != nil {
		return nil, false, err
	}

	dateRows, err := s.db.QueryContext(ctx, "SELECT date FROM holiday_dates")
	if err != nil {
		return nil, false, err
	}
	defer dateRows.Close()

	for dateRows.Next() {
		var date string
		if err := dateRows.Scan(&date); err != nil {
			return nil, false, err
		}
		cfg.Holidays[date] = true
	}
	if err := dateRows.Err(); err != nil {
		return nil, false, err
	}

	restrictRows, err := s.db.QueryContext(ctx,
		"SELECT job_type, employee FROM job_type_restrictions ORDER BY job_type, employee")
	if err != nil {
		return nil, false, err
	}
	defer restrictRows.Close()

	for restrictRows.Next() {
		var jobType, employee string
		if err := restrictRows.Scan(&jobType, &employee); err != nil {
			return nil, false, err
		}
		jt := billing.JobType(jobType)
		cfg.Restrictions[jt] = append(cfg.Restrictions[jt], employee)
	}
	if err := restrictRows.Err(); err != nil {
		return nil, false, err
	}

	return cfg, true, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"timesheet_entries", "employees", "employee_rates",
		"pet_rates", "holiday_dates", "job_type_restrictions",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
