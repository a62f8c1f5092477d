/*
Package sqlite provides a SQLite-backed implementation of the record stores.

PURPOSE:
  Persists workers, job definitions, job entries, attendance, leave
  requests and leave balances, and serves them back to the analytics
  aggregator as flat records.

INTERFACES IMPLEMENTED:
  generic.RecordStore:   Workers, entries, attendance and leave
  compensation.JobStore: Job definitions

CREATE/DELETE ONLY:
  Job entries have no UPDATE path. A wrong entry is deleted and entered
  again so that its amounts are recomputed by the calculator.

NULLABLE NUMBERS:
  Numeric columns are TEXT holding decimal strings, or NULL when the value
  is absent. decimal.NullDecimal scans and stores them directly, so absent
  survives a round trip and is never read back as zero.

RAW DATES:
  Record dates are stored exactly as supplied. Date-range filtering happens
  after the query with generic.RecordFilter, so a malformed date is dropped
  from ranged listings instead of failing the whole query.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/workforce.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: RecordSource/RecordStore
  - compensation/store.go: JobStore
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/generic"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ generic.RecordStore   = (*Store)(nil)
	_ compensation.JobStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// each connection to ":memory:" is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
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

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		group_name TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		rate_per_hour TEXT,
		rate_per_item TEXT,
		expected_hours TEXT,
		expected_items_per_hour TEXT,
		incentive_bonus_rate TEXT,
		incentive_type TEXT,
		penalty_rate TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Job entries (create/delete only)
	CREATE TABLE IF NOT EXISTS job_entries (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		group_name TEXT,
		job_id TEXT NOT NULL,
		job_name TEXT,
		entry_date TEXT NOT NULL,
		hours_taken TEXT,
		items_completed TEXT,
		expected_hours TEXT,
		expected_items_per_hour TEXT,
		productive_hours TEXT,
		extra_hours TEXT,
		underperformance_hours TEXT,
		productive_items TEXT,
		extra_items TEXT,
		incentive_amount TEXT,
		penalty_amount TEXT,
		total_amount TEXT,
		is_post_lunch INTEGER NOT NULL DEFAULT 0,
		remarks TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_job_entries_worker
		ON job_entries(worker_id);
	CREATE INDEX IF NOT EXISTS idx_job_entries_job
		ON job_entries(job_id);
	CREATE INDEX IF NOT EXISTS idx_job_entries_date
		ON job_entries(entry_date);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		attendance_date TEXT NOT NULL,
		status TEXT NOT NULL,
		check_in TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_worker_date
		ON attendance(worker_id, attendance_date);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		leave_type TEXT,
		status TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		applied_on TEXT,
		days TEXT,
		reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_worker
		ON leave_requests(worker_id);

	CREATE TABLE IF NOT EXISTS leave_balances (
		worker_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		allocated TEXT,
		used TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (worker_id, leave_type)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKERS
// =============================================================================

// SaveWorker upserts a worker.
func (s *Store) SaveWorker(ctx context.Context, w generic.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO workers (id, name, group_name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			group_name = excluded.group_name
	`
	_, err := s.db.ExecContext(ctx, query,
		w.ID, w.Name, nullString(w.GroupName),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save worker: %w", err)
	}
	return nil
}

// GetWorker retrieves a worker by ID.
func (s *Store) GetWorker(ctx context.Context, id generic.WorkerID) (*generic.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var w generic.Worker
	var group sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, group_name FROM workers WHERE id = ?", id,
	).Scan(&w.ID, &w.Name, &group)
	if err == sql.ErrNoRows {
		return nil, generic.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	w.GroupName = group.String
	return &w, nil
}

// ListWorkers returns all workers ordered by name.
func (s *Store) ListWorkers(ctx context.Context) ([]generic.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, group_name FROM workers ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []generic.Worker
	for rows.Next() {
		var w generic.Worker
		var group sql.NullString
		if err := rows.Scan(&w.ID, &w.Name, &group); err != nil {
			return nil, err
		}
		w.GroupName = group.String
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// =============================================================================
// JOB DEFINITIONS (compensation.JobStore interface)
// =============================================================================

// SaveJob upserts a job definition.
func (s *Store) SaveJob(ctx context.Context, job compensation.JobDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO jobs (id, name, rate_per_hour, rate_per_item, expected_hours,
			expected_items_per_hour, incentive_bonus_rate, incentive_type, penalty_rate,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			rate_per_hour = excluded.rate_per_hour,
			rate_per_item = excluded.rate_per_item,
			expected_hours = excluded.expected_hours,
			expected_items_per_hour = excluded.expected_items_per_hour,
			incentive_bonus_rate = excluded.incentive_bonus_rate,
			incentive_type = excluded.incentive_type,
			penalty_rate = excluded.penalty_rate,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		job.ID, job.Name, job.RatePerHour, job.RatePerItem, job.ExpectedHours,
		job.ExpectedItemsPerHour, job.IncentiveBonusRate, nullString(string(job.IncentiveType)),
		job.PenaltyRate, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

const jobColumns = `id, name, rate_per_hour, rate_per_item, expected_hours,
	expected_items_per_hour, incentive_bonus_rate, incentive_type, penalty_rate`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (compensation.JobDefinition, error) {
	var j compensation.JobDefinition
	var incentiveType sql.NullString
	err := row.Scan(&j.ID, &j.Name, &j.RatePerHour, &j.RatePerItem, &j.ExpectedHours,
		&j.ExpectedItemsPerHour, &j.IncentiveBonusRate, &incentiveType, &j.PenaltyRate)
	j.IncentiveType = compensation.IncentiveType(incentiveType.String)
	return j, err
}

// GetJob retrieves a job definition by ID.
func (s *Store) GetJob(ctx context.Context, id generic.JobID) (*compensation.JobDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, err := scanJob(s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, generic.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs returns all job definitions ordered by name.
func (s *Store) ListJobs(ctx context.Context) ([]compensation.JobDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+jobColumns+" FROM jobs ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []compensation.JobDefinition
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// DeleteJob removes a job definition. Existing entries keep their job name.
func (s *Store) DeleteJob(ctx context.Context, id generic.JobID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	return affectedOrNotFound(res, err)
}

// =============================================================================
// JOB ENTRIES
// =============================================================================

// SaveJobEntry inserts a computed job entry.
func (s *Store) SaveJobEntry(ctx context.Context, e generic.JobEntryReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO job_entries
		(id, worker_id, group_name, job_id, job_name, entry_date, hours_taken, items_completed,
		 expected_hours, expected_items_per_hour, productive_hours, extra_hours,
		 underperformance_hours, productive_items, extra_items, incentive_amount,
		 penalty_amount, total_amount, is_post_lunch, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.WorkerID, nullString(e.GroupName), e.JobID, nullString(e.JobName), e.Date,
		e.HoursTaken, e.ItemsCompleted, e.ExpectedHours, e.ExpectedItemsPerHour,
		e.ProductiveHours, e.ExtraHours, e.UnderperformanceHours, e.ProductiveItems,
		e.ExtraItems, e.IncentiveAmount, e.PenaltyAmount, e.TotalAmount,
		e.IsPostLunch, nullString(e.Remarks), createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to save job entry: %w", err)
	}
	return nil
}

// entrySelect joins entries with their worker and job for display names.
const entrySelect = `
	SELECT e.id, e.worker_id, COALESCE(w.name, ''), COALESCE(e.group_name, w.group_name, ''),
		e.job_id, COALESCE(j.name, e.job_name, ''), e.entry_date,
		e.hours_taken, e.items_completed, e.expected_hours, e.expected_items_per_hour,
		e.productive_hours, e.extra_hours, e.underperformance_hours, e.productive_items,
		e.extra_items, e.incentive_amount, e.penalty_amount, e.total_amount,
		e.is_post_lunch, COALESCE(e.remarks, ''), e.created_at
	FROM job_entries e
	LEFT JOIN workers w ON w.id = e.worker_id
	LEFT JOIN jobs j ON j.id = e.job_id
`

func scanEntry(row rowScanner) (generic.JobEntryReport, error) {
	var e generic.JobEntryReport
	var createdAt string
	err := row.Scan(&e.ID, &e.WorkerID, &e.WorkerName, &e.GroupName,
		&e.JobID, &e.JobName, &e.Date,
		&e.HoursTaken, &e.ItemsCompleted, &e.ExpectedHours, &e.ExpectedItemsPerHour,
		&e.ProductiveHours, &e.ExtraHours, &e.UnderperformanceHours, &e.ProductiveItems,
		&e.ExtraItems, &e.IncentiveAmount, &e.PenaltyAmount, &e.TotalAmount,
		&e.IsPostLunch, &e.Remarks, &createdAt)
	if err != nil {
		return e, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// GetJobEntry retrieves a job entry by ID.
func (s *Store) GetJobEntry(ctx context.Context, id generic.EntryID) (*generic.JobEntryReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := scanEntry(s.db.QueryRowContext(ctx, entrySelect+" WHERE e.id = ?", id))
	if err == sql.ErrNoRows {
		return nil, generic.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteJobEntry removes a job entry.
func (s *Store) DeleteJobEntry(ctx context.Context, id generic.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM job_entries WHERE id = ?", id)
	return affectedOrNotFound(res, err)
}

// ListJobEntries returns entries matching the filter in entry order.
func (s *Store) ListJobEntries(ctx context.Context, filter generic.RecordFilter) ([]generic.JobEntryReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := entityClauses(filter, "e.worker_id", "e.job_id")
	rows, err := s.db.QueryContext(ctx, entrySelect+where+" ORDER BY e.entry_date, e.created_at, e.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []generic.JobEntryReport
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if filter.MatchesDate(e.Date) {
			entries = append(entries, e)
		}
	}
	return entries, rows.Err()
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// SaveAttendance upserts an attendance record.
func (s *Store) SaveAttendance(ctx context.Context, a generic.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance (id, worker_id, attendance_date, status, check_in, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			check_in = excluded.check_in
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.WorkerID, a.Date, a.Status, nullString(a.CheckIn),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	return nil
}

// ListAttendance returns attendance matching the filter.
func (s *Store) ListAttendance(ctx context.Context, filter generic.RecordFilter) ([]generic.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := entityClauses(filter, "a.worker_id", "")
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.worker_id, COALESCE(w.name, ''), a.attendance_date, a.status, COALESCE(a.check_in, '')
		FROM attendance a
		LEFT JOIN workers w ON w.id = a.worker_id
	`+where+" ORDER BY a.attendance_date, a.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []generic.AttendanceRecord
	for rows.Next() {
		var a generic.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.WorkerID, &a.WorkerName, &a.Date, &a.Status, &a.CheckIn); err != nil {
			return nil, err
		}
		if filter.MatchesDate(a.Date) {
			records = append(records, a)
		}
	}
	return records, rows.Err()
}

// =============================================================================
// LEAVE
// =============================================================================

// SaveLeaveRequest upserts a leave request.
func (s *Store) SaveLeaveRequest(ctx context.Context, r generic.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_requests
		(id, worker_id, leave_type, status, start_date, end_date, applied_on, days, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			leave_type = excluded.leave_type,
			status = excluded.status,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			days = excluded.days,
			reason = excluded.reason
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.WorkerID, nullString(r.LeaveType), r.Status, nullString(r.StartDate),
		nullString(r.EndDate), nullString(r.AppliedOn), r.Days, nullString(r.Reason),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

// ListLeaveRequests returns leave requests whose trend date matches the filter.
func (s *Store) ListLeaveRequests(ctx context.Context, filter generic.RecordFilter) ([]generic.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := entityClauses(filter, "l.worker_id", "")
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.worker_id, COALESCE(w.name, ''), COALESCE(l.leave_type, ''), l.status,
			COALESCE(l.start_date, ''), COALESCE(l.end_date, ''), COALESCE(l.applied_on, ''),
			l.days, COALESCE(l.reason, '')
		FROM leave_requests l
		LEFT JOIN workers w ON w.id = l.worker_id
	`+where+" ORDER BY l.created_at, l.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []generic.LeaveRequest
	for rows.Next() {
		var r generic.LeaveRequest
		if err := rows.Scan(&r.ID, &r.WorkerID, &r.WorkerName, &r.LeaveType, &r.Status,
			&r.StartDate, &r.EndDate, &r.AppliedOn, &r.Days, &r.Reason); err != nil {
			return nil, err
		}
		if filter.MatchesDate(r.TrendDate()) {
			requests = append(requests, r)
		}
	}
	return requests, rows.Err()
}

// SaveLeaveBalance upserts the balance for (worker, leave type).
func (s *Store) SaveLeaveBalance(ctx context.Context, b generic.LeaveBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_balances (worker_id, leave_type, allocated, used, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(worker_id, leave_type) DO UPDATE SET
			allocated = excluded.allocated,
			used = excluded.used,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		b.WorkerID, b.LeaveType, b.Allocated, b.Used,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save leave balance: %w", err)
	}
	return nil
}

// ListLeaveBalances returns all leave balances.
func (s *Store) ListLeaveBalances(ctx context.Context) ([]generic.LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.worker_id, COALESCE(w.name, ''), b.leave_type, b.allocated, b.used
		FROM leave_balances b
		LEFT JOIN workers w ON w.id = b.worker_id
		ORDER BY b.worker_id, b.leave_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []generic.LeaveBalance
	for rows.Next() {
		var b generic.LeaveBalance
		if err := rows.Scan(&b.WorkerID, &b.WorkerName, &b.LeaveType, &b.Allocated, &b.Used); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Reset deletes all data (dev only).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"job_entries", "attendance", "leave_requests", "leave_balances", "jobs", "workers"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

// entityClauses builds the WHERE clause for the worker/job part of a filter.
// An empty column name skips that constraint.
func entityClauses(filter generic.RecordFilter, workerCol, jobCol string) (string, []any) {
	var clauses []string
	var args []any
	if filter.WorkerID != "" && workerCol != "" {
		clauses = append(clauses, workerCol+" = ?")
		args = append(args, filter.WorkerID)
	}
	if filter.JobID != "" && jobCol != "" {
		clauses = append(clauses, jobCol+" = ?")
		args = append(args, filter.JobID)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
