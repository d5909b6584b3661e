/*
Package sqlite provides a SQLite-backed implementation of the collaborator
contracts.

PURPOSE:
  Implements leave.TypeCatalog, leave.Directory, leave.RecordStore, and
  calendar.HolidayCalendar on SQLite. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  leave_types:    Per-workspace leave-type configuration
  users:          Directory records (id, gender)
  leave_requests: Dated absence intervals with status
  holidays:       Non-working dates, workspace-scoped or global

INDEXES:
  - idx_requests_user: RequestsByUser (overlap + gate checks, hot path)
  - idx_requests_accounting: ApprovedIntervals by (user, type, status)
  - idx_holidays_workspace_date: IsHoliday lookups

DATE FORMAT:
  All dates are stored as TEXT in 2006-01-02 form so SQLite's lexical
  ordering matches chronological ordering.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  while the single writer proceeds.

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := leave.NewEngine(store, store, store, store)

SEE ALSO:
  - leave/types.go: Contract definitions
  - leave/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/calendar"
	"github.com/warp/leave-engine/leave"
)

// timeNow is swapped in tests that need a fixed creation date.
var timeNow = time.Now

// Store implements all collaborator contracts using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
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

func (s *Store) migrate() error {
	schema := `
	-- Leave types (per-workspace configuration)
	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT NOT NULL,
		workspace_id TEXT NOT NULL,
		name TEXT NOT NULL,
		max_days_per_year INTEGER NOT NULL DEFAULT 0,
		requires_documentation BOOLEAN NOT NULL DEFAULT FALSE,
		gender_specific BOOLEAN NOT NULL DEFAULT FALSE,
		gender TEXT NOT NULL DEFAULT 'any',
		frequency_years INTEGER NOT NULL DEFAULT 1,
		pay_percentage TEXT NOT NULL DEFAULT '100',
		minimum_notice_days INTEGER NOT NULL DEFAULT 0,
		allow_negative_balance BOOLEAN NOT NULL DEFAULT FALSE,
		position INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		PRIMARY KEY (workspace_id, id)
	);

	-- Users (directory records)
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL,
		workspace_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (workspace_id, id)
	);

	-- Leave requests
	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		leave_type_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_user
		ON leave_requests(workspace_id, user_id, start_date);

	-- Composite index for used-day accounting (hot path)
	CREATE INDEX IF NOT EXISTS idx_requests_accounting
		ON leave_requests(workspace_id, user_id, leave_type_id, status, start_date);

	-- Holidays (workspace-scoped and global)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_workspace_date
		ON holidays(workspace_id, start_date, end_date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(workspace_id, start_date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TYPE CATALOG
// =============================================================================

const leaveTypeColumns = `id, workspace_id, name, max_days_per_year,
	requires_documentation, gender_specific, gender, frequency_years,
	pay_percentage, minimum_notice_days, allow_negative_balance`

func (s *Store) LeaveType(ctx context.Context, workspaceID string, id leave.LeaveTypeID) (leave.LeaveType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaveTypeColumns+` FROM leave_types WHERE workspace_id = ? AND id = ?`,
		workspaceID, string(id))

	lt, err := scanLeaveType(row)
	if err == sql.ErrNoRows {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to load leave type: %w", err)
	}
	return lt, nil
}

func (s *Store) LeaveTypes(ctx context.Context, workspaceID string) ([]leave.LeaveType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leaveTypeColumns+` FROM leave_types WHERE workspace_id = ? ORDER BY position, created_at`,
		workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

// SaveLeaveType inserts or replaces a catalog entry. Position preserves
// catalog ordering for EligibleLeaveTypes.
func (s *Store) SaveLeaveType(ctx context.Context, lt leave.LeaveType, position int) error {
	if err := lt.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO leave_types
		(id, workspace_id, name, max_days_per_year, requires_documentation,
		 gender_specific, gender, frequency_years, pay_percentage,
		 minimum_notice_days, allow_negative_balance, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))`,
		string(lt.ID), lt.WorkspaceID, lt.Name, lt.MaxDaysPerYear,
		lt.RequiresDocumentation, lt.GenderSpecific, string(lt.Gender),
		lt.FrequencyYears, lt.PayPercentage.String(), lt.MinimumNoticeDays,
		lt.AllowNegativeBalance, position)
	if err != nil {
		return fmt.Errorf("failed to save leave type: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeaveType(row rowScanner) (leave.LeaveType, error) {
	var lt leave.LeaveType
	var id, gender, pay string
	err := row.Scan(&id, &lt.WorkspaceID, &lt.Name, &lt.MaxDaysPerYear,
		&lt.RequiresDocumentation, &lt.GenderSpecific, &gender,
		&lt.FrequencyYears, &pay, &lt.MinimumNoticeDays, &lt.AllowNegativeBalance)
	if err != nil {
		return leave.LeaveType{}, err
	}
	lt.ID = leave.LeaveTypeID(id)
	lt.Gender = leave.Gender(gender)
	lt.PayPercentage, err = decimal.NewFromString(pay)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("bad pay_percentage %q: %w", pay, err)
	}
	return lt, nil
}

// =============================================================================
// DIRECTORY
// =============================================================================

func (s *Store) User(ctx context.Context, workspaceID string, id leave.UserID) (leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u leave.User
	var uid, gender string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, gender FROM users WHERE workspace_id = ? AND id = ?`,
		workspaceID, string(id)).Scan(&uid, &u.WorkspaceID, &u.Name, &gender)
	if err == sql.ErrNoRows {
		return leave.User{}, leave.ErrUserNotFound
	}
	if err != nil {
		return leave.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	u.ID = leave.UserID(uid)
	u.Gender = leave.Gender(gender)
	return u, nil
}

// SaveUser inserts or replaces a directory record.
func (s *Store) SaveUser(ctx context.Context, u leave.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users (id, workspace_id, name, gender, created_at)
		VALUES (?, ?, ?, ?, datetime('now'))`,
		string(u.ID), u.WorkspaceID, u.Name, string(u.Gender))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// =============================================================================
// RECORD STORE
// =============================================================================

func (s *Store) ApprovedIntervals(ctx context.Context, workspaceID string, userID leave.UserID, typeID leave.LeaveTypeID, year int) ([]calendar.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	yearSpan := calendar.Year(year)
	rows, err := s.db.QueryContext(ctx, `
		SELECT start_date, end_date FROM leave_requests
		WHERE workspace_id = ? AND user_id = ? AND leave_type_id = ?
		  AND status = ? AND start_date >= ? AND start_date <= ?
		ORDER BY start_date`,
		workspaceID, string(userID), string(typeID), string(leave.StatusApproved),
		yearSpan.Start.String(), yearSpan.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load approved intervals: %w", err)
	}
	defer rows.Close()

	var spans []calendar.Period
	for rows.Next() {
		var start, end string
		if err := rows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan interval: %w", err)
		}
		span, err := parsePeriod(start, end)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return spans, rows.Err()
}

func (s *Store) RequestsByUser(ctx context.Context, workspaceID string, userID leave.UserID) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workspace_id, user_id, leave_type_id, start_date, end_date,
		       status, COALESCE(reason, ''), created_at
		FROM leave_requests
		WHERE workspace_id = ? AND user_id = ?
		ORDER BY start_date`,
		workspaceID, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var r leave.LeaveRequest
		var id, uid, tid, start, end, status, createdAt string
		if err := rows.Scan(&id, &r.WorkspaceID, &uid, &tid, &start, &end, &status, &r.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		r.ID = leave.RequestID(id)
		r.UserID = leave.UserID(uid)
		r.LeaveTypeID = leave.LeaveTypeID(tid)
		r.Status = leave.RequestStatus(status)
		span, err := parsePeriod(start, end)
		if err != nil {
			return nil, err
		}
		r.Span = span
		// created_at may carry a time component; only the date part
		// matters for frequency windows.
		if len(createdAt) >= 10 {
			if created, perr := calendar.Parse(createdAt[:10]); perr == nil {
				r.CreatedAt = created
			}
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) HasApprovedSince(ctx context.Context, workspaceID string, userID leave.UserID, typeID leave.LeaveTypeID, since calendar.TimePoint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM leave_requests
		WHERE workspace_id = ? AND user_id = ? AND leave_type_id = ?
		  AND status = ? AND created_at >= ?`,
		workspaceID, string(userID), string(typeID),
		string(leave.StatusApproved), since.String()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check frequency window: %w", err)
	}
	return count > 0, nil
}

// SaveRequest inserts a leave request, generating an ID when absent.
// CreatedAt defaults to today when zero.
func (s *Store) SaveRequest(ctx context.Context, r leave.LeaveRequest) (leave.RequestID, error) {
	if err := r.Span.Validate(); err != nil {
		return "", err
	}
	if r.ID == "" {
		r.ID = leave.RequestID(uuid.NewString())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := r.CreatedAt.String()
	if r.CreatedAt.IsZero() {
		createdAt = calendar.FromTime(timeNow()).String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests
		(id, workspace_id, user_id, leave_type_id, start_date, end_date, status, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), r.WorkspaceID, string(r.UserID), string(r.LeaveTypeID),
		r.Span.Start.String(), r.Span.End.String(), string(r.Status), r.Reason, createdAt)
	if err != nil {
		return "", fmt.Errorf("failed to save request: %w", err)
	}
	return r.ID, nil
}

// UpdateRequestStatus moves a request through the approval workflow.
// The workflow itself (who may approve) is external; this is plumbing.
func (s *Store) UpdateRequestStatus(ctx context.Context, id leave.RequestID, status leave.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE leave_requests SET status = ? WHERE id = ?`,
		string(status), string(id))
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("request %q not found", id)
	}
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

func (s *Store) IsHoliday(ctx context.Context, workspaceID string, date calendar.TimePoint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := date.String()
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM holidays
		WHERE (workspace_id = ? OR workspace_id = '')
		  AND start_date <= ? AND end_date >= ?`,
		workspaceID, d, d).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return count > 0, nil
}

func (s *Store) HolidaysInRange(ctx context.Context, workspaceID string, span calendar.Period) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workspace_id, start_date, end_date, name, recurring
		FROM holidays
		WHERE (workspace_id = ? OR workspace_id = '')
		  AND start_date <= ? AND end_date >= ?
		ORDER BY start_date`,
		workspaceID, span.End.String(), span.Start.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	defer rows.Close()

	return scanHolidays(rows)
}

// ListRecurringHolidays returns all recurring holiday records across every
// workspace. Used by the holiday-generation job.
func (s *Store) ListRecurringHolidays(ctx context.Context) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workspace_id, start_date, end_date, name, recurring
		FROM holidays WHERE recurring = TRUE
		ORDER BY workspace_id, start_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring holidays: %w", err)
	}
	defer rows.Close()

	return scanHolidays(rows)
}

// SaveHoliday inserts a holiday, generating an ID when absent. Duplicate
// (workspace, date, name) rows are ignored so generation jobs stay
// idempotent.
func (s *Store) SaveHoliday(ctx context.Context, h calendar.Holiday) error {
	if err := h.Span.Validate(); err != nil {
		return err
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO holidays
		(id, workspace_id, start_date, end_date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))`,
		h.ID, h.WorkspaceID, h.Span.Start.String(), h.Span.End.String(),
		h.Name, h.Recurring)
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

func scanHolidays(rows *sql.Rows) ([]calendar.Holiday, error) {
	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		var start, end string
		if err := rows.Scan(&h.ID, &h.WorkspaceID, &start, &end, &h.Name, &h.Recurring); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		span, err := parsePeriod(start, end)
		if err != nil {
			return nil, err
		}
		h.Span = span
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func parsePeriod(start, end string) (calendar.Period, error) {
	s, err := calendar.Parse(start)
	if err != nil {
		return calendar.Period{}, err
	}
	e, err := calendar.Parse(end)
	if err != nil {
		return calendar.Period{}, err
	}
	return calendar.Period{Start: s, End: e}, nil
}
