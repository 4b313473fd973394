/*
Package sqlite provides the SQLite-backed persistence for the attendance
engine's inputs.

PURPOSE:
  Stores clock events, the employee roster, and the schedule definition
  (templates -> rules -> shifts -> assignments), and serves them to the
  engine as consistent snapshots. The engine itself performs no I/O; every
  report reads its inputs here first and then computes.

KEY TABLES:
  events:               Raw clock punches from devices (append-heavy)
  employees:            Roster with active flag
  schedule_templates:   Named rule bundles
  schedule_rules:       Weekday spec + priority per template
  schedule_shifts:      HH:MM windows + grace/break minutes per rule
  schedule_assignments: employee -> template (at most one per employee)

SNAPSHOT READS:
  ScheduleSnapshot loads every template with its rules and shifts in one
  pass; reports resolve shifts from that in-memory snapshot instead of
  querying per employee/day. This replaces the legacy process-wide
  memoized lookups: one explicit read per report, passed down as a
  parameter.

TIMESTAMPS:
  Events are stored as naive local "YYYY-MM-DD HH:MM:SS" strings, the
  engine's wall-clock convention. Incoming device timestamps are parsed
  through engine.ParseWallClock before they get here.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/: The pure computation consuming these rows
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/attendance-engine/engine"
)

// Store implements the engine's input contracts using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
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
	-- Raw clock punches
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		device_id TEXT,
		timestamp TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_events_employee_timestamp
		ON events(employee_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp
		ON events(timestamp);

	-- Employee roster
	CREATE TABLE IF NOT EXISTS employees (
		employee_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	-- Schedule definition: templates -> rules -> shifts
	CREATE TABLE IF NOT EXISTS schedule_templates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS schedule_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		template_id INTEGER NOT NULL,
		weekdays TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(template_id) REFERENCES schedule_templates(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_rules_template
		ON schedule_rules(template_id, priority, id);

	CREATE TABLE IF NOT EXISTS schedule_shifts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rule_id INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		grace_minutes INTEGER NOT NULL DEFAULT 0,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(rule_id) REFERENCES schedule_rules(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_rule
		ON schedule_shifts(rule_id, start_time, id);

	-- Template assignment: at most one per employee
	CREATE TABLE IF NOT EXISTS schedule_assignments (
		employee_id TEXT PRIMARY KEY,
		template_id INTEGER NOT NULL,
		assigned_at TEXT NOT NULL DEFAULT (datetime('now')),
		FOREIGN KEY(template_id) REFERENCES schedule_templates(id) ON DELETE CASCADE
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EVENTS
// =============================================================================

// InsertEvent records one punch. The timestamp must already be engine
// wall-clock (parse at the ingestion boundary, not here).
func (s *Store) InsertEvent(ctx context.Context, e engine.Event, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (employee_id, device_id, timestamp) VALUES (?, ?, ?)`,
		string(e.EmployeeID), nullString(deviceID), e.At.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// InsertEvents records a batch of punches atomically.
func (s *Store) InsertEvents(ctx context.Context, events []engine.Event, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (employee_id, device_id, timestamp) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, string(e.EmployeeID), nullString(deviceID), e.At.String()); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}
	return tx.Commit()
}

// EventsInRange returns all events with from <= timestamp <= to, ordered by
// employee then time. employeeID, when non-empty, filters to one employee.
func (s *Store) EventsInRange(ctx context.Context, from, to engine.WallClock, employeeID engine.EmployeeID) ([]engine.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if to.Before(from) {
		return nil, engine.ErrInvalidRange
	}

	query := `
		SELECT employee_id, timestamp
		FROM events
		WHERE timestamp >= ? AND timestamp <= ?
	`
	args := []any{from.String(), to.String()}
	if employeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, string(employeeID))
	}
	query += " ORDER BY employee_id, timestamp ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []engine.Event
	for rows.Next() {
		var empID, ts string
		if err := rows.Scan(&empID, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		at, ok := engine.ParseWallClock(ts)
		if !ok {
			// A row that predates timestamp normalization; skip rather
			// than poison the whole range.
			continue
		}
		out = append(out, engine.Event{EmployeeID: engine.EmployeeID(empID), At: at})
	}
	return out, rows.Err()
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates a roster entry.
func (s *Store) SaveEmployee(ctx context.Context, entry engine.RosterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (employee_id, name, is_active)
		VALUES (?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET name = excluded.name, is_active = excluded.is_active
	`, string(entry.EmployeeID), entry.Name, boolToInt(entry.IsActive))
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// Roster returns all employees, numeric ids first in numeric order (the
// payroll export ordering).
func (s *Store) Roster(ctx context.Context) ([]engine.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, name, is_active
		FROM employees
		ORDER BY CAST(employee_id AS INTEGER) ASC, employee_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var out []engine.RosterEntry
	for rows.Next() {
		var id, name string
		var active int
		if err := rows.Scan(&id, &name, &active); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, engine.RosterEntry{
			EmployeeID: engine.EmployeeID(id),
			Name:       name,
			IsActive:   active != 0,
		})
	}
	return out, rows.Err()
}

// GetEmployee returns one roster entry, or nil when absent.
func (s *Store) GetEmployee(ctx context.Context, id engine.EmployeeID) (*engine.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var name string
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT name, is_active FROM employees WHERE employee_id = ?`,
		string(id),
	).Scan(&name, &active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &engine.RosterEntry{EmployeeID: id, Name: name, IsActive: active != 0}, nil
}

// =============================================================================
// SCHEDULE DEFINITION
// =============================================================================

// CreateTemplate inserts a template and returns its id.
func (s *Store) CreateTemplate(ctx context.Context, name, description string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule_templates (name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create template: %w", err)
	}
	return res.LastInsertId()
}

// AddRule inserts a rule with its shift windows atomically and returns the
// rule id. The weekday spec is stored as given; parsing happens when the
// snapshot is loaded, and a malformed spec simply never matches.
func (s *Store) AddRule(ctx context.Context, templateID int64, weekdays string, priority int, shifts []engine.ShiftWindow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedule_templates WHERE id = ?`, templateID,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check template: %w", err)
	}
	if exists == 0 {
		return 0, engine.ErrTemplateNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO schedule_rules (template_id, weekdays, priority) VALUES (?, ?, ?)`,
		templateID, weekdays, priority,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert rule: %w", err)
	}
	ruleID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, sh := range shifts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_shifts (rule_id, start_time, end_time, grace_minutes, break_minutes)
			VALUES (?, ?, ?, ?, ?)
		`, ruleID, sh.StartTime, sh.EndTime, sh.GraceMinutes, sh.BreakMinutes)
		if err != nil {
			return 0, fmt.Errorf("failed to insert shift: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return ruleID, nil
}

// AssignTemplate binds an employee to a template. templateID 0 clears the
// assignment.
func (s *Store) AssignTemplate(ctx context.Context, employeeID engine.EmployeeID, templateID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if templateID == 0 {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM schedule_assignments WHERE employee_id = ?`, string(employeeID))
		return err
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedule_templates WHERE id = ?`, templateID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check template: %w", err)
	}
	if exists == 0 {
		return engine.ErrTemplateNotFound
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedule_assignments (employee_id, template_id, assigned_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(employee_id) DO UPDATE SET template_id = excluded.template_id, assigned_at = excluded.assigned_at
	`, string(employeeID), templateID)
	if err != nil {
		return fmt.Errorf("failed to assign template: %w", err)
	}
	return nil
}

// =============================================================================
// SCHEDULE SNAPSHOT
// =============================================================================

// Snapshot is one consistent read of the whole schedule definition. Reports
// take it once and resolve shifts from memory for every employee/day in the
// run.
type Snapshot struct {
	Templates   map[int64]*engine.ScheduleTemplate
	Assignments map[engine.EmployeeID]int64
}

// TemplateFor returns the employee's assigned template, nil when none.
func (sn *Snapshot) TemplateFor(id engine.EmployeeID) *engine.ScheduleTemplate {
	tplID, ok := sn.Assignments[id]
	if !ok {
		return nil
	}
	return sn.Templates[tplID]
}

// Lookup adapts the snapshot to the engine's ScheduleLookup contract.
func (sn *Snapshot) Lookup() engine.ScheduleLookup {
	return func(id engine.EmployeeID, day engine.WallClock) []engine.ResolvedShift {
		return engine.ExpectedShifts(sn.TemplateFor(id), day)
	}
}

// ScheduleSnapshot loads every template with its rules and shifts plus all
// assignments in one read.
func (s *Store) ScheduleSnapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Templates:   make(map[int64]*engine.ScheduleTemplate),
		Assignments: make(map[engine.EmployeeID]int64),
	}

	tplRows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM schedule_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer tplRows.Close()
	for tplRows.Next() {
		var tpl engine.ScheduleTemplate
		if err := tplRows.Scan(&tpl.ID, &tpl.Name); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		snap.Templates[tpl.ID] = &tpl
	}
	if err := tplRows.Err(); err != nil {
		return nil, err
	}

	ruleRows, err := s.db.QueryContext(ctx, `
		SELECT id, template_id, weekdays, priority
		FROM schedule_rules
		ORDER BY template_id, priority ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer ruleRows.Close()

	ruleToTemplate := make(map[int64]int64)
	for ruleRows.Next() {
		var id, tplID int64
		var weekdays string
		var priority int
		if err := ruleRows.Scan(&id, &tplID, &weekdays, &priority); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		tpl, ok := snap.Templates[tplID]
		if !ok {
			continue
		}
		tpl.Rules = append(tpl.Rules, engine.ScheduleRule{
			ID:       id,
			Weekdays: engine.ParseWeekdays(weekdays),
			Priority: priority,
		})
		ruleToTemplate[id] = tplID
	}
	if err := ruleRows.Err(); err != nil {
		return nil, err
	}

	shiftRows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_id, start_time, end_time, grace_minutes, break_minutes
		FROM schedule_shifts
		ORDER BY rule_id, start_time ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer shiftRows.Close()
	for shiftRows.Next() {
		var sh engine.ShiftWindow
		var ruleID int64
		if err := shiftRows.Scan(&sh.ID, &ruleID, &sh.StartTime, &sh.EndTime, &sh.GraceMinutes, &sh.BreakMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		tplID, ok := ruleToTemplate[ruleID]
		if !ok {
			continue
		}
		tpl := snap.Templates[tplID]
		for i := range tpl.Rules {
			if tpl.Rules[i].ID == ruleID {
				tpl.Rules[i].Shifts = append(tpl.Rules[i].Shifts, sh)
				break
			}
		}
	}
	if err := shiftRows.Err(); err != nil {
		return nil, err
	}

	asgRows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, template_id FROM schedule_assignments`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer asgRows.Close()
	for asgRows.Next() {
		var empID string
		var tplID int64
		if err := asgRows.Scan(&empID, &tplID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		snap.Assignments[engine.EmployeeID(empID)] = tplID
	}
	return snap, asgRows.Err()
}

// TemplateByID loads one template with rules and shifts, nil when absent.
func (s *Store) TemplateByID(ctx context.Context, id int64) (*engine.ScheduleTemplate, error) {
	snap, err := s.ScheduleSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Templates[id], nil
}

// ListTemplates returns all templates with their rules and shifts, by id.
func (s *Store) ListTemplates(ctx context.Context) ([]*engine.ScheduleTemplate, error) {
	snap, err := s.ScheduleSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*engine.ScheduleTemplate, 0, len(snap.Templates))
	for _, tpl := range snap.Templates {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
