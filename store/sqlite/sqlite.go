/*
Package sqlite provides a SQLite-backed implementation of fmla.Store.

PURPOSE:
  The relational half of the storage duality: leave requests and generated
  notifications live in two tables, with employee/leave/provider fields
  flattened into columns and compliance flags kept as a JSON array. The same
  patterns apply to PostgreSQL; only minor SQL dialect differences.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not block
  and crash recovery is cheap.

MIGRATION:
  Schema is auto-migrated on New(). Deadlines, compliance state, and
  timelines are never persisted here: they are time-relative and recomputed
  by the engine on every read.

USAGE:
  store, err := sqlite.New("./data/fmla.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - fmla/store.go: Interface definitions
  - fmla/store/memory.go: In-memory implementation for testing
  - store/jsonfile: Flat-file implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/fmla-tracker/fmla"
)

// Store implements fmla.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ fmla.Store = (*Store)(nil)

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
	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_name TEXT NOT NULL,
		employee_ssn_last4 TEXT NOT NULL,
		employee_phone TEXT NOT NULL,
		employee_email TEXT,
		employee_state TEXT,
		leave_start TEXT NOT NULL,
		leave_end TEXT NOT NULL,
		intermittent BOOLEAN NOT NULL DEFAULT FALSE,
		condition_type TEXT NOT NULL,
		provider_name TEXT NOT NULL,
		provider_phone TEXT,
		signature_present BOOLEAN NOT NULL DEFAULT FALSE,
		date_signed TEXT,
		compliance_flags TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL,
		notice_date TEXT,
		created_at TEXT NOT NULL,
		seq INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_leave_start
		ON leave_requests(leave_start);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		type TEXT NOT NULL,
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TEXT NOT NULL,
		read_status BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_request
		ON notifications(request_id);
	CREATE INDEX IF NOT EXISTS idx_notifications_created
		ON notifications(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset drops all stored data. Used by the demo scenario loader.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM notifications;
		DELETE FROM leave_requests;
	`)
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	return nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (s *Store) SaveLeaveRequest(ctx context.Context, req *fmla.LeaveRequest) error {
	flags, err := json.Marshal(flagsOrEmpty(req.ComplianceFlags))
	if err != nil {
		return fmt.Errorf("failed to encode compliance flags: %w", err)
	}

	// seq preserves insertion order across INSERT OR REPLACE.
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO leave_requests (
			id, employee_name, employee_ssn_last4, employee_phone,
			employee_email, employee_state,
			leave_start, leave_end, intermittent, condition_type,
			provider_name, provider_phone, signature_present, date_signed,
			compliance_flags, status, notice_date, created_at, seq
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,
			COALESCE((SELECT seq FROM leave_requests WHERE id = ?),
				(SELECT COALESCE(MAX(seq), 0) + 1 FROM leave_requests)))
	`,
		req.ID, req.Employee.Name, req.Employee.SSNLast4, req.Employee.Phone,
		nullable(req.Employee.Email), nullable(req.Employee.State),
		req.Leave.StartDate.String(), req.Leave.EndDate.String(),
		req.Leave.Intermittent, string(req.Leave.ConditionType),
		req.MedicalProvider.Name, nullable(req.MedicalProvider.Phone),
		req.MedicalProvider.SignaturePresent, dateOrNull(req.MedicalProvider.DateSigned),
		string(flags), string(req.Status), dateOrNull(req.NoticeDate),
		req.CreatedAt.String(), req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

func (s *Store) GetLeaveRequest(ctx context.Context, id string) (*fmla.LeaveRequest, error) {
	row := s.db.QueryRowContext(ctx, selectRequest+" WHERE id = ?", id)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmla.ErrRequestNotFound
	}
	return req, err
}

func (s *Store) ListLeaveRequests(ctx context.Context) ([]*fmla.LeaveRequest, error) {
	rows, err := s.db.QueryContext(ctx, selectRequest+" ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var out []*fmla.LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) UpdateLeaveRequest(ctx context.Context, req *fmla.LeaveRequest) error {
	if _, err := s.GetLeaveRequest(ctx, req.ID); err != nil {
		return err
	}
	return s.SaveLeaveRequest(ctx, req)
}

func (s *Store) DeleteLeaveRequest(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leave_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmla.ErrRequestNotFound
	}
	return nil
}

const selectRequest = `
	SELECT id, employee_name, employee_ssn_last4, employee_phone,
		employee_email, employee_state,
		leave_start, leave_end, intermittent, condition_type,
		provider_name, provider_phone, signature_present, date_signed,
		compliance_flags, status, notice_date, created_at
	FROM leave_requests`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*fmla.LeaveRequest, error) {
	var (
		req                     fmla.LeaveRequest
		email, state, provPhone sql.NullString
		leaveStart, leaveEnd    string
		condition, status       string
		createdAt               string
		dateSigned, noticeDate  sql.NullString
		flagsJSON               string
	)

	err := row.Scan(
		&req.ID, &req.Employee.Name, &req.Employee.SSNLast4, &req.Employee.Phone,
		&email, &state,
		&leaveStart, &leaveEnd, &req.Leave.Intermittent, &condition,
		&req.MedicalProvider.Name, &provPhone,
		&req.MedicalProvider.SignaturePresent, &dateSigned,
		&flagsJSON, &status, &noticeDate, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	req.Employee.Email = email.String
	req.Employee.State = state.String
	req.MedicalProvider.Phone = provPhone.String
	req.Leave.ConditionType = fmla.ConditionType(condition)
	req.Status = fmla.LeaveStatus(status)

	if req.Leave.StartDate, err = fmla.ParseDate(leaveStart); err != nil {
		return nil, err
	}
	if req.Leave.EndDate, err = fmla.ParseDate(leaveEnd); err != nil {
		return nil, err
	}
	if req.CreatedAt, err = fmla.ParseDate(createdAt); err != nil {
		return nil, err
	}
	if dateSigned.Valid {
		if req.MedicalProvider.DateSigned, err = fmla.ParseDate(dateSigned.String); err != nil {
			return nil, err
		}
	}
	if noticeDate.Valid {
		if req.NoticeDate, err = fmla.ParseDate(noticeDate.String); err != nil {
			return nil, err
		}
	}

	if err := json.Unmarshal([]byte(flagsJSON), &req.ComplianceFlags); err != nil {
		return nil, fmt.Errorf("failed to decode compliance flags: %w", err)
	}

	return &req, nil
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (s *Store) SaveNotification(ctx context.Context, n *fmla.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO notifications (
			id, request_id, type, recipient, subject, body, created_at, read_status
		) VALUES (?,?,?,?,?,?,?,?)
	`, n.ID, n.RequestID, string(n.Type), n.Recipient, n.Subject, n.Body,
		n.CreatedAt.UTC().Format(time.RFC3339Nano), n.ReadStatus)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context) ([]*fmla.Notification, error) {
	return s.queryNotifications(ctx, selectNotification+" ORDER BY created_at DESC")
}

func (s *Store) NotificationsByRequest(ctx context.Context, requestID string) ([]*fmla.Notification, error) {
	return s.queryNotifications(ctx,
		selectNotification+" WHERE request_id = ? ORDER BY created_at DESC", requestID)
}

func (s *Store) SetReadStatus(ctx context.Context, id string, read bool) (*fmla.Notification, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read_status = ? WHERE id = ?`, read, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmla.ErrNotificationNotFound
	}

	row := s.db.QueryRowContext(ctx, selectNotification+" WHERE id = ?", id)
	return scanNotification(row)
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmla.ErrNotificationNotFound
	}
	return nil
}

const selectNotification = `
	SELECT id, request_id, type, recipient, subject, body, created_at, read_status
	FROM notifications`

func (s *Store) queryNotifications(ctx context.Context, query string, args ...any) ([]*fmla.Notification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []*fmla.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNotification(row rowScanner) (*fmla.Notification, error) {
	var (
		n         fmla.Notification
		kind      string
		createdAt string
	)
	err := row.Scan(&n.ID, &n.RequestID, &kind, &n.Recipient, &n.Subject, &n.Body,
		&createdAt, &n.ReadStatus)
	if err == sql.ErrNoRows {
		return nil, fmla.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	n.Type = fmla.NotificationType(kind)
	if n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse notification timestamp: %w", err)
	}
	return &n, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func dateOrNull(d fmla.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func flagsOrEmpty(flags []string) []string {
	if flags == nil {
		return []string{}
	}
	return flags
}
