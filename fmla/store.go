/*
store.go - Persistence interfaces for leave requests and notifications

PURPOSE:
  Defines the boundary between the engine and whatever stores the records.
  The engine only ever reads LeaveRequest snapshots and hands Notification
  values back; durability, transactions, and formats are the store's problem.
  Implementations exist for memory (fmla/store), SQLite (store/sqlite), and a
  flat JSON file (store/jsonfile), so either persistence strategy can sit
  behind the same interface without touching calculation logic.

SEE ALSO:
  - fmla/store/memory.go: In-memory implementation for tests and dev
  - store/sqlite/sqlite.go: Relational implementation
  - store/jsonfile/jsonfile.go: Flat-file implementation
*/
package fmla

import "context"

// RecordStore supplies and persists leave requests. The engine itself only
// needs the read half; the write half serves the HTTP layer.
type RecordStore interface {
	// SaveLeaveRequest persists a new request.
	SaveLeaveRequest(ctx context.Context, req *LeaveRequest) error

	// GetLeaveRequest returns a request by id, or ErrRequestNotFound.
	GetLeaveRequest(ctx context.Context, id string) (*LeaveRequest, error)

	// ListLeaveRequests returns all requests, in insertion order.
	ListLeaveRequests(ctx context.Context) ([]*LeaveRequest, error)

	// UpdateLeaveRequest replaces an existing request, or ErrRequestNotFound.
	UpdateLeaveRequest(ctx context.Context, req *LeaveRequest) error

	// DeleteLeaveRequest removes a request, or ErrRequestNotFound.
	DeleteLeaveRequest(ctx context.Context, id string) error
}

// NotificationStore persists generated notifications.
type NotificationStore interface {
	// SaveNotification persists a generated notification.
	SaveNotification(ctx context.Context, n *Notification) error

	// ListNotifications returns all notifications, newest first.
	ListNotifications(ctx context.Context) ([]*Notification, error)

	// NotificationsByRequest returns a request's notifications, newest first.
	NotificationsByRequest(ctx context.Context, requestID string) ([]*Notification, error)

	// SetReadStatus updates read state, or ErrNotificationNotFound.
	SetReadStatus(ctx context.Context, id string, read bool) (*Notification, error)

	// DeleteNotification removes a notification, or ErrNotificationNotFound.
	DeleteNotification(ctx context.Context, id string) error
}

// Store combines both persistence concerns; every provided implementation
// satisfies it.
type Store interface {
	RecordStore
	NotificationStore

	// Reset drops all stored data. Used by the demo scenario loader.
	Reset(ctx context.Context) error
}
