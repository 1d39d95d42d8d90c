/*
Package jsonfile provides a flat-file JSON implementation of fmla.Store.

PURPOSE:
  The file half of the storage duality: everything lives in one JSON
  document on disk, rewritten atomically on every mutation. Suited to demos
  and single-operator deployments; the relational store covers everything
  else.

FILE FORMAT:
  {
    "leave_requests":  [ ... ],
    "notifications":   [ ... ]
  }

CONCURRENCY:
  A single RWMutex serializes access. Writes go to a temp file in the same
  directory and rename over the original, so a crash mid-write never leaves
  a torn document.

SEE ALSO:
  - fmla/store.go: Interface definitions
  - store/sqlite: Relational implementation
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/warp/fmla-tracker/fmla"
)

// Store implements fmla.Store on a single JSON file.
type Store struct {
	path string

	mu   sync.RWMutex
	data document
}

type document struct {
	LeaveRequests []*fmla.LeaveRequest `json:"leave_requests"`
	Notifications []*fmla.Notification `json:"notifications"`
}

var _ fmla.Store = (*Store)(nil)

// cloneRequest copies a request, including the flags slice, so callers and
// the document never share a backing array.
func cloneRequest(req *fmla.LeaveRequest) *fmla.LeaveRequest {
	clone := *req
	clone.ComplianceFlags = append([]string(nil), req.ComplianceFlags...)
	return &clone
}

// New opens (or creates) the JSON store at path.
func New(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	return s, nil
}

// flush writes the document atomically. Caller holds the write lock.
func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".fmla-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Reset drops all stored data. Used by the demo scenario loader.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = document{}
	return s.flush()
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (s *Store) SaveLeaveRequest(_ context.Context, req *fmla.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := cloneRequest(req)
	for i, existing := range s.data.LeaveRequests {
		if existing.ID == req.ID {
			s.data.LeaveRequests[i] = clone
			return s.flush()
		}
	}
	s.data.LeaveRequests = append(s.data.LeaveRequests, clone)
	return s.flush()
}

func (s *Store) GetLeaveRequest(_ context.Context, id string) (*fmla.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, req := range s.data.LeaveRequests {
		if req.ID == id {
			return cloneRequest(req), nil
		}
	}
	return nil, fmla.ErrRequestNotFound
}

func (s *Store) ListLeaveRequests(_ context.Context) ([]*fmla.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*fmla.LeaveRequest, len(s.data.LeaveRequests))
	for i, req := range s.data.LeaveRequests {
		out[i] = cloneRequest(req)
	}
	return out, nil
}

func (s *Store) UpdateLeaveRequest(_ context.Context, req *fmla.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.data.LeaveRequests {
		if existing.ID == req.ID {
			s.data.LeaveRequests[i] = cloneRequest(req)
			return s.flush()
		}
	}
	return fmla.ErrRequestNotFound
}

func (s *Store) DeleteLeaveRequest(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.data.LeaveRequests {
		if existing.ID == id {
			s.data.LeaveRequests = append(s.data.LeaveRequests[:i], s.data.LeaveRequests[i+1:]...)
			return s.flush()
		}
	}
	return fmla.ErrRequestNotFound
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (s *Store) SaveNotification(_ context.Context, n *fmla.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *n
	for i, existing := range s.data.Notifications {
		if existing.ID == n.ID {
			s.data.Notifications[i] = &clone
			return s.flush()
		}
	}
	s.data.Notifications = append(s.data.Notifications, &clone)
	return s.flush()
}

func (s *Store) ListNotifications(_ context.Context) ([]*fmla.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*fmla.Notification) bool { return true }), nil
}

func (s *Store) NotificationsByRequest(_ context.Context, requestID string) ([]*fmla.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(n *fmla.Notification) bool { return n.RequestID == requestID }), nil
}

// collect returns matching notifications newest first. Caller holds a lock.
func (s *Store) collect(match func(*fmla.Notification) bool) []*fmla.Notification {
	var out []*fmla.Notification
	for _, n := range s.data.Notifications {
		if match(n) {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) SetReadStatus(_ context.Context, id string, read bool) (*fmla.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.data.Notifications {
		if n.ID == id {
			n.ReadStatus = read
			if err := s.flush(); err != nil {
				return nil, err
			}
			clone := *n
			return &clone, nil
		}
	}
	return nil, fmla.ErrNotificationNotFound
}

func (s *Store) DeleteNotification(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.data.Notifications {
		if n.ID == id {
			s.data.Notifications = append(s.data.Notifications[:i], s.data.Notifications[i+1:]...)
			return s.flush()
		}
	}
	return fmla.ErrNotificationNotFound
}
