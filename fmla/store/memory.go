// Package store provides an in-memory fmla.Store implementation.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/fmla-tracker/fmla"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	requests      map[string]*fmla.LeaveRequest
	requestOrder  []string
	notifications map[string]*fmla.Notification
}

var _ fmla.Store = (*Memory)(nil)

// cloneRequest copies a request including its flags slice, so callers and
// the store never share mutable state.
func cloneRequest(req *fmla.LeaveRequest) *fmla.LeaveRequest {
	clone := *req
	clone.ComplianceFlags = append([]string(nil), req.ComplianceFlags...)
	return &clone
}

func NewMemory() *Memory {
	return &Memory{
		requests:      make(map[string]*fmla.LeaveRequest),
		notifications: make(map[string]*fmla.Notification),
	}
}

// Reset drops all stored data. Used by the demo scenario loader.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]*fmla.LeaveRequest)
	m.requestOrder = nil
	m.notifications = make(map[string]*fmla.Notification)
	return nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (m *Memory) SaveLeaveRequest(_ context.Context, req *fmla.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.requests[req.ID]; !exists {
		m.requestOrder = append(m.requestOrder, req.ID)
	}
	m.requests[req.ID] = cloneRequest(req)
	return nil
}

func (m *Memory) GetLeaveRequest(_ context.Context, id string) (*fmla.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, fmla.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (m *Memory) ListLeaveRequests(_ context.Context) ([]*fmla.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*fmla.LeaveRequest, 0, len(m.requestOrder))
	for _, id := range m.requestOrder {
		out = append(out, cloneRequest(m.requests[id]))
	}
	return out, nil
}

func (m *Memory) UpdateLeaveRequest(_ context.Context, req *fmla.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[req.ID]; !ok {
		return fmla.ErrRequestNotFound
	}
	m.requests[req.ID] = cloneRequest(req)
	return nil
}

func (m *Memory) DeleteLeaveRequest(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[id]; !ok {
		return fmla.ErrRequestNotFound
	}
	delete(m.requests, id)
	for i, rid := range m.requestOrder {
		if rid == id {
			m.requestOrder = append(m.requestOrder[:i], m.requestOrder[i+1:]...)
			break
		}
	}
	return nil
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (m *Memory) SaveNotification(_ context.Context, n *fmla.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *n
	m.notifications[n.ID] = &clone
	return nil
}

func (m *Memory) ListNotifications(_ context.Context) ([]*fmla.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*fmla.Notification) bool { return true }), nil
}

func (m *Memory) NotificationsByRequest(_ context.Context, requestID string) ([]*fmla.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(n *fmla.Notification) bool { return n.RequestID == requestID }), nil
}

// collect returns matching notifications newest first. Caller holds the lock.
func (m *Memory) collect(match func(*fmla.Notification) bool) []*fmla.Notification {
	var out []*fmla.Notification
	for _, n := range m.notifications {
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

func (m *Memory) SetReadStatus(_ context.Context, id string, read bool) (*fmla.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, fmla.ErrNotificationNotFound
	}
	n.ReadStatus = read
	clone := *n
	return &clone, nil
}

func (m *Memory) DeleteNotification(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notifications[id]; !ok {
		return fmla.ErrNotificationNotFound
	}
	delete(m.notifications, id)
	return nil
}
