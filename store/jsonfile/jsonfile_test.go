package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/fmla-tracker/fmla"
	"github.com/warp/fmla-tracker/store/jsonfile"
)

func newTestStore(t *testing.T) (*jsonfile.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fmla.json")
	s, err := jsonfile.New(path)
	require.NoError(t, err)
	return s, path
}

func sampleRequest(id string) *fmla.LeaveRequest {
	return &fmla.LeaveRequest{
		ID: id,
		Employee: fmla.Employee{
			Name:     "Test Employee",
			SSNLast4: "1234",
			Phone:    "555-010-0000",
			Email:    "test@example.com",
		},
		Leave: fmla.Leave{
			StartDate:     fmla.NewDate(2026, time.April, 1),
			EndDate:       fmla.NewDate(2026, time.May, 1),
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{Name: "Dr. Test"},
		ComplianceFlags: []string{"missing_physician_phone"},
		Status:          fmla.StatusPending,
		NoticeDate:      fmla.NewDate(2026, time.March, 20),
		CreatedAt:       fmla.NewDate(2026, time.March, 20),
	}
}

// =============================================================================
// PERSISTENCE TESTS
// =============================================================================

func TestJSONFile_DataSurvivesReopen(t *testing.T) {
	// GIVEN: A store with a saved request and notification
	// WHEN: Opening a fresh store on the same file
	// THEN: Everything is still there

	s, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLeaveRequest(ctx, sampleRequest("req-1")))
	require.NoError(t, s.SaveNotification(ctx, &fmla.Notification{
		ID:        "n-1",
		RequestID: "req-1",
		Type:      fmla.NotifyApprovalNotice,
		Recipient: "test@example.com",
		Subject:   "Approved",
		Body:      "Body",
		CreatedAt: time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC),
	}))

	reopened, err := jsonfile.New(path)
	require.NoError(t, err)

	got, err := reopened.GetLeaveRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Employee", got.Employee.Name)
	assert.Equal(t, fmla.NewDate(2026, time.April, 1), got.Leave.StartDate)

	ns, err := reopened.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "n-1", ns[0].ID)
}

func TestJSONFile_MissingFile_StartsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	reqs, err := s.ListLeaveRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestJSONFile_CorruptFile_Rejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmla.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := jsonfile.New(path)
	assert.Error(t, err)
}

// =============================================================================
// CRUD TESTS
// =============================================================================

func TestJSONFile_List_InsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"req-b", "req-a", "req-c"} {
		require.NoError(t, s.SaveLeaveRequest(ctx, sampleRequest(id)))
	}
	// Re-saving keeps position.
	require.NoError(t, s.SaveLeaveRequest(ctx, sampleRequest("req-b")))

	reqs, err := s.ListLeaveRequests(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, "req-b", reqs[0].ID)
	assert.Equal(t, "req-a", reqs[1].ID)
	assert.Equal(t, "req-c", reqs[2].ID)
}

func TestJSONFile_UpdateAndDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLeaveRequest(ctx, sampleRequest("req-1")))

	updated := sampleRequest("req-1")
	updated.Status = fmla.StatusDenied
	require.NoError(t, s.UpdateLeaveRequest(ctx, updated))

	got, err := s.GetLeaveRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, fmla.StatusDenied, got.Status)

	require.NoError(t, s.DeleteLeaveRequest(ctx, "req-1"))
	_, err = s.GetLeaveRequest(ctx, "req-1")
	assert.ErrorIs(t, err, fmla.ErrRequestNotFound)
}

func TestJSONFile_CallerMutation_DoesNotLeakIn(t *testing.T) {
	// GIVEN: A saved request whose flags slice the caller still holds
	// WHEN: The caller mutates the slice after saving, and another caller
	//       mutates the slice returned by Get
	// THEN: The stored copy is unaffected either way

	s, _ := newTestStore(t)
	ctx := context.Background()

	req := sampleRequest("req-1")
	require.NoError(t, s.SaveLeaveRequest(ctx, req))
	req.ComplianceFlags[0] = "mutated after save"

	got, err := s.GetLeaveRequest(ctx, "req-1")
	require.NoError(t, err)
	require.Equal(t, "missing_physician_phone", got.ComplianceFlags[0])
	got.ComplianceFlags[0] = "mutated after get"

	listed, err := s.ListLeaveRequests(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "missing_physician_phone", listed[0].ComplianceFlags[0])
	listed[0].ComplianceFlags[0] = "mutated after list"

	got, err = s.GetLeaveRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "missing_physician_phone", got.ComplianceFlags[0])
}

func TestJSONFile_NotFoundErrors(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetLeaveRequest(ctx, "missing")
	assert.ErrorIs(t, err, fmla.ErrRequestNotFound)
	assert.ErrorIs(t, s.UpdateLeaveRequest(ctx, sampleRequest("missing")), fmla.ErrRequestNotFound)
	assert.ErrorIs(t, s.DeleteLeaveRequest(ctx, "missing"), fmla.ErrRequestNotFound)

	_, err = s.SetReadStatus(ctx, "missing", true)
	assert.ErrorIs(t, err, fmla.ErrNotificationNotFound)
	assert.ErrorIs(t, s.DeleteNotification(ctx, "missing"), fmla.ErrNotificationNotFound)
}

func TestJSONFile_Notifications_NewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"n-old", "n-mid", "n-new"} {
		require.NoError(t, s.SaveNotification(ctx, &fmla.Notification{
			ID:        id,
			RequestID: "req-1",
			Type:      fmla.NotifyCertificationDue,
			Recipient: "test@example.com",
			Subject:   "S",
			Body:      "B",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	ns, err := s.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, ns, 3)
	assert.Equal(t, "n-new", ns[0].ID)
	assert.Equal(t, "n-old", ns[2].ID)
}

func TestJSONFile_Reset(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLeaveRequest(ctx, sampleRequest("req-1")))
	require.NoError(t, s.Reset(ctx))

	reqs, err := s.ListLeaveRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)

	// The empty state is flushed, so a reopen is also empty.
	reopened, err := jsonfile.New(path)
	require.NoError(t, err)
	reqs, err = reopened.ListLeaveRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}
