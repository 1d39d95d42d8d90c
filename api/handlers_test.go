/*
handlers_test.go - HTTP-level tests for the API handlers

Requests go through the real router so URL params, methods, and status
codes are exercised exactly as clients see them. The clock is pinned so
risk levels in responses are deterministic.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/fmla-tracker/fmla"
	"github.com/warp/fmla-tracker/fmla/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testToday = fmla.NewDate(2026, time.March, 15)

func newTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	h := NewHandler(store.NewMemory(), fmla.FixedClock{Date: testToday}, zap.NewNop())
	return h, NewRouter(h, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func createBody(name string) CreateLeaveRequest {
	return CreateLeaveRequest{
		Employee: EmployeeDTO{
			Name:     name,
			SSNLast4: "1234",
			Phone:    "555-010-0000",
			Email:    "test@example.com",
		},
		Leave: LeaveDTO{
			StartDate:     testToday.AddDays(40).String(),
			EndDate:       testToday.AddDays(100).String(),
			ConditionType: "serious",
		},
		MedicalProvider: MedicalProviderDTO{Name: "Dr. Test"},
		Status:          "pending",
		NoticeDate:      testToday.AddDays(-2).String(),
	}
}

func createRequest(t *testing.T, router http.Handler, body CreateLeaveRequest) LeaveRequestDTO {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/leave-requests", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto LeaveRequestDTO
	decodeInto(t, rec, &dto)
	return dto
}

// =============================================================================
// LEAVE REQUEST ENDPOINT TESTS
// =============================================================================

func TestCreateLeaveRequest_Success(t *testing.T) {
	// GIVEN: A valid create body
	// WHEN: POSTing it
	// THEN: 201 with a server-assigned id and today's creation date

	_, router := newTestServer(t)
	dto := createRequest(t, router, createBody("Alice Johnson"))

	assert.Regexp(t, `^req-[0-9a-f]{8}$`, dto.ID)
	assert.Equal(t, "Alice Johnson", dto.Employee.Name)
	assert.Equal(t, testToday.String(), dto.CreatedAt)
	assert.Equal(t, "pending", dto.Status)
}

func TestCreateLeaveRequest_NoticeDefaultsToToday(t *testing.T) {
	_, router := newTestServer(t)
	body := createBody("Alice Johnson")
	body.NoticeDate = ""

	dto := createRequest(t, router, body)
	assert.Equal(t, testToday.String(), dto.NoticeDate)
}

func TestCreateLeaveRequest_ValidationFailure(t *testing.T) {
	// GIVEN: A body with a malformed SSN
	// WHEN: POSTing it
	// THEN: 400 with the field in the error details

	_, router := newTestServer(t)
	body := createBody("Alice Johnson")
	body.Employee.SSNLast4 = "12"

	rec := doJSON(t, router, http.MethodPost, "/api/leave-requests", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp ErrorResponse
	decodeInto(t, rec, &errResp)
	assert.Contains(t, errResp.Details, "ssn_last4")
}

func TestCreateLeaveRequest_UnknownStatus(t *testing.T) {
	_, router := newTestServer(t)
	body := createBody("Alice Johnson")
	body.Status = "maybe"

	rec := doJSON(t, router, http.MethodPost, "/api/leave-requests", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLeaveRequest_NotFound(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/leave-requests/req-missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLeaveRequests_StatusFilter(t *testing.T) {
	// GIVEN: One pending and one approved request
	// WHEN: Filtering by status
	// THEN: Only matching requests return

	_, router := newTestServer(t)
	createRequest(t, router, createBody("Pending Person"))
	approved := createBody("Approved Person")
	approved.Status = "approved"
	approved.MedicalProvider.SignaturePresent = true
	approved.MedicalProvider.DateSigned = testToday.String()
	createRequest(t, router, approved)

	rec := doJSON(t, router, http.MethodGet, "/api/leave-requests?status=approved", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []LeaveRequestDTO
	decodeInto(t, rec, &dtos)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Approved Person", dtos[0].Employee.Name)
}

func TestListLeaveRequests_AtRiskFilter(t *testing.T) {
	// GIVEN: A safe request and one with an imminent deadline
	// WHEN: Filtering to at-risk only
	// THEN: Only the at-risk request returns

	_, router := newTestServer(t)

	safe := createBody("Safe Person")
	safe.MedicalProvider.SignaturePresent = true
	safe.MedicalProvider.DateSigned = testToday.String()
	createRequest(t, router, safe)

	urgent := createBody("Urgent Person")
	urgent.NoticeDate = testToday.AddDays(-13).String() // deadline in 2 days
	createRequest(t, router, urgent)

	rec := doJSON(t, router, http.MethodGet, "/api/leave-requests?at_risk_only=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []LeaveRequestDTO
	decodeInto(t, rec, &dtos)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Urgent Person", dtos[0].Employee.Name)
}

func TestUpdateLeaveRequest_PartialFields(t *testing.T) {
	// GIVEN: An existing request
	// WHEN: PATCHing only the status and flags
	// THEN: Those change, everything else stays

	_, router := newTestServer(t)
	created := createRequest(t, router, createBody("Alice Johnson"))

	status := "awaiting_docs"
	flags := []string{"missing_physician_phone"}
	rec := doJSON(t, router, http.MethodPatch, "/api/leave-requests/"+created.ID, UpdateLeaveRequest{
		Status:          &status,
		ComplianceFlags: &flags,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto LeaveRequestDTO
	decodeInto(t, rec, &dto)
	assert.Equal(t, "awaiting_docs", dto.Status)
	assert.Equal(t, flags, dto.ComplianceFlags)
	assert.Equal(t, "Alice Johnson", dto.Employee.Name)
	assert.Equal(t, created.NoticeDate, dto.NoticeDate)
}

func TestUpdateLeaveRequest_NotFound(t *testing.T) {
	_, router := newTestServer(t)
	status := "approved"

	rec := doJSON(t, router, http.MethodPatch, "/api/leave-requests/req-missing", UpdateLeaveRequest{
		Status: &status,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteLeaveRequest(t *testing.T) {
	_, router := newTestServer(t)
	created := createRequest(t, router, createBody("Alice Johnson"))

	rec := doJSON(t, router, http.MethodDelete, "/api/leave-requests/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/leave-requests/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// TIMELINE AND COMPLIANCE ENDPOINT TESTS
// =============================================================================

func TestGetTimeline(t *testing.T) {
	_, router := newTestServer(t)
	created := createRequest(t, router, createBody("Alice Johnson"))

	rec := doJSON(t, router, http.MethodGet, "/api/timeline/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []fmla.TimelineEvent
	decodeInto(t, rec, &events)
	// No signature means cure window events are present.
	assert.Len(t, events, 6)
}

func TestGetCompliance(t *testing.T) {
	// GIVEN: A request with notice 13 days ago and no certification
	// WHEN: Fetching compliance
	// THEN: Medium risk with the deadline 2 days out

	_, router := newTestServer(t)
	body := createBody("Alice Johnson")
	body.NoticeDate = testToday.AddDays(-13).String()
	created := createRequest(t, router, body)

	rec := doJSON(t, router, http.MethodGet, "/api/timeline/"+created.ID+"/compliance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status fmla.ComplianceStatus
	decodeInto(t, rec, &status)
	assert.Equal(t, created.ID, status.RequestID)
	assert.Equal(t, 2, status.DaysUntilCertificationDeadline)
	assert.Equal(t, fmla.RiskMedium, status.RiskLevel)
}

func TestGetAlerts_OrderedBySeverity(t *testing.T) {
	_, router := newTestServer(t)

	low := createBody("Low Risk")
	low.NoticeDate = testToday.AddDays(-9).String() // deadline in 6 days
	createRequest(t, router, low)

	high := createBody("High Risk")
	high.NoticeDate = testToday.AddDays(-17).String() // deadline 2 days past
	createRequest(t, router, high)

	rec := doJSON(t, router, http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var alerts []AlertDTO
	decodeInto(t, rec, &alerts)
	require.Len(t, alerts, 2)
	assert.Equal(t, "High Risk", alerts[0].Request.Employee.Name)
	assert.Equal(t, fmla.RiskHigh, alerts[0].Compliance.RiskLevel)
	assert.NotEmpty(t, alerts[0].AtRiskEvents)
	assert.Equal(t, "Low Risk", alerts[1].Request.Employee.Name)
}

// =============================================================================
// NOTIFICATION ENDPOINT TESTS
// =============================================================================

func TestCreateNotification_FromTemplate(t *testing.T) {
	// GIVEN: A stored request
	// WHEN: Generating a certification_due notification
	// THEN: The body carries the computed deadline

	_, router := newTestServer(t)
	created := createRequest(t, router, createBody("Alice Johnson"))

	rec := doJSON(t, router, http.MethodPost, "/api/notifications", CreateNotificationRequest{
		RequestID: created.ID,
		Type:      "certification_due",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto NotificationDTO
	decodeInto(t, rec, &dto)
	assert.Equal(t, created.ID, dto.RequestID)
	assert.Equal(t, "test@example.com", dto.Recipient)
	// Deadline = notice (-2 days) + 15.
	assert.Contains(t, dto.Body, testToday.AddDays(13).String())
}

func TestCreateNotification_UnknownType(t *testing.T) {
	_, router := newTestServer(t)
	created := createRequest(t, router, createBody("Alice Johnson"))

	rec := doJSON(t, router, http.MethodPost, "/api/notifications", CreateNotificationRequest{
		RequestID: created.ID,
		Type:      "smoke_signal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNotification_UnknownRequest(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/notifications", CreateNotificationRequest{
		RequestID: "req-missing",
		Type:      "approval_notice",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListNotifications_Filters(t *testing.T) {
	_, router := newTestServer(t)
	created := createRequest(t, router, createBody("Alice Johnson"))

	for _, kind := range []string{"approval_notice", "certification_due"} {
		rec := doJSON(t, router, http.MethodPost, "/api/notifications", CreateNotificationRequest{
			RequestID: created.ID,
			Type:      kind,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/notifications?type=approval_notice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []NotificationDTO
	decodeInto(t, rec, &dtos)
	require.Len(t, dtos, 1)
	assert.Equal(t, "approval_notice", dtos[0].Type)

	// Mark it read, then the unread filter excludes it.
	rec = doJSON(t, router, http.MethodPatch, "/api/notifications/"+dtos[0].ID, UpdateNotificationRequest{
		ReadStatus: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/notifications?unread_only=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &dtos)
	require.Len(t, dtos, 1)
	assert.Equal(t, "certification_due", dtos[0].Type)
}

func TestNotificationsByRequest_UnknownRequest(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/notifications/request/req-missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteNotification(t *testing.T) {
	_, router := newTestServer(t)
	created := createRequest(t, router, createBody("Alice Johnson"))

	rec := doJSON(t, router, http.MethodPost, "/api/notifications", CreateNotificationRequest{
		RequestID: created.ID,
		Type:      "approval_notice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var dto NotificationDTO
	decodeInto(t, rec, &dto)

	rec = doJSON(t, router, http.MethodDelete, "/api/notifications/"+dto.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/notifications/"+dto.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ANALYTICS ENDPOINT TESTS
// =============================================================================

func TestGetAnalyticsSummary(t *testing.T) {
	_, router := newTestServer(t)
	createRequest(t, router, createBody("Alice Johnson"))
	approved := createBody("Bob Martinez")
	approved.Status = "approved"
	createRequest(t, router, approved)

	rec := doJSON(t, router, http.MethodGet, "/api/analytics/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary fmla.LeaveSummary
	decodeInto(t, rec, &summary)
	assert.Equal(t, 2, summary.TotalRequests)
	assert.Equal(t, 1, summary.ByStatus[fmla.StatusPending])
	assert.Equal(t, 1, summary.ByStatus[fmla.StatusApproved])
	// 61 inclusive days each.
	assert.Equal(t, 61, summary.LongestLeaveDays)
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
