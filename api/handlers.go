/*
handlers.go - HTTP API handlers for the FMLA compliance tracker

PURPOSE:
  Exposes the compliance engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine. Nothing here computes a
  deadline; handlers load records, call the engine, and format the result.

ENDPOINTS:
  Leave requests:
    POST   /api/leave-requests             Create leave request
    GET    /api/leave-requests             List (status=, at_risk_only=)
    GET    /api/leave-requests/{id}        Get one
    PATCH  /api/leave-requests/{id}        Partial update
    DELETE /api/leave-requests/{id}        Delete

  Timeline and compliance:
    GET    /api/timeline/{id}              Ordered event timeline
    GET    /api/timeline/{id}/compliance   ComplianceStatus
    GET    /api/alerts                     All at-risk requests, most urgent first

  Notifications:
    POST   /api/notifications              Generate from template kind
    GET    /api/notifications              List (type=, unread_only=)
    GET    /api/notifications/request/{id} Per-request, newest first
    PATCH  /api/notifications/{id}         Update read status
    DELETE /api/notifications/{id}         Delete

  Analytics:
    GET    /api/analytics/summary          Aggregate report

  Scenarios:
    GET    /api/scenarios                  List demo scenarios
    POST   /api/scenarios/load             Load a demo scenario
    POST   /api/scenarios/reset            Clear all data

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, unknown notification types
  - 404: Record not found
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/fmla-tracker/fmla"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    fmla.Store
	Clock    fmla.Clock
	Checker  *fmla.ComplianceChecker
	Timeline *fmla.TimelineGenerator
	Notify   *fmla.NotificationBuilder
	Reports  *fmla.ReportBuilder
	Logger   *zap.Logger

	// Track currently loaded scenario. Guarded by mu: load/reset handlers
	// write it while other requests read it.
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler wired to the given store and clock.
func NewHandler(store fmla.Store, clock fmla.Clock, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    store,
		Clock:    clock,
		Checker:  fmla.NewComplianceChecker(clock),
		Timeline: fmla.NewTimelineGenerator(clock),
		Notify:   fmla.NewNotificationBuilder(clock),
		Reports:  fmla.NewReportBuilder(clock),
		Logger:   logger,
	}
}

func (h *Handler) calc() *fmla.DeadlineCalculator { return h.Checker.Calc }

func (h *Handler) setScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}

func (h *Handler) scenario() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentScenario
}

// =============================================================================
// LEAVE REQUEST HANDLERS
// =============================================================================

// CreateLeaveRequest creates a new leave request.
func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var body CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req, err := body.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", err)
		return
	}

	req.ID = newRequestID()
	req.CreatedAt = h.Clock.Today()
	req.NoticeDate = req.NoticeDateOr(h.Clock.Today())

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", err)
		return
	}

	if err := h.Store.SaveLeaveRequest(r.Context(), req); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save leave request", err)
		return
	}

	h.Logger.Info("leave request created",
		zap.String("request_id", req.ID),
		zap.String("status", string(req.Status)))

	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(req))
}

// ListLeaveRequests lists requests with optional status and at-risk filters.
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListLeaveRequests(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave requests", err)
		return
	}

	if statusFilter := r.URL.Query().Get("status"); statusFilter != "" {
		status, err := parseLeaveStatus(statusFilter)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid status filter", err)
			return
		}
		var filtered []*fmla.LeaveRequest
		for _, req := range reqs {
			if req.Status == status {
				filtered = append(filtered, req)
			}
		}
		reqs = filtered
	}

	if r.URL.Query().Get("at_risk_only") == "true" {
		var filtered []*fmla.LeaveRequest
		for _, req := range reqs {
			if h.Checker.CheckCompliance(req).AtRisk {
				filtered = append(filtered, req)
			}
		}
		reqs = filtered
	}

	dtos := make([]LeaveRequestDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = toLeaveRequestDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLeaveRequest returns a single leave request.
func (h *Handler) GetLeaveRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(req))
}

// UpdateLeaveRequest applies a partial update to a request.
func (h *Handler) UpdateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}

	var body UpdateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if body.Status != nil {
		status, err := parseLeaveStatus(*body.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid status", err)
			return
		}
		req.Status = status
	}
	if body.ComplianceFlags != nil {
		req.ComplianceFlags = *body.ComplianceFlags
	}
	if body.NoticeDate != nil {
		notice, err := fmla.ParseDate(*body.NoticeDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid notice date", err)
			return
		}
		req.NoticeDate = notice
	}
	if body.Provider != nil {
		provider := fmla.MedicalProvider{
			Name:             body.Provider.Name,
			Phone:            body.Provider.Phone,
			SignaturePresent: body.Provider.SignaturePresent,
		}
		if body.Provider.DateSigned != "" {
			signed, err := fmla.ParseDate(body.Provider.DateSigned)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid date signed", err)
				return
			}
			provider.DateSigned = signed
		}
		req.MedicalProvider = provider
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", err)
		return
	}

	if err := h.Store.UpdateLeaveRequest(r.Context(), req); err != nil {
		writeStoreError(w, err, "Failed to update leave request")
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(req))
}

// DeleteLeaveRequest removes a request.
func (h *Handler) DeleteLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteLeaveRequest(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete leave request")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TIMELINE AND COMPLIANCE HANDLERS
// =============================================================================

// GetTimeline returns the ordered event timeline for a request.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Timeline.GenerateTimeline(req))
}

// GetCompliance returns the compliance status for a request.
func (h *Handler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Checker.CheckCompliance(req))
}

// GetAlerts returns all at-risk requests, most severe and most urgent first,
// each with its compliance view and at-risk timeline events.
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListLeaveRequests(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave requests", err)
		return
	}

	atRisk := h.Checker.AllAtRisk(reqs)
	alerts := make([]AlertDTO, len(atRisk))
	for i, entry := range atRisk {
		events := h.Timeline.AtRiskEvents(entry.Request, fmla.DefaultWarningDays)
		if events == nil {
			events = []fmla.TimelineEvent{}
		}
		alerts[i] = AlertDTO{
			Request:      toLeaveRequestDTO(entry.Request),
			Compliance:   entry.Compliance,
			AtRiskEvents: events,
		}
	}
	writeJSON(w, http.StatusOK, alerts)
}

// =============================================================================
// NOTIFICATION HANDLERS
// =============================================================================

// CreateNotification generates a notification from a template kind, applies
// any caller overrides, and persists it.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var body CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req, err := h.Store.GetLeaveRequest(r.Context(), body.RequestID)
	if err != nil {
		writeStoreError(w, err, "Failed to load leave request")
		return
	}

	notification, err := h.Notify.Build(req, fmla.NotificationType(body.Type), h.notificationParams(req))
	if err != nil {
		if fmla.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Failed to build notification", err)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to build notification", err)
		}
		return
	}

	if body.Subject != "" {
		notification.Subject = body.Subject
	}
	if body.Body != "" {
		notification.Body = body.Body
	}

	if err := h.Store.SaveNotification(r.Context(), notification); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save notification", err)
		return
	}

	h.Logger.Info("notification generated",
		zap.String("notification_id", notification.ID),
		zap.String("request_id", notification.RequestID),
		zap.String("type", string(notification.Type)))

	writeJSON(w, http.StatusCreated, toNotificationDTO(notification))
}

// notificationParams computes the per-kind template inputs from the request's
// deadlines. Deadline strings are pre-rendered here so the builder stays a
// pure formatter.
func (h *Handler) notificationParams(req *fmla.LeaveRequest) fmla.NotificationParams {
	notice := req.NoticeDateOr(h.Clock.Today())
	certDeadline := h.calc().CertificationDeadline(req.Leave.StartDate, notice)
	_, cureEnd := h.calc().CureWindow(certDeadline)
	recertDate := h.calc().RecertificationDate(req.Leave.StartDate, req.Leave.ConditionType)
	_ = recertDate // NotificationParams has no field for the recertification date

	return fmla.NotificationParams{
		Deadline:      certDeadline.String(),
		CureWindowEnd: cureEnd.String(),
		MissingItems:  req.ComplianceFlags,
		DenialReason:  "Incomplete or missing medical certification",
	}
}

// ListNotifications lists notifications with optional filters.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Store.ListNotifications(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}

	typeFilter := r.URL.Query().Get("type")
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	dtos := []NotificationDTO{}
	for _, n := range notifications {
		if typeFilter != "" && string(n.Type) != typeFilter {
			continue
		}
		if unreadOnly && n.ReadStatus {
			continue
		}
		dtos = append(dtos, toNotificationDTO(n))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListRequestNotifications lists a request's notifications, newest first.
func (h *Handler) ListRequestNotifications(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetLeaveRequest(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to load leave request")
		return
	}

	notifications, err := h.Store.NotificationsByRequest(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}

	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = toNotificationDTO(n)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateNotification sets the read status.
func (h *Handler) UpdateNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body UpdateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	notification, err := h.Store.SetReadStatus(r.Context(), id, body.ReadStatus)
	if err != nil {
		writeStoreError(w, err, "Failed to update notification")
		return
	}
	writeJSON(w, http.StatusOK, toNotificationDTO(notification))
}

// DeleteNotification removes a notification.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteNotification(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ANALYTICS HANDLERS
// =============================================================================

// GetAnalyticsSummary returns the aggregate report across all requests.
func (h *Handler) GetAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListLeaveRequests(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave requests", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Reports.Summarize(reqs))
}

// =============================================================================
// HELPERS
// =============================================================================

// loadRequest fetches the {id} request, writing the error response itself
// when the lookup fails.
func (h *Handler) loadRequest(w http.ResponseWriter, r *http.Request) (*fmla.LeaveRequest, bool) {
	id := chi.URLParam(r, "id")
	req, err := h.Store.GetLeaveRequest(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Failed to load leave request")
		return nil, false
	}
	return req, true
}

func newRequestID() string {
	id := uuid.New()
	return "req-" + id.String()[:8]
}

func writeStoreError(w http.ResponseWriter, err error, message string) {
	if fmla.IsNotFound(err) {
		writeError(w, http.StatusNotFound, message, err)
		return
	}
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
