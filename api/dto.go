/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (parseable dates, known enum values) happens while
  converting a request into domain types; field-level rules live in
  fmla.LeaveRequest.Validate.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/fmla-tracker/fmla"
)

// =============================================================================
// LEAVE REQUEST TYPES
// =============================================================================

// CreateLeaveRequest is the request body for creating a leave request.
// The server assigns the id, the creation date, and a notice date of today
// when none is supplied.
type CreateLeaveRequest struct {
	Employee        EmployeeDTO        `json:"employee"`
	Leave           LeaveDTO           `json:"leave"`
	MedicalProvider MedicalProviderDTO `json:"medical_provider"`
	ComplianceFlags []string           `json:"compliance_flags"`
	Status          string             `json:"status"`
	NoticeDate      string             `json:"notice_date,omitempty"`
}

// UpdateLeaveRequest carries partial updates; nil fields are left unchanged.
type UpdateLeaveRequest struct {
	Status          *string             `json:"status,omitempty"`
	ComplianceFlags *[]string           `json:"compliance_flags,omitempty"`
	NoticeDate      *string             `json:"notice_date,omitempty"`
	Provider        *MedicalProviderDTO `json:"medical_provider,omitempty"`
}

type EmployeeDTO struct {
	Name     string `json:"name"`
	SSNLast4 string `json:"ssn_last4"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	State    string `json:"state,omitempty"`
}

type LeaveDTO struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Intermittent  bool   `json:"intermittent"`
	ConditionType string `json:"condition_type"`
}

type MedicalProviderDTO struct {
	Name             string `json:"name"`
	Phone            string `json:"phone,omitempty"`
	SignaturePresent bool   `json:"signature_present"`
	DateSigned       string `json:"date_signed,omitempty"`
}

// LeaveRequestDTO is the response shape for a leave request.
type LeaveRequestDTO struct {
	ID              string             `json:"id"`
	Employee        EmployeeDTO        `json:"employee"`
	Leave           LeaveDTO           `json:"leave"`
	MedicalProvider MedicalProviderDTO `json:"medical_provider"`
	ComplianceFlags []string           `json:"compliance_flags"`
	Status          string             `json:"status"`
	NoticeDate      string             `json:"notice_date,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

// =============================================================================
// NOTIFICATION TYPES
// =============================================================================

// CreateNotificationRequest generates a notification from a template kind.
// Subject and body, when set, override the generated text before persistence.
type CreateNotificationRequest struct {
	RequestID string `json:"request_id"`
	Type      string `json:"type"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body,omitempty"`
}

// UpdateNotificationRequest flips the read status.
type UpdateNotificationRequest struct {
	ReadStatus bool `json:"read_status"`
}

type NotificationDTO struct {
	ID         string `json:"id"`
	RequestID  string `json:"request_id"`
	Type       string `json:"type"`
	Recipient  string `json:"recipient"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"`
	ReadStatus bool   `json:"read_status"`
}

// =============================================================================
// ALERT TYPES
// =============================================================================

// AlertDTO pairs an at-risk request with its compliance view and the
// timeline events that put it at risk.
type AlertDTO struct {
	Request      LeaveRequestDTO       `json:"request"`
	Compliance   fmla.ComplianceStatus `json:"compliance"`
	AtRiskEvents []fmla.TimelineEvent  `json:"at_risk_events"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toLeaveRequestDTO(req *fmla.LeaveRequest) LeaveRequestDTO {
	flags := req.ComplianceFlags
	if flags == nil {
		flags = []string{}
	}
	return LeaveRequestDTO{
		ID: req.ID,
		Employee: EmployeeDTO{
			Name:     req.Employee.Name,
			SSNLast4: req.Employee.SSNLast4,
			Phone:    req.Employee.Phone,
			Email:    req.Employee.Email,
			State:    req.Employee.State,
		},
		Leave: LeaveDTO{
			StartDate:     req.Leave.StartDate.String(),
			EndDate:       req.Leave.EndDate.String(),
			Intermittent:  req.Leave.Intermittent,
			ConditionType: string(req.Leave.ConditionType),
		},
		MedicalProvider: MedicalProviderDTO{
			Name:             req.MedicalProvider.Name,
			Phone:            req.MedicalProvider.Phone,
			SignaturePresent: req.MedicalProvider.SignaturePresent,
			DateSigned:       dateString(req.MedicalProvider.DateSigned),
		},
		ComplianceFlags: flags,
		Status:          string(req.Status),
		NoticeDate:      dateString(req.NoticeDate),
		CreatedAt:       req.CreatedAt.String(),
	}
}

func toNotificationDTO(n *fmla.Notification) NotificationDTO {
	return NotificationDTO{
		ID:         n.ID,
		RequestID:  n.RequestID,
		Type:       string(n.Type),
		Recipient:  n.Recipient,
		Subject:    n.Subject,
		Body:       n.Body,
		CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339),
		ReadStatus: n.ReadStatus,
	}
}

func dateString(d fmla.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// toDomain converts a create request into a domain LeaveRequest without id,
// creation date, or notice-date defaulting; the handler fills those in.
func (c *CreateLeaveRequest) toDomain() (*fmla.LeaveRequest, error) {
	startDate, err := fmla.ParseDate(c.Leave.StartDate)
	if err != nil {
		return nil, &fmla.ValidationError{Field: "leave.start_date", Reason: err.Error()}
	}
	endDate, err := fmla.ParseDate(c.Leave.EndDate)
	if err != nil {
		return nil, &fmla.ValidationError{Field: "leave.end_date", Reason: err.Error()}
	}

	req := &fmla.LeaveRequest{
		Employee: fmla.Employee{
			Name:     c.Employee.Name,
			SSNLast4: c.Employee.SSNLast4,
			Phone:    c.Employee.Phone,
			Email:    c.Employee.Email,
			State:    c.Employee.State,
		},
		Leave: fmla.Leave{
			StartDate:     startDate,
			EndDate:       endDate,
			Intermittent:  c.Leave.Intermittent,
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{
			Name:             c.MedicalProvider.Name,
			Phone:            c.MedicalProvider.Phone,
			SignaturePresent: c.MedicalProvider.SignaturePresent,
		},
		ComplianceFlags: c.ComplianceFlags,
		Status:          fmla.StatusPending,
	}

	if c.Leave.ConditionType != "" {
		ct, err := parseConditionType(c.Leave.ConditionType)
		if err != nil {
			return nil, err
		}
		req.Leave.ConditionType = ct
	}
	if c.Status != "" {
		status, err := parseLeaveStatus(c.Status)
		if err != nil {
			return nil, err
		}
		req.Status = status
	}
	if c.MedicalProvider.DateSigned != "" {
		signed, err := fmla.ParseDate(c.MedicalProvider.DateSigned)
		if err != nil {
			return nil, &fmla.ValidationError{Field: "medical_provider.date_signed", Reason: err.Error()}
		}
		req.MedicalProvider.DateSigned = signed
	}
	if c.NoticeDate != "" {
		notice, err := fmla.ParseDate(c.NoticeDate)
		if err != nil {
			return nil, &fmla.ValidationError{Field: "notice_date", Reason: err.Error()}
		}
		req.NoticeDate = notice
	}

	return req, nil
}

func parseLeaveStatus(s string) (fmla.LeaveStatus, error) {
	switch fmla.LeaveStatus(s) {
	case fmla.StatusPending, fmla.StatusApproved, fmla.StatusDenied, fmla.StatusAwaitingDocs:
		return fmla.LeaveStatus(s), nil
	}
	return "", &fmla.ValidationError{Field: "status", Reason: "unknown status " + s}
}

func parseConditionType(s string) (fmla.ConditionType, error) {
	switch fmla.ConditionType(s) {
	case fmla.ConditionSerious, fmla.ConditionChronic:
		return fmla.ConditionType(s), nil
	}
	return "", &fmla.ValidationError{Field: "leave.condition_type", Reason: "unknown condition type " + s}
}
