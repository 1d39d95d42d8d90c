/*
Package fmla implements the FMLA compliance engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking FMLA
  leave-request compliance: statutory deadline calculation, compliance and
  risk classification, timeline generation, and notification text rendering.
  It performs no I/O; stores and HTTP are collaborators behind interfaces.

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaveRequest: An employee's FMLA leave request (immutable input snapshot)
  - ComplianceStatus: Derived, time-relative compliance view of a request
  - Notification: Generated notice text (never transmitted by this package)
  - Status/type enums: LeaveStatus, ConditionType, RiskLevel, NotificationType

DESIGN PRINCIPLES:
  1. Purity: Every operation is a function of (inputs, Clock). No caching;
     ComplianceStatus is recomputed per call because its meaning is relative
     to "today".
  2. Calendar arithmetic: All deadlines use calendar days. Weekends and
     holidays are never skipped.
  3. Immutability: The engine never mutates a LeaveRequest.

USAGE:
  checker := fmla.NewComplianceChecker(fmla.SystemClock{})
  status := checker.CheckCompliance(req)
  if status.AtRisk {
      // escalate
  }

SEE ALSO:
  - deadline.go: Statutory deadline arithmetic
  - compliance.go: Compliance and risk classification
  - timeline.go: Dated event timeline
  - notify.go: Notification templates
  - store.go: Persistence collaborator interfaces
*/
package fmla

import "time"

// =============================================================================
// LEAVE REQUEST
// =============================================================================

// LeaveStatus is the workflow state of a leave request.
type LeaveStatus string

const (
	StatusPending      LeaveStatus = "pending"
	StatusApproved     LeaveStatus = "approved"
	StatusDenied       LeaveStatus = "denied"
	StatusAwaitingDocs LeaveStatus = "awaiting_docs"
)

// ConditionType selects the recertification cadence.
type ConditionType string

const (
	// ConditionSerious requires recertification 30 days after leave start.
	ConditionSerious ConditionType = "serious"
	// ConditionChronic requires recertification every 6 months.
	ConditionChronic ConditionType = "chronic"
)

// Employee identifies the employee on a leave request.
type Employee struct {
	Name     string `json:"name"`
	SSNLast4 string `json:"ssn_last4"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	State    string `json:"state,omitempty"`
}

// Leave holds the dates and kind of the requested leave.
// Invariant: EndDate >= StartDate.
type Leave struct {
	StartDate     Date          `json:"start_date"`
	EndDate       Date          `json:"end_date"`
	Intermittent  bool          `json:"intermittent"`
	ConditionType ConditionType `json:"condition_type"`
}

// MedicalProvider holds the certifying provider's details.
type MedicalProvider struct {
	Name             string `json:"name"`
	Phone            string `json:"phone,omitempty"`
	SignaturePresent bool   `json:"signature_present"`
	DateSigned       Date   `json:"date_signed,omitempty"`
}

// LeaveRequest is a complete FMLA leave request. The engine treats it as an
// immutable snapshot per call; ownership stays with the calling layer.
type LeaveRequest struct {
	ID              string          `json:"id"`
	Employee        Employee        `json:"employee"`
	Leave           Leave           `json:"leave"`
	MedicalProvider MedicalProvider `json:"medical_provider"`

	// ComplianceFlags are free-text issue codes (e.g. "missing_physician_phone").
	// Order is irrelevant; an empty set means the certification is complete.
	ComplianceFlags []string `json:"compliance_flags"`

	Status LeaveStatus `json:"status"`

	// NoticeDate is when the employee gave notice. Zero means "not recorded";
	// the engine substitutes today at evaluation time.
	NoticeDate Date `json:"notice_date,omitempty"`

	CreatedAt Date `json:"created_at"`
}

// NoticeDateOr returns the recorded notice date, or fallback when none is set.
func (r *LeaveRequest) NoticeDateOr(fallback Date) Date {
	if r.NoticeDate.IsZero() {
		return fallback
	}
	return r.NoticeDate
}

// =============================================================================
// COMPLIANCE STATUS - Derived, time-relative view
// =============================================================================

// RiskLevel classifies how urgently a request needs attention.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// riskRank orders risk levels most severe first, for at-risk sorting.
func riskRank(r RiskLevel) int {
	switch r {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	case RiskLow:
		return 2
	default:
		return 3
	}
}

// ComplianceStatus is the compliance view of a leave request relative to a
// given "today". It is recomputed on every call and never persisted by the
// engine.
type ComplianceStatus struct {
	RequestID             string `json:"request_id"`
	IsCompliant           bool   `json:"is_compliant"`
	CertificationReceived bool   `json:"certification_received"`
	CertificationComplete bool   `json:"certification_complete"`
	CertificationDeadline Date   `json:"certification_deadline"`

	// DaysUntilCertificationDeadline is signed: negative means overdue.
	DaysUntilCertificationDeadline int `json:"days_until_certification_deadline"`

	InCureWindow bool `json:"in_cure_window"`

	// CureWindowEnd is set only while InCureWindow is true.
	CureWindowEnd Date `json:"cure_window_end,omitempty"`

	ComplianceIssues []string  `json:"compliance_issues"`
	AtRisk           bool      `json:"at_risk"`
	RiskLevel        RiskLevel `json:"risk_level"`
}

// =============================================================================
// NOTIFICATION - Generated notice text
// =============================================================================

// NotificationType selects one of the six fixed templates.
type NotificationType string

const (
	NotifyCertificationDue   NotificationType = "certification_due"
	NotifyCureWindow         NotificationType = "cure_window"
	NotifyRecertificationDue NotificationType = "recertification_due"
	NotifyApprovalNotice     NotificationType = "approval_notice"
	NotifyDenialNotice       NotificationType = "denial_notice"
	NotifyMissingDocs        NotificationType = "missing_docs"
)

// Notification is a generated notice. The engine's responsibility ends at
// producing the text; delivery and storage belong to the caller.
type Notification struct {
	ID         string           `json:"id"`
	RequestID  string           `json:"request_id"`
	Type       NotificationType `json:"type"`
	Recipient  string           `json:"recipient"`
	Subject    string           `json:"subject"`
	Body       string           `json:"body"`
	CreatedAt  time.Time        `json:"created_at"`
	ReadStatus bool             `json:"read_status"`
}
