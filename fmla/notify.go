/*
notify.go - Notification text templates

PURPOSE:
  Renders the six fixed notification templates. Pure formatting: the only
  logic is template selection by kind and the recipient fallback. Deadline
  strings are supplied by the caller (computed via DeadlineCalculator) so the
  builder itself needs no date arithmetic.

DELIVERY:
  Notifications are text artifacts. This package never sends anything;
  persistence and delivery belong to the caller.

SEE ALSO:
  - types.go: Notification and NotificationType
  - errors.go: ErrUnknownNotificationType
*/
package fmla

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NotificationBuilder renders notification text for leave requests.
type NotificationBuilder struct {
	Clock Clock
}

func NewNotificationBuilder(clock Clock) *NotificationBuilder {
	return &NotificationBuilder{Clock: clock}
}

// NotificationParams carries the per-kind inputs the templates reference.
// Only the fields relevant to the requested kind are read.
type NotificationParams struct {
	// Deadline is the pre-computed date string for certification_due and
	// recertification_due notices.
	Deadline string

	// CureWindowEnd is the pre-computed end date string for cure_window notices.
	CureWindowEnd string

	// MissingItems lists outstanding documentation for cure_window and
	// missing_docs notices.
	MissingItems []string

	// DenialReason is the stated reason for denial_notice.
	DenialReason string
}

// Build renders the template for the given kind. Unknown kinds return
// ErrUnknownNotificationType with no partial notification.
func (b *NotificationBuilder) Build(req *LeaveRequest, kind NotificationType, params NotificationParams) (*Notification, error) {
	var subject, body string

	switch kind {
	case NotifyCertificationDue:
		subject, body = b.certificationDue(req, params.Deadline)
	case NotifyCureWindow:
		subject, body = b.cureWindow(req, params.CureWindowEnd, params.MissingItems)
	case NotifyRecertificationDue:
		subject, body = b.recertificationDue(req, params.Deadline)
	case NotifyApprovalNotice:
		subject, body = b.approval(req)
	case NotifyDenialNotice:
		subject, body = b.denial(req, params.DenialReason)
	case NotifyMissingDocs:
		subject, body = b.missingDocs(req, params.MissingItems)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNotificationType, kind)
	}

	return &Notification{
		ID:        uuid.NewString(),
		RequestID: req.ID,
		Type:      kind,
		Recipient: recipient(req),
		Subject:   subject,
		Body:      body,
		CreatedAt: b.Clock.Now(),
	}, nil
}

// recipient is the employee email, else a synthetic placeholder derived from
// the SSN last-4 when no email is on file.
func recipient(req *LeaveRequest) string {
	if req.Employee.Email != "" {
		return req.Employee.Email
	}
	return req.Employee.SSNLast4 + "@example.com"
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// TEMPLATES
// =============================================================================

func (b *NotificationBuilder) certificationDue(req *LeaveRequest, deadline string) (string, string) {
	subject := "FMLA Certification Due in 3 Days"
	body := fmt.Sprintf(`Dear %s,

This is a reminder that your FMLA medical certification is due by %s.

Please ensure that your healthcare provider completes and submits the medical certification form by this deadline. The certification must include:
- Your medical condition details
- Expected duration of leave
- Healthcare provider's signature and contact information

If you have any questions, please contact HR.

Best regards,
FMLA Compliance Team`, req.Employee.Name, deadline)
	return subject, body
}

func (b *NotificationBuilder) cureWindow(req *LeaveRequest, cureEnd string, missing []string) (string, string) {
	subject := "Action Required: 7-Day Cure Window for FMLA Certification"
	body := fmt.Sprintf(`Dear %s,

Your FMLA medical certification has been reviewed and is incomplete or missing required information.

You have 7 calendar days (until %s) to provide the following:

%s

This is your final opportunity to submit complete documentation. If the required information is not received by %s, your FMLA leave request may be denied.

Please contact HR immediately if you have questions.

Best regards,
FMLA Compliance Team`, req.Employee.Name, cureEnd, bulletList(missing), cureEnd)
	return subject, body
}

func (b *NotificationBuilder) recertificationDue(req *LeaveRequest, recertDate string) (string, string) {
	subject := "FMLA Recertification Required"
	body := fmt.Sprintf(`Dear %s,

Your FMLA leave that began on %s requires medical recertification.

A new medical certification form must be submitted by %s.

Please have your healthcare provider complete an updated certification that includes:
- Current status of your medical condition
- Expected continued duration of leave
- Any changes to treatment or prognosis

Contact HR if you need a new certification form or have questions.

Best regards,
FMLA Compliance Team`, req.Employee.Name, req.Leave.StartDate, recertDate)
	return subject, body
}

func (b *NotificationBuilder) approval(req *LeaveRequest) (string, string) {
	leaveKind := "Continuous"
	if req.Leave.Intermittent {
		leaveKind = "Intermittent"
	}

	subject := "FMLA Leave Request Approved"
	body := fmt.Sprintf(`Dear %s,

Your FMLA leave request has been approved.

Leave Details:
- Start Date: %s
- End Date: %s
- Type: %s

Important Reminders:
- Keep HR informed of any changes to your leave dates
- Submit recertification if required
- Contact HR before returning to work

If you have questions about your leave, please contact HR.

Best regards,
FMLA Compliance Team`, req.Employee.Name, req.Leave.StartDate, req.Leave.EndDate, leaveKind)
	return subject, body
}

func (b *NotificationBuilder) denial(req *LeaveRequest, reason string) (string, string) {
	subject := "FMLA Leave Request Denied"
	body := fmt.Sprintf(`Dear %s,

Your FMLA leave request has been denied.

Reason: %s

If you believe this decision was made in error or have additional documentation to support your request, please contact HR within 5 business days.

You have the right to:
- Request clarification of this decision
- Provide additional medical documentation
- File an appeal

Please contact HR for more information about your options.

Best regards,
FMLA Compliance Team`, req.Employee.Name, reason)
	return subject, body
}

func (b *NotificationBuilder) missingDocs(req *LeaveRequest, missing []string) (string, string) {
	subject := "Missing Documentation for FMLA Leave Request"
	body := fmt.Sprintf(`Dear %s,

Your FMLA leave request is missing required documentation.

Please provide the following as soon as possible:

%s

Your leave request cannot be processed until all required documentation is received.

Contact HR if you need assistance obtaining these documents.

Best regards,
FMLA Compliance Team`, req.Employee.Name, bulletList(missing))
	return subject, body
}
