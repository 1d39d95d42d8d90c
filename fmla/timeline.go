/*
timeline.go - Dated event timeline for a leave request

PURPOSE:
  The TimelineGenerator expands a leave request into the fixed set of dated
  events an administrator tracks: leave start/end, certification deadline,
  the cure window (when documentation is incomplete), and recertification.

STATUS RULE (shared by every event):
  completed (when the event has a completion concept and it is met), else
  overdue / today / upcoming by comparing the event date with today.

ORDERING:
  Events are sorted ascending by date. Same-date ties keep construction
  order: leave_start, leave_end, certification_deadline, cure_window_start,
  cure_window_end, recertification_due.

SEE ALSO:
  - deadline.go: Source of every computed event date
  - compliance.go: Scalar view of the same state
*/
package fmla

import (
	"fmt"
	"sort"
)

// =============================================================================
// EVENT TYPES
// =============================================================================

// EventType identifies a timeline event.
type EventType string

const (
	EventLeaveStart            EventType = "leave_start"
	EventLeaveEnd              EventType = "leave_end"
	EventCertificationDeadline EventType = "certification_deadline"
	EventCureWindowStart       EventType = "cure_window_start"
	EventCureWindowEnd         EventType = "cure_window_end"
	EventRecertificationDue    EventType = "recertification_due"
)

// EventStatus is the time-relative state of an event.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventToday     EventStatus = "today"
	EventOverdue   EventStatus = "overdue"
	EventCompleted EventStatus = "completed"
)

// TimelineEvent is a single dated entry on a request's timeline.
type TimelineEvent struct {
	EventType   EventType   `json:"event_type"`
	EventDate   Date        `json:"event_date"`
	Status      EventStatus `json:"status"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	IsCritical  bool        `json:"is_critical"`
}

// =============================================================================
// TIMELINE GENERATOR
// =============================================================================

// TimelineGenerator builds event timelines. Stateless apart from the
// calculator's Clock; safe for concurrent use.
type TimelineGenerator struct {
	Calc *DeadlineCalculator
}

func NewTimelineGenerator(clock Clock) *TimelineGenerator {
	return &TimelineGenerator{Calc: NewDeadlineCalculator(clock)}
}

// GenerateTimeline builds the complete, date-ordered event list for a
// request. Cure window events appear only while documentation is missing or
// incomplete.
func (tg *TimelineGenerator) GenerateTimeline(req *LeaveRequest) []TimelineEvent {
	events := []TimelineEvent{
		tg.leaveStartEvent(req),
		tg.leaveEndEvent(req),
	}

	certEvent := tg.certificationDeadlineEvent(req)
	events = append(events, certEvent)

	if needsCureWindow(req) {
		events = append(events, tg.cureWindowEvents(certEvent.EventDate)...)
	}

	events = append(events, tg.recertificationEvent(req))

	// Stable sort keeps construction order for same-date events.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventDate.Before(events[j].EventDate)
	})

	return events
}

// AtRiskEvents filters the timeline to critical events that are overdue or
// approaching within warningDays.
func (tg *TimelineGenerator) AtRiskEvents(req *LeaveRequest, warningDays int) []TimelineEvent {
	var atRisk []TimelineEvent
	for _, event := range tg.GenerateTimeline(req) {
		if !event.IsCritical {
			continue
		}
		switch event.Status {
		case EventOverdue:
			atRisk = append(atRisk, event)
		case EventUpcoming, EventToday:
			if tg.Calc.IsApproachingDeadline(event.EventDate, warningDays) {
				atRisk = append(atRisk, event)
			}
		}
	}
	return atRisk
}

// =============================================================================
// EVENT CONSTRUCTION
// =============================================================================

func (tg *TimelineGenerator) leaveStartEvent(req *LeaveRequest) TimelineEvent {
	date := req.Leave.StartDate
	return TimelineEvent{
		EventType:   EventLeaveStart,
		EventDate:   date,
		Status:      tg.eventStatus(date, false),
		Title:       "Leave Starts",
		Description: fmt.Sprintf("FMLA leave begins for %s", req.Employee.Name),
		IsCritical:  false,
	}
}

func (tg *TimelineGenerator) leaveEndEvent(req *LeaveRequest) TimelineEvent {
	date := req.Leave.EndDate
	return TimelineEvent{
		EventType:   EventLeaveEnd,
		EventDate:   date,
		Status:      tg.eventStatus(date, false),
		Title:       "Leave Ends",
		Description: fmt.Sprintf("FMLA leave concludes for %s", req.Employee.Name),
		IsCritical:  false,
	}
}

func (tg *TimelineGenerator) certificationDeadlineEvent(req *LeaveRequest) TimelineEvent {
	notice := req.NoticeDateOr(tg.Calc.Clock.Today())
	date := tg.Calc.CertificationDeadline(req.Leave.StartDate, notice)

	// A certification counts as completed only when it is both signed and
	// dated; a bare signature flag is not enough to close the event.
	completed := req.MedicalProvider.SignaturePresent && !req.MedicalProvider.DateSigned.IsZero()

	return TimelineEvent{
		EventType: EventCertificationDeadline,
		EventDate: date,
		Status:    tg.eventStatus(date, completed),
		Title:     "Certification Deadline",
		Description: "Medical certification must be received by this date. " +
			"Employee has 15 calendar days from notice date.",
		IsCritical: true,
	}
}

func (tg *TimelineGenerator) cureWindowEvents(certDeadline Date) []TimelineEvent {
	cureStart, cureEnd := tg.Calc.CureWindow(certDeadline)

	return []TimelineEvent{
		{
			EventType: EventCureWindowStart,
			EventDate: cureStart,
			Status:    tg.eventStatus(cureStart, false),
			Title:     "Cure Window Begins",
			Description: "7-day cure window begins for employee to fix incomplete " +
				"or missing documentation.",
			IsCritical: true,
		},
		{
			EventType: EventCureWindowEnd,
			EventDate: cureEnd,
			Status:    tg.eventStatus(cureEnd, false),
			Title:     "Cure Window Ends",
			Description: "Final deadline to provide missing/incomplete documentation. " +
				"Leave may be denied if not received.",
			IsCritical: true,
		},
	}
}

func (tg *TimelineGenerator) recertificationEvent(req *LeaveRequest) TimelineEvent {
	date := tg.Calc.RecertificationDate(req.Leave.StartDate, req.Leave.ConditionType)

	label := "30 days"
	if req.Leave.ConditionType == ConditionChronic {
		label = "6 months"
	}

	return TimelineEvent{
		EventType: EventRecertificationDue,
		EventDate: date,
		Status:    tg.eventStatus(date, false),
		Title:     "Recertification Due",
		Description: fmt.Sprintf("Medical recertification required (%s from leave start). "+
			"Updated certification must be submitted.", label),
		IsCritical: true,
	}
}

// eventStatus applies the shared status rule.
func (tg *TimelineGenerator) eventStatus(date Date, completed bool) EventStatus {
	if completed {
		return EventCompleted
	}
	today := tg.Calc.Clock.Today()
	switch {
	case date.Before(today):
		return EventOverdue
	case date.Equal(today):
		return EventToday
	default:
		return EventUpcoming
	}
}

// needsCureWindow reports whether cure window events belong on the timeline:
// missing signature, outstanding compliance flags, or a request still parked
// in awaiting_docs.
func needsCureWindow(req *LeaveRequest) bool {
	return !req.MedicalProvider.SignaturePresent ||
		len(req.ComplianceFlags) > 0 ||
		req.Status == StatusAwaitingDocs
}
