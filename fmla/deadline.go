/*
deadline.go - Statutory FMLA deadline arithmetic

PURPOSE:
  The DeadlineCalculator computes every statutory date in the system:
  certification deadline, cure window, recertification date. All other
  components build on it.

RULES (all calendar days, never business days):
  Certification:   15 days from notice, but never later than leave start.
  Cure window:     7 days, starting the day after the certification deadline.
  Recertification: chronic = 6 calendar months (month-end clamped),
                   anything else = 30 days.

DETERMINISM:
  Methods that compare against "today" read the injected Clock. The pure
  date-to-date calculations take every input explicitly.

SEE ALSO:
  - date.go: Date arithmetic, including AddMonths clamping
  - compliance.go: Consumes these deadlines for risk classification
*/
package fmla

// CertificationWindowDays is the statutory window for the employee to return
// a medical certification after giving notice.
const CertificationWindowDays = 15

// CureWindowDays is the statutory window to cure incomplete documentation.
const CureWindowDays = 7

// DefaultWarningDays is how far ahead a deadline counts as "approaching".
const DefaultWarningDays = 3

// DeadlineCalculator computes statutory FMLA deadlines. Stateless apart from
// the injected Clock; safe for concurrent use.
type DeadlineCalculator struct {
	Clock Clock
}

func NewDeadlineCalculator(clock Clock) *DeadlineCalculator {
	return &DeadlineCalculator{Clock: clock}
}

// CertificationDeadline returns the date by which medical certification must
// be received: 15 calendar days from notice, capped at the leave start. The
// certification can never be due after the leave itself begins.
func (c *DeadlineCalculator) CertificationDeadline(leaveStart, notice Date) Date {
	fifteenDay := notice.AddDays(CertificationWindowDays)
	if leaveStart.Before(fifteenDay) {
		return leaveStart
	}
	return fifteenDay
}

// CureWindow returns the inclusive (start, end) of the 7-day cure window
// that follows an incomplete certification. The window opens the day after
// the certification deadline and always spans exactly 7 calendar days,
// regardless of month boundaries.
func (c *DeadlineCalculator) CureWindow(certDeadline Date) (start, end Date) {
	return certDeadline.AddDays(1), certDeadline.AddDays(CureWindowDays)
}

// RecertificationDate returns when an updated certification is due. Chronic
// conditions recertify every 6 calendar months from leave start; any other
// condition type recertifies after 30 days.
func (c *DeadlineCalculator) RecertificationDate(leaveStart Date, condition ConditionType) Date {
	if condition == ConditionChronic {
		return leaveStart.AddMonths(6)
	}
	return leaveStart.AddDays(30)
}

// IsApproachingDeadline reports whether the deadline falls within warningDays
// of today (inclusive on both ends; an already-passed deadline is not
// "approaching", it is overdue).
func (c *DeadlineCalculator) IsApproachingDeadline(deadline Date, warningDays int) bool {
	daysUntil := c.DaysUntil(deadline)
	return daysUntil >= 0 && daysUntil <= warningDays
}

// IsOverdue reports whether the deadline is strictly in the past.
func (c *DeadlineCalculator) IsOverdue(deadline Date) bool {
	return deadline.Before(c.Clock.Today())
}

// DaysUntil returns the signed number of days from today to target.
// Negative means the target has passed.
func (c *DeadlineCalculator) DaysUntil(target Date) int {
	return DaysBetween(c.Clock.Today(), target)
}
