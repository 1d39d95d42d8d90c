package fmla

import "time"

// =============================================================================
// CLOCK - Injectable "today" source
// =============================================================================
//
// Every deadline judgment is relative to the current date. The engine never
// reads the system clock directly; callers inject a Clock so tests can pin
// "today" and production code supplies the real date at the boundary.

type Clock interface {
	// Today returns the current calendar date.
	Today() Date

	// Now returns the current wall-clock time. Used only for timestamps on
	// generated artifacts (e.g. Notification.CreatedAt), never for deadline
	// arithmetic.
	Now() time.Time
}

// SystemClock reads the real system time.
type SystemClock struct{}

func (SystemClock) Today() Date    { return DateOf(time.Now()) }
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock pins the current date for deterministic tests.
type FixedClock struct {
	Date Date
}

func (c FixedClock) Today() Date    { return c.Date }
func (c FixedClock) Now() time.Time { return c.Date.Time() }
