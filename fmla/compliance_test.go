package fmla_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/fmla-tracker/fmla"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// testToday is the pinned evaluation date used across compliance tests.
var testToday = date(2026, time.March, 15)

// baseRequest returns a request whose certification deadline lands
// daysFromNow days from testToday, with no certification on file.
func baseRequest(id string, daysFromNow int) *fmla.LeaveRequest {
	notice := testToday.AddDays(daysFromNow - fmla.CertificationWindowDays)
	return &fmla.LeaveRequest{
		ID: id,
		Employee: fmla.Employee{
			Name:     "Test Employee",
			SSNLast4: "1234",
			Phone:    "555-010-0000",
		},
		Leave: fmla.Leave{
			// Leave starts well after the 15-day window so the window is
			// what determines the deadline.
			StartDate:     notice.AddDays(60),
			EndDate:       notice.AddDays(120),
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{Name: "Dr. Test"},
		Status:          fmla.StatusPending,
		NoticeDate:      notice,
		CreatedAt:       notice,
	}
}

func completeCertification(req *fmla.LeaveRequest) *fmla.LeaveRequest {
	req.MedicalProvider.SignaturePresent = true
	req.MedicalProvider.DateSigned = testToday.AddDays(-1)
	req.ComplianceFlags = nil
	return req
}

func checkerAtTestToday() *fmla.ComplianceChecker {
	return fmla.NewComplianceChecker(fmla.FixedClock{Date: testToday})
}

// =============================================================================
// RISK CLASSIFICATION TESTS
// =============================================================================

func TestCheckCompliance_CompleteCertification_NoRisk(t *testing.T) {
	// GIVEN: A complete certification with the deadline 10 days out
	// WHEN: Checking compliance
	// THEN: Compliant, no risk

	cc := checkerAtTestToday()
	req := completeCertification(baseRequest("req-1", 10))

	status := cc.CheckCompliance(req)

	assert.True(t, status.IsCompliant)
	assert.True(t, status.CertificationReceived)
	assert.True(t, status.CertificationComplete)
	assert.False(t, status.AtRisk)
	assert.Equal(t, fmla.RiskNone, status.RiskLevel)
	assert.Equal(t, 10, status.DaysUntilCertificationDeadline)
}

func TestCheckCompliance_DeadlineWithin7Days_LowRisk(t *testing.T) {
	// GIVEN: No certification, deadline 5 days out
	// WHEN: Checking compliance
	// THEN: Low risk

	cc := checkerAtTestToday()
	status := cc.CheckCompliance(baseRequest("req-1", 5))

	assert.False(t, status.IsCompliant)
	assert.True(t, status.AtRisk)
	assert.Equal(t, fmla.RiskLow, status.RiskLevel)
}

func TestCheckCompliance_DeadlineWithin3Days_MediumRisk(t *testing.T) {
	cc := checkerAtTestToday()
	status := cc.CheckCompliance(baseRequest("req-1", 3))

	assert.Equal(t, fmla.RiskMedium, status.RiskLevel)
}

func TestCheckCompliance_DeadlineToday_MediumRisk(t *testing.T) {
	// Boundary: zero days until the deadline is still "within 3 days", not
	// yet overdue.
	cc := checkerAtTestToday()
	status := cc.CheckCompliance(baseRequest("req-1", 0))

	assert.Equal(t, fmla.RiskMedium, status.RiskLevel)
	assert.False(t, status.InCureWindow)
}

func TestCheckCompliance_Overdue_HighRisk(t *testing.T) {
	// GIVEN: No certification, deadline 2 days past
	// WHEN: Checking compliance
	// THEN: High risk, inside the cure window

	cc := checkerAtTestToday()
	status := cc.CheckCompliance(baseRequest("req-1", -2))

	assert.True(t, status.AtRisk)
	assert.Equal(t, fmla.RiskHigh, status.RiskLevel)
	assert.True(t, status.InCureWindow)
	assert.Equal(t, -2, status.DaysUntilCertificationDeadline)
}

func TestCheckCompliance_IncompleteFlags_BlockCompliance(t *testing.T) {
	// GIVEN: A signed certification with outstanding compliance flags
	// WHEN: Checking compliance
	// THEN: Received but not complete; flags surface as issues

	cc := checkerAtTestToday()
	req := baseRequest("req-1", 2)
	req.MedicalProvider.SignaturePresent = true
	req.ComplianceFlags = []string{"missing_physician_phone"}

	status := cc.CheckCompliance(req)

	assert.True(t, status.CertificationReceived)
	assert.False(t, status.CertificationComplete)
	assert.Equal(t, fmla.RiskMedium, status.RiskLevel)
	assert.Equal(t, []string{"missing_physician_phone"}, status.ComplianceIssues)
}

// =============================================================================
// CURE WINDOW TESTS
// =============================================================================

func TestCheckCompliance_CureWindow_Boundaries(t *testing.T) {
	cc := checkerAtTestToday()

	cases := []struct {
		name         string
		daysOverdue  int
		inCureWindow bool
	}{
		{"day after deadline", 1, true},
		{"last day of window", 7, true},
		{"window expired", 8, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := cc.CheckCompliance(baseRequest("req-1", -tc.daysOverdue))

			assert.Equal(t, tc.inCureWindow, status.InCureWindow)
			// Overdue is high risk whether or not the cure window is still open.
			assert.Equal(t, fmla.RiskHigh, status.RiskLevel)
		})
	}
}

func TestCheckCompliance_CureWindowEnd_SetOnlyInsideWindow(t *testing.T) {
	cc := checkerAtTestToday()

	inside := cc.CheckCompliance(baseRequest("req-1", -3))
	assert.True(t, inside.InCureWindow)
	assert.Equal(t, testToday.AddDays(4).String(), inside.CureWindowEnd.String())

	outside := cc.CheckCompliance(baseRequest("req-2", -9))
	assert.False(t, outside.InCureWindow)
	assert.True(t, outside.CureWindowEnd.IsZero())
}

func TestCheckCompliance_CompleteCert_NeverInCureWindow(t *testing.T) {
	// GIVEN: A complete certification whose deadline has passed
	// WHEN: Checking compliance
	// THEN: The cure window never opens; past deadline makes it non-compliant
	//       but carries no risk

	cc := checkerAtTestToday()
	req := completeCertification(baseRequest("req-1", -2))

	status := cc.CheckCompliance(req)

	assert.False(t, status.InCureWindow)
	assert.False(t, status.IsCompliant, "deadline passed")
	// Overdue deadline still classifies high even with complete docs.
	assert.Equal(t, fmla.RiskHigh, status.RiskLevel)
}

// =============================================================================
// NOTICE DATE FALLBACK
// =============================================================================

func TestCheckCompliance_MissingNoticeDate_DefaultsToToday(t *testing.T) {
	// GIVEN: A request with no recorded notice date, leave far in the future
	// WHEN: Checking compliance
	// THEN: The 15-day window runs from today

	cc := checkerAtTestToday()
	req := baseRequest("req-1", 5)
	req.NoticeDate = fmla.Date{}

	status := cc.CheckCompliance(req)

	assert.Equal(t, fmla.CertificationWindowDays, status.DaysUntilCertificationDeadline)
}

// =============================================================================
// AT-RISK ORDERING TESTS
// =============================================================================

func TestAllAtRisk_OrderedBySeverityThenUrgency(t *testing.T) {
	// GIVEN: Requests at low, high, and medium risk plus one compliant
	// WHEN: Collecting at-risk requests
	// THEN: High first, then medium, then low; compliant excluded

	cc := checkerAtTestToday()
	reqs := []*fmla.LeaveRequest{
		baseRequest("low", 6),
		baseRequest("high", -1),
		completeCertification(baseRequest("safe", 20)),
		baseRequest("medium", 2),
	}

	atRisk := cc.AllAtRisk(reqs)

	ids := make([]string, len(atRisk))
	for i, entry := range atRisk {
		ids[i] = entry.Request.ID
	}
	assert.Equal(t, []string{"high", "medium", "low"}, ids)
}

func TestAllAtRisk_SameRisk_MostUrgentFirst(t *testing.T) {
	// GIVEN: Two medium-risk requests with deadlines 1 and 3 days out
	// WHEN: Collecting at-risk requests
	// THEN: The 1-day deadline sorts first

	cc := checkerAtTestToday()
	reqs := []*fmla.LeaveRequest{
		baseRequest("later", 3),
		baseRequest("sooner", 1),
	}

	atRisk := cc.AllAtRisk(reqs)

	assert.Len(t, atRisk, 2)
	assert.Equal(t, "sooner", atRisk[0].Request.ID)
	assert.Equal(t, "later", atRisk[1].Request.ID)
}

func TestAllAtRisk_Empty(t *testing.T) {
	cc := checkerAtTestToday()
	assert.Empty(t, cc.AllAtRisk(nil))
}
