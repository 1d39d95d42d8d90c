package fmla_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/fmla-tracker/fmla"
)

func reportBuilderAtTestToday() *fmla.ReportBuilder {
	return fmla.NewReportBuilder(fmla.FixedClock{Date: testToday})
}

func withLeaveDays(req *fmla.LeaveRequest, days int) *fmla.LeaveRequest {
	req.Leave.EndDate = req.Leave.StartDate.AddDays(days - 1)
	return req
}

func TestSummarize_Empty(t *testing.T) {
	rb := reportBuilderAtTestToday()
	summary := rb.Summarize(nil)

	assert.Equal(t, 0, summary.TotalRequests)
	assert.True(t, summary.AverageLeaveDays.IsZero())
	assert.Equal(t, 0, summary.LongestLeaveDays)
	assert.Equal(t, 0, summary.ShortestLeaveDays)
}

func TestSummarize_CountsAndGroups(t *testing.T) {
	// GIVEN: A mix of statuses, conditions, and risk levels
	// WHEN: Summarizing
	// THEN: Every grouping adds up

	rb := reportBuilderAtTestToday()

	approved := completeCertification(baseRequest("req-1", 10))
	approved.Status = fmla.StatusApproved

	pending := baseRequest("req-2", 2) // medium risk
	pending.Leave.Intermittent = true

	chronic := baseRequest("req-3", -1) // high risk
	chronic.Leave.ConditionType = fmla.ConditionChronic
	chronic.Status = fmla.StatusAwaitingDocs

	summary := rb.Summarize([]*fmla.LeaveRequest{approved, pending, chronic})

	assert.Equal(t, 3, summary.TotalRequests)
	assert.Equal(t, 1, summary.ByStatus[fmla.StatusApproved])
	assert.Equal(t, 1, summary.ByStatus[fmla.StatusPending])
	assert.Equal(t, 1, summary.ByStatus[fmla.StatusAwaitingDocs])
	assert.Equal(t, 2, summary.ByCondition[fmla.ConditionSerious])
	assert.Equal(t, 1, summary.ByCondition[fmla.ConditionChronic])
	assert.Equal(t, 1, summary.ByRisk[fmla.RiskNone])
	assert.Equal(t, 1, summary.ByRisk[fmla.RiskMedium])
	assert.Equal(t, 1, summary.ByRisk[fmla.RiskHigh])
	assert.Equal(t, 1, summary.IntermittentCount)
	assert.Equal(t, 2, summary.AtRiskCount)
}

func TestSummarize_LeaveDurations(t *testing.T) {
	// GIVEN: Leaves spanning 10, 20, and 31 inclusive days
	// WHEN: Summarizing
	// THEN: Average is exact decimal, extremes are tracked

	rb := reportBuilderAtTestToday()
	reqs := []*fmla.LeaveRequest{
		withLeaveDays(baseRequest("req-1", 10), 10),
		withLeaveDays(baseRequest("req-2", 10), 20),
		withLeaveDays(baseRequest("req-3", 10), 31),
	}

	summary := rb.Summarize(reqs)

	// (10 + 20 + 31) / 3 = 20.333..., rounded to one decimal place.
	assert.True(t, summary.AverageLeaveDays.Equal(decimal.RequireFromString("20.3")),
		"expected 20.3, got %s", summary.AverageLeaveDays)
	assert.Equal(t, 31, summary.LongestLeaveDays)
	assert.Equal(t, 10, summary.ShortestLeaveDays)
}

func TestSummarize_OneDayLeave_CountsAsOne(t *testing.T) {
	// Inclusive span: start == end is a 1-day leave.
	rb := reportBuilderAtTestToday()
	req := withLeaveDays(baseRequest("req-1", 10), 1)

	summary := rb.Summarize([]*fmla.LeaveRequest{req})

	assert.True(t, summary.AverageLeaveDays.Equal(decimal.NewFromInt(1)),
		"expected 1, got %s", summary.AverageLeaveDays)
	assert.Equal(t, 1, summary.LongestLeaveDays)
	assert.Equal(t, 1, summary.ShortestLeaveDays)
}
