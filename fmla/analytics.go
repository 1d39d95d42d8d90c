/*
analytics.go - Aggregate reporting over leave requests

PURPOSE:
  Builds the summary view the dashboard renders: request counts by status,
  condition, and risk level, intermittent share, and leave-duration figures.
  Durations are averaged with decimal arithmetic so a fleet of 3 ten-day
  leaves reports 10, not 9.999999.

SEE ALSO:
  - compliance.go: Supplies the per-request risk classification
*/
package fmla

import "github.com/shopspring/decimal"

// LeaveSummary is an aggregate report over a set of leave requests.
type LeaveSummary struct {
	TotalRequests     int                   `json:"total_requests"`
	ByStatus          map[LeaveStatus]int   `json:"by_status"`
	ByCondition       map[ConditionType]int `json:"by_condition"`
	ByRisk            map[RiskLevel]int     `json:"by_risk"`
	IntermittentCount int                   `json:"intermittent_count"`
	AtRiskCount       int                   `json:"at_risk_count"`

	// AverageLeaveDays is the mean inclusive leave span, rounded to one
	// decimal place. Zero when there are no requests.
	AverageLeaveDays decimal.Decimal `json:"average_leave_days"`

	LongestLeaveDays  int `json:"longest_leave_days"`
	ShortestLeaveDays int `json:"shortest_leave_days"`
}

// ReportBuilder computes aggregate summaries. Stateless apart from the
// checker's Clock; safe for concurrent use.
type ReportBuilder struct {
	Checker *ComplianceChecker
}

func NewReportBuilder(clock Clock) *ReportBuilder {
	return &ReportBuilder{Checker: NewComplianceChecker(clock)}
}

// Summarize builds the aggregate report for the given requests.
func (rb *ReportBuilder) Summarize(reqs []*LeaveRequest) LeaveSummary {
	summary := LeaveSummary{
		TotalRequests:    len(reqs),
		ByStatus:         make(map[LeaveStatus]int),
		ByCondition:      make(map[ConditionType]int),
		ByRisk:           make(map[RiskLevel]int),
		AverageLeaveDays: decimal.Zero,
	}

	totalDays := decimal.Zero
	for i, req := range reqs {
		summary.ByStatus[req.Status]++
		summary.ByCondition[req.Leave.ConditionType]++
		if req.Leave.Intermittent {
			summary.IntermittentCount++
		}

		status := rb.Checker.CheckCompliance(req)
		summary.ByRisk[status.RiskLevel]++
		if status.AtRisk {
			summary.AtRiskCount++
		}

		// Inclusive span: a one-day leave counts as 1.
		days := DaysBetween(req.Leave.StartDate, req.Leave.EndDate) + 1
		totalDays = totalDays.Add(decimal.NewFromInt(int64(days)))
		if days > summary.LongestLeaveDays {
			summary.LongestLeaveDays = days
		}
		if i == 0 || days < summary.ShortestLeaveDays {
			summary.ShortestLeaveDays = days
		}
	}

	if len(reqs) > 0 {
		summary.AverageLeaveDays = totalDays.
			Div(decimal.NewFromInt(int64(len(reqs)))).
			Round(1)
	}

	return summary
}
