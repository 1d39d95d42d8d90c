/*
compliance.go - Compliance evaluation and risk classification

PURPOSE:
  The ComplianceChecker evaluates a leave request's certification state
  against its statutory deadlines and classifies how urgently it needs
  attention.

RISK CLASSIFICATION:
  The rules form an ordered decision list; the first match wins. Inputs can
  satisfy several clauses at once (e.g. in the cure window with a complete-
  looking deadline), so evaluation order is part of the contract:

    1. overdue OR in cure window          -> high
    2. deadline within 3 days, incomplete -> medium
    3. deadline within 7 days, incomplete -> low
    4. otherwise                          -> none

SEE ALSO:
  - deadline.go: Deadline arithmetic
  - timeline.go: Event-level view of the same deadlines
*/
package fmla

import "sort"

// ComplianceChecker evaluates leave requests. Stateless apart from the
// calculator's Clock; safe for concurrent use.
type ComplianceChecker struct {
	Calc *DeadlineCalculator
}

func NewComplianceChecker(clock Clock) *ComplianceChecker {
	return &ComplianceChecker{Calc: NewDeadlineCalculator(clock)}
}

// CheckCompliance computes the compliance status of a request relative to
// today. The result is time-relative and must not be cached.
func (cc *ComplianceChecker) CheckCompliance(req *LeaveRequest) ComplianceStatus {
	today := cc.Calc.Clock.Today()
	notice := req.NoticeDateOr(today)

	certDeadline := cc.Calc.CertificationDeadline(req.Leave.StartDate, notice)

	certReceived := req.MedicalProvider.SignaturePresent
	certComplete := certReceived && len(req.ComplianceFlags) == 0

	daysUntil := cc.Calc.DaysUntil(certDeadline)

	// Past the deadline without complete docs puts the request in the cure
	// window, for as long as today falls inside it.
	inCureWindow := false
	var cureWindowEnd Date
	if !certComplete && today.After(certDeadline) {
		cureStart, cureEnd := cc.Calc.CureWindow(certDeadline)
		if cureStart.BeforeOrEqual(today) && today.BeforeOrEqual(cureEnd) {
			inCureWindow = true
			cureWindowEnd = cureEnd
		}
	}

	atRisk, risk := classifyRisk(daysUntil, certComplete, inCureWindow)

	issues := make([]string, len(req.ComplianceFlags))
	copy(issues, req.ComplianceFlags)

	return ComplianceStatus{
		RequestID:                      req.ID,
		IsCompliant:                    certComplete && daysUntil >= 0,
		CertificationReceived:          certReceived,
		CertificationComplete:          certComplete,
		CertificationDeadline:          certDeadline,
		DaysUntilCertificationDeadline: daysUntil,
		InCureWindow:                   inCureWindow,
		CureWindowEnd:                  cureWindowEnd,
		ComplianceIssues:               issues,
		AtRisk:                         atRisk,
		RiskLevel:                      risk,
	}
}

// classifyRisk is the ordered decision list. First match wins.
func classifyRisk(daysUntil int, certComplete, inCureWindow bool) (bool, RiskLevel) {
	if daysUntil < 0 || inCureWindow {
		return true, RiskHigh
	}
	if daysUntil <= 3 && !certComplete {
		return true, RiskMedium
	}
	if daysUntil <= 7 && !certComplete {
		return true, RiskLow
	}
	return false, RiskNone
}

// AtRiskRequest pairs a request with its computed compliance status.
type AtRiskRequest struct {
	Request    *LeaveRequest    `json:"request"`
	Compliance ComplianceStatus `json:"compliance"`
}

// AllAtRisk filters to at-risk requests, ordered most severe and most urgent
// first: by risk level (high, medium, low), then by days until the
// certification deadline ascending.
func (cc *ComplianceChecker) AllAtRisk(reqs []*LeaveRequest) []AtRiskRequest {
	var out []AtRiskRequest
	for _, req := range reqs {
		status := cc.CheckCompliance(req)
		if status.AtRisk {
			out = append(out, AtRiskRequest{Request: req, Compliance: status})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := riskRank(out[i].Compliance.RiskLevel), riskRank(out[j].Compliance.RiskLevel)
		if ri != rj {
			return ri < rj
		}
		return out[i].Compliance.DaysUntilCertificationDeadline <
			out[j].Compliance.DaysUntilCertificationDeadline
	})

	return out
}
