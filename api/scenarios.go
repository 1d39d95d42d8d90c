/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	leave requests for testing and demos. Each scenario seeds requests that
	demonstrate specific compliance situations, dated relative to the
	handler's clock so the risk levels hold whenever the scenario is loaded.

AVAILABLE SCENARIOS:

	quiet-period:    Complete certifications, nothing at risk
	deadline-crunch: Requests at every risk level (low, medium, high)
	cure-window:     Overdue certification inside the 7-day cure window
	chronic-care:    Chronic condition with recertification coming due

HOW SCENARIOS WORK:
 1. Reset store (clear all data)
 2. Seed leave requests with dates computed off the current clock
 3. Seed any notifications the situation implies

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "deadline-crunch"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - server.go: Scenario route registration
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/fmla-tracker/fmla"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "quiet-period",
		Name:        "Quiet Period",
		Description: "Complete certifications on approved leaves, nothing at risk",
	},
	{
		ID:          "deadline-crunch",
		Name:        "Deadline Crunch",
		Description: "Certification deadlines at every risk level: low, medium, and high",
	},
	{
		ID:          "cure-window",
		Name:        "Cure Window",
		Description: "Overdue certification inside the 7-day cure window with missing items",
	},
	{
		ID:          "chronic-care",
		Name:        "Chronic Care",
		Description: "Chronic condition on approved leave with recertification coming due",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.scenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          current,
		Name:        current,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.setScenario("")

	var err error
	switch req.ScenarioID {
	case "quiet-period":
		err = h.loadQuietPeriodScenario(ctx)
	case "deadline-crunch":
		err = h.loadDeadlineCrunchScenario(ctx)
	case "cure-window":
		err = h.loadCureWindowScenario(ctx)
	case "chronic-care":
		err = h.loadChronicCareScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.setScenario(req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetData clears all stored data.
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.setScenario("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadQuietPeriodScenario(ctx context.Context) error {
	today := h.Clock.Today()

	// Approved leave, certification signed well before the deadline.
	alice := &fmla.LeaveRequest{
		ID: "req-alice001",
		Employee: fmla.Employee{
			Name:     "Alice Johnson",
			SSNLast4: "1234",
			Phone:    "555-010-0001",
			Email:    "alice@example.com",
			State:    "CA",
		},
		Leave: fmla.Leave{
			StartDate:     today.AddDays(20),
			EndDate:       today.AddDays(80),
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{
			Name:             "Dr. Sarah Chen",
			Phone:            "555-020-0001",
			SignaturePresent: true,
			DateSigned:       today.AddDays(-2),
		},
		Status:     fmla.StatusApproved,
		NoticeDate: today.AddDays(-5),
		CreatedAt:  today.AddDays(-5),
	}

	// Intermittent leave, also fully documented.
	bob := &fmla.LeaveRequest{
		ID: "req-bob00001",
		Employee: fmla.Employee{
			Name:     "Bob Martinez",
			SSNLast4: "5678",
			Phone:    "555-010-0002",
			Email:    "bob@example.com",
			State:    "NY",
		},
		Leave: fmla.Leave{
			StartDate:     today.AddDays(30),
			EndDate:       today.AddDays(120),
			Intermittent:  true,
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{
			Name:             "Dr. James Okafor",
			SignaturePresent: true,
			DateSigned:       today.AddDays(-1),
		},
		Status:     fmla.StatusApproved,
		NoticeDate: today.AddDays(-3),
		CreatedAt:  today.AddDays(-3),
	}

	return h.seedRequests(ctx, alice, bob)
}

func (h *Handler) loadDeadlineCrunchScenario(ctx context.Context) error {
	today := h.Clock.Today()

	// Deadline in 6 days, incomplete certification: low risk.
	lowRisk := &fmla.LeaveRequest{
		ID: "req-carol001",
		Employee: fmla.Employee{
			Name:     "Carol White",
			SSNLast4: "2468",
			Phone:    "555-010-0003",
			Email:    "carol@example.com",
		},
		Leave: fmla.Leave{
			StartDate:     today.AddDays(25),
			EndDate:       today.AddDays(85),
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{
			Name: "Dr. Lena Fischer",
		},
		Status:     fmla.StatusPending,
		NoticeDate: today.AddDays(-9),
		CreatedAt:  today.AddDays(-9),
	}

	// Deadline in 2 days, incomplete certification: medium risk.
	mediumRisk := &fmla.LeaveRequest{
		ID: "req-dan00001",
		Employee: fmla.Employee{
			Name:     "Dan Reyes",
			SSNLast4: "1357",
			Phone:    "555-010-0004",
		},
		Leave: fmla.Leave{
			StartDate:     today.AddDays(20),
			EndDate:       today.AddDays(50),
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{
			Name:             "Dr. Sarah Chen",
			SignaturePresent: true, // signed but not dated: still incomplete
		},
		ComplianceFlags: []string{"Missing date signed"},
		Status:          fmla.StatusAwaitingDocs,
		NoticeDate:      today.AddDays(-13),
		CreatedAt:       today.AddDays(-13),
	}

	// Leave starts tomorrow, no certification at all: high risk.
	highRisk := &fmla.LeaveRequest{
		ID: "req-erin0001",
		Employee: fmla.Employee{
			Name:     "Erin Patel",
			SSNLast4: "9753",
			Phone:    "555-010-0005",
			Email:    "erin@example.com",
			State:    "TX",
		},
		Leave: fmla.Leave{
			StartDate:     today.AddDays(1),
			EndDate:       today.AddDays(60),
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{
			Name: "Dr. James Okafor",
		},
		ComplianceFlags: []string{"Missing provider signature"},
		Status:          fmla.StatusPending,
		NoticeDate:      today.AddDays(-20),
		CreatedAt:       today.AddDays(-20),
	}

	return h.seedRequests(ctx, lowRisk, mediumRisk, highRisk)
}

func (h *Handler) loadCureWindowScenario(ctx context.Context) error {
	today := h.Clock.Today()

	// Notice 18 days ago puts the certification deadline 3 days in the past,
	// so today sits inside the 7-day cure window.
	frank := &fmla.LeaveRequest{
		ID: "req-frank001",
		Employee: fmla.Employee{
			Name:     "Frank Liu",
			SSNLast4: "8642",
			Phone:    "555-010-0006",
			Email:    "frank@example.com",
		},
		Leave: fmla.Leave{
			StartDate:     today.AddDays(10),
			EndDate:       today.AddDays(70),
			ConditionType: fmla.ConditionSerious,
		},
		MedicalProvider: fmla.MedicalProvider{
			Name: "Dr. Lena Fischer",
		},
		ComplianceFlags: []string{"Missing provider signature", "Missing date signed"},
		Status:          fmla.StatusAwaitingDocs,
		NoticeDate:      today.AddDays(-18),
		CreatedAt:       today.AddDays(-18),
	}

	if err := h.seedRequests(ctx, frank); err != nil {
		return err
	}

	// The situation implies a cure notice already went out.
	notification, err := h.Notify.Build(frank, fmla.NotifyCureWindow, h.notificationParams(frank))
	if err != nil {
		return err
	}
	return h.Store.SaveNotification(ctx, notification)
}

func (h *Handler) loadChronicCareScenario(ctx context.Context) error {
	today := h.Clock.Today()

	// Chronic condition: recertification falls 6 months after leave start.
	// Leave started just over 5 months ago, so recertification is visible
	// on the timeline without being due yet.
	grace := &fmla.LeaveRequest{
		ID: "req-grace001",
		Employee: fmla.Employee{
			Name:     "Grace Kim",
			SSNLast4: "3141",
			Phone:    "555-010-0007",
			Email:    "grace@example.com",
			State:    "WA",
		},
		Leave: fmla.Leave{
			StartDate:     today.AddDays(-160),
			EndDate:       today.AddDays(60),
			Intermittent:  true,
			ConditionType: fmla.ConditionChronic,
		},
		MedicalProvider: fmla.MedicalProvider{
			Name:             "Dr. Sarah Chen",
			Phone:            "555-020-0001",
			SignaturePresent: true,
			DateSigned:       today.AddDays(-165),
		},
		Status:     fmla.StatusApproved,
		NoticeDate: today.AddDays(-170),
		CreatedAt:  today.AddDays(-170),
	}

	return h.seedRequests(ctx, grace)
}

func (h *Handler) seedRequests(ctx context.Context, reqs ...*fmla.LeaveRequest) error {
	for _, req := range reqs {
		if err := h.Store.SaveLeaveRequest(ctx, req); err != nil {
			return fmt.Errorf("failed to seed request %s: %w", req.ID, err)
		}
	}
	return nil
}
