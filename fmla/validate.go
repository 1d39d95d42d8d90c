package fmla

import (
	"regexp"
	"strings"
)

// Data-entry boundary validation. The engine assumes these checks have run;
// a request that fails them never reaches the calculators.

var (
	ssnLast4Pattern = regexp.MustCompile(`^\d{4}$`)
	digitsPattern   = regexp.MustCompile(`^\d{10}$`)
	phoneStripper   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Validate checks a leave request's fields. Returns a *ValidationError
// (wrapping ErrValidation) on the first violation found.
func (r *LeaveRequest) Validate() error {
	if strings.TrimSpace(r.Employee.Name) == "" {
		return &ValidationError{Field: "employee.name", Reason: "must not be empty"}
	}
	if !ssnLast4Pattern.MatchString(r.Employee.SSNLast4) {
		return &ValidationError{Field: "employee.ssn_last4", Reason: "must be exactly 4 digits"}
	}
	if err := validatePhone("employee.phone", r.Employee.Phone); err != nil {
		return err
	}
	if r.Leave.StartDate.IsZero() {
		return &ValidationError{Field: "leave.start_date", Reason: "is required"}
	}
	if r.Leave.EndDate.IsZero() {
		return &ValidationError{Field: "leave.end_date", Reason: "is required"}
	}
	if r.Leave.EndDate.Before(r.Leave.StartDate) {
		return &ValidationError{Field: "leave.end_date", Reason: "must not be before start date"}
	}
	if strings.TrimSpace(r.MedicalProvider.Name) == "" {
		return &ValidationError{Field: "medical_provider.name", Reason: "must not be empty"}
	}
	if r.MedicalProvider.Phone != "" {
		if err := validatePhone("medical_provider.phone", r.MedicalProvider.Phone); err != nil {
			return err
		}
	}
	return nil
}

func validatePhone(field, phone string) error {
	if !digitsPattern.MatchString(phoneStripper.Replace(phone)) {
		return &ValidationError{Field: field, Reason: "must contain 10 digits"}
	}
	return nil
}
