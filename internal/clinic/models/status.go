package models

import dErrors "clinicdesk/pkg/domain-errors"

// PatientStatus is a patient's position in the front-desk queue.
type PatientStatus string

const (
	StatusWaiting        PatientStatus = "waiting"
	StatusInConsultation PatientStatus = "in_consultation"
	StatusCompleted      PatientStatus = "completed"
	StatusCancelled      PatientStatus = "cancelled"
)

// AllStatuses lists the enum in display order.
var AllStatuses = []PatientStatus{
	StatusWaiting,
	StatusInConsultation,
	StatusCompleted,
	StatusCancelled,
}

// IsValid reports whether s is one of the four enumerated statuses.
func (s PatientStatus) IsValid() bool {
	switch s {
	case StatusWaiting, StatusInConsultation, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a patient in status s may move to next.
//
// The front desk may move a patient between any two statuses, including back
// to waiting after a cancellation and to the status it already has. This is
// the single place a transition table would be enforced.
func (s PatientStatus) CanTransitionTo(next PatientStatus) bool {
	return s.IsValid() && next.IsValid()
}

func (s PatientStatus) String() string {
	return string(s)
}

// ParseStatus parses a wire value into a PatientStatus.
// Unknown values are a bad request, not a validation failure of a create payload.
func ParseStatus(raw string) (PatientStatus, error) {
	s := PatientStatus(raw)
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid status")
	}
	return s, nil
}
