package models

import (
	"strconv"

	dErrors "clinicdesk/pkg/domain-errors"
)

// PatientID is assigned by the store from a monotonic counter starting at 1.
type PatientID int64

// DoctorID is assigned by the store from a monotonic counter starting at 1.
type DoctorID int64

// ClinicID references a clinic. It is not checked against any clinic set.
type ClinicID int64

// Patient is the front-desk record of a person attending the clinic.
//
// Invariants:
//   - ID is unique among patients and never reused
//   - Status is one of the four enumerated values
//   - Only Status changes after creation
type Patient struct {
	ID              PatientID     `json:"id"`
	Name            string        `json:"name"`
	DateOfBirth     string        `json:"date_of_birth"`
	Gender          string        `json:"gender"`
	Mobile          string        `json:"mobile"`
	Email           *string       `json:"email,omitempty"`
	LastAppointment *string       `json:"last_appointment,omitempty"`
	Status          PatientStatus `json:"status"`
}

// Clone returns a deep copy so callers never share optional field storage
// with the store.
func (p Patient) Clone() Patient {
	c := p
	c.Email = cloneString(p.Email)
	c.LastAppointment = cloneString(p.LastAppointment)
	return c
}

// PatientFields is a validated create payload. Status may be empty, in which
// case the store applies StatusWaiting.
type PatientFields struct {
	Name            string
	DateOfBirth     string
	Gender          string
	Mobile          string
	Email           *string
	LastAppointment *string
	Status          PatientStatus
}

// Doctor is a clinician attached to a clinic.
type Doctor struct {
	ID             DoctorID  `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	ClinicID       *ClinicID `json:"clinic_id,omitempty"`
}

// Clone returns a deep copy of d.
func (d Doctor) Clone() Doctor {
	c := d
	if d.ClinicID != nil {
		id := *d.ClinicID
		c.ClinicID = &id
	}
	return c
}

// DoctorFields is a validated create payload.
type DoctorFields struct {
	Name           string
	Specialization string
	ClinicID       *ClinicID
}

// ParsePatientID parses a path parameter into a PatientID.
func ParsePatientID(raw string) (PatientID, error) {
	n, err := parsePositiveID(raw)
	if err != nil {
		return 0, err
	}
	return PatientID(n), nil
}

// ParseDoctorID parses a path parameter into a DoctorID.
func ParseDoctorID(raw string) (DoctorID, error) {
	n, err := parsePositiveID(raw)
	if err != nil {
		return 0, err
	}
	return DoctorID(n), nil
}

func parsePositiveID(raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "id must be a positive integer")
	}
	return n, nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
