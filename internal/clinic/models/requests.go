package models

import (
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "clinicdesk/pkg/domain-errors"
)

const (
	dateLayout      = "2006-01-02"
	maxNameLength   = "128"
	maxFieldLength  = "64"
	maxEmailLength  = "254"
	mobilePattern   = `^\+?[0-9][0-9 ()-]{3,24}$`
	maxMobileLength = "32"
)

// CreatePatientRequest is the HTTP body for POST /api/patients.
type CreatePatientRequest struct {
	Name            string  `json:"name"`
	DateOfBirth     string  `json:"date_of_birth"`
	Gender          string  `json:"gender"`
	Mobile          string  `json:"mobile"`
	Email           *string `json:"email,omitempty"`
	LastAppointment *string `json:"last_appointment,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// DecodeFailureCode reports an undecodable create body as invalid patient data.
func (r *CreatePatientRequest) DecodeFailureCode() dErrors.Code {
	return dErrors.CodeValidation
}

// Normalize trims whitespace and collapses empty optionals to nil. Status is
// matched exactly, so it is not trimmed.
func (r *CreatePatientRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Gender = strings.TrimSpace(r.Gender)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Email = trimOptional(r.Email)
	r.LastAppointment = trimOptional(r.LastAppointment)
	if r.Status != nil && *r.Status == "" {
		r.Status = nil
	}
}

// Validate checks the create payload. All failures are validation errors.
func (r *CreatePatientRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !govalidator.StringLength(r.Name, "1", maxNameLength) {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 128 characters")
	}
	if r.DateOfBirth == "" {
		return dErrors.New(dErrors.CodeValidation, "date_of_birth is required")
	}
	if !govalidator.IsTime(r.DateOfBirth, dateLayout) {
		return dErrors.New(dErrors.CodeValidation, "date_of_birth must be a YYYY-MM-DD date")
	}
	if r.Gender == "" {
		return dErrors.New(dErrors.CodeValidation, "gender is required")
	}
	if !govalidator.StringLength(r.Gender, "1", maxFieldLength) {
		return dErrors.New(dErrors.CodeValidation, "gender must be at most 64 characters")
	}
	if r.Mobile == "" {
		return dErrors.New(dErrors.CodeValidation, "mobile is required")
	}
	if !govalidator.StringLength(r.Mobile, "1", maxMobileLength) || !govalidator.Matches(r.Mobile, mobilePattern) {
		return dErrors.New(dErrors.CodeValidation, "mobile must be a phone number")
	}
	if r.Email != nil {
		if !govalidator.StringLength(*r.Email, "1", maxEmailLength) || !govalidator.IsEmail(*r.Email) {
			return dErrors.New(dErrors.CodeValidation, "email must be a valid address")
		}
	}
	if r.LastAppointment != nil && !govalidator.IsTime(*r.LastAppointment, dateLayout) {
		return dErrors.New(dErrors.CodeValidation, "last_appointment must be a YYYY-MM-DD date")
	}
	if r.Status != nil && !PatientStatus(*r.Status).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of waiting, in_consultation, completed, cancelled")
	}
	return nil
}

// Fields converts a validated request into store input.
func (r *CreatePatientRequest) Fields() PatientFields {
	f := PatientFields{
		Name:            r.Name,
		DateOfBirth:     r.DateOfBirth,
		Gender:          r.Gender,
		Mobile:          r.Mobile,
		Email:           cloneString(r.Email),
		LastAppointment: cloneString(r.LastAppointment),
	}
	if r.Status != nil {
		f.Status = PatientStatus(*r.Status)
	}
	return f
}

// UpdateStatusRequest is the HTTP body for POST /api/patients/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`

	parsed PatientStatus
}

// Validate rejects any value outside the status enum as a bad request.
func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	s, err := ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsed = s
	return nil
}

// ParsedStatus returns the status validated by Validate.
func (r *UpdateStatusRequest) ParsedStatus() PatientStatus {
	return r.parsed
}

// CreateDoctorRequest is the HTTP body for POST /api/doctors.
type CreateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	ClinicID       *int64 `json:"clinic_id,omitempty"`
}

// DecodeFailureCode reports an undecodable create body as invalid doctor data.
func (r *CreateDoctorRequest) DecodeFailureCode() dErrors.Code {
	return dErrors.CodeValidation
}

// Normalize trims whitespace.
func (r *CreateDoctorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Specialization = strings.TrimSpace(r.Specialization)
}

// Validate checks the create payload.
func (r *CreateDoctorRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !govalidator.StringLength(r.Name, "1", maxNameLength) {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 128 characters")
	}
	if r.Specialization == "" {
		return dErrors.New(dErrors.CodeValidation, "specialization is required")
	}
	if !govalidator.StringLength(r.Specialization, "1", maxFieldLength) {
		return dErrors.New(dErrors.CodeValidation, "specialization must be at most 64 characters")
	}
	if r.ClinicID != nil && *r.ClinicID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "clinic_id must be a positive integer")
	}
	return nil
}

// Fields converts a validated request into store input.
func (r *CreateDoctorRequest) Fields() DoctorFields {
	f := DoctorFields{Name: r.Name, Specialization: r.Specialization}
	if r.ClinicID != nil {
		id := ClinicID(*r.ClinicID)
		f.ClinicID = &id
	}
	return f
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
