package store

import (
	"context"
	"fmt"
	"sync"

	"clinicdesk/internal/clinic/models"
	"clinicdesk/pkg/platform/sentinel"
)

// ErrNotFound is returned when a patient or doctor id was never assigned.
var ErrNotFound = sentinel.ErrNotFound

// InMemory is the authoritative patient and doctor repository. It is the only
// writer of clinic records; every mutation completes under the write lock
// before the next is admitted, and every value handed out is a copy.
type InMemory struct {
	mu sync.RWMutex

	patients     map[models.PatientID]models.Patient
	patientOrder []models.PatientID
	lastPatient  models.PatientID

	doctors     map[models.DoctorID]models.Doctor
	doctorOrder []models.DoctorID
	lastDoctor  models.DoctorID
}

// Option configures the store at construction.
type Option func(*InMemory)

// WithSeed loads the sample front-desk roster.
func WithSeed() Option {
	return func(s *InMemory) {
		Seed(s)
	}
}

// NewInMemory constructs an empty store and applies opts.
func NewInMemory(opts ...Option) *InMemory {
	s := &InMemory{
		patients: make(map[models.PatientID]models.Patient),
		doctors:  make(map[models.DoctorID]models.Doctor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPatients returns every patient in insertion order.
func (s *InMemory) ListPatients(_ context.Context) ([]models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Patient, 0, len(s.patientOrder))
	for _, id := range s.patientOrder {
		out = append(out, s.patients[id].Clone())
	}
	return out, nil
}

// FindPatient returns the patient with id or ErrNotFound.
func (s *InMemory) FindPatient(_ context.Context, id models.PatientID) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	c := p.Clone()
	return &c, nil
}

// CreatePatient assigns the next patient id and stores the record.
// An empty status defaults to waiting.
func (s *InMemory) CreatePatient(_ context.Context, f models.PatientFields) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := f.Status
	if status == "" {
		status = models.StatusWaiting
	}

	s.lastPatient++
	p := models.Patient{
		ID:              s.lastPatient,
		Name:            f.Name,
		DateOfBirth:     f.DateOfBirth,
		Gender:          f.Gender,
		Mobile:          f.Mobile,
		Email:           f.Email,
		LastAppointment: f.LastAppointment,
		Status:          status,
	}.Clone()
	s.patients[p.ID] = p
	s.patientOrder = append(s.patientOrder, p.ID)

	c := p.Clone()
	return &c, nil
}

// UpdatePatientStatus replaces only the status field and returns the full
// updated snapshot. Setting the current status again is a successful mutation.
func (s *InMemory) UpdatePatientStatus(_ context.Context, id models.PatientID, status models.PatientStatus) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	p.Status = status
	s.patients[id] = p

	c := p.Clone()
	return &c, nil
}

// ListDoctors returns every doctor in insertion order.
func (s *InMemory) ListDoctors(_ context.Context) ([]models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Doctor, 0, len(s.doctorOrder))
	for _, id := range s.doctorOrder {
		out = append(out, s.doctors[id].Clone())
	}
	return out, nil
}

// FindDoctor returns the doctor with id or ErrNotFound.
func (s *InMemory) FindDoctor(_ context.Context, id models.DoctorID) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.doctors[id]
	if !ok {
		return nil, fmt.Errorf("doctor %d: %w", id, ErrNotFound)
	}
	c := d.Clone()
	return &c, nil
}

// CreateDoctor assigns the next doctor id and stores the record.
func (s *InMemory) CreateDoctor(_ context.Context, f models.DoctorFields) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastDoctor++
	d := models.Doctor{
		ID:             s.lastDoctor,
		Name:           f.Name,
		Specialization: f.Specialization,
		ClinicID:       f.ClinicID,
	}.Clone()
	s.doctors[d.ID] = d
	s.doctorOrder = append(s.doctorOrder, d.ID)

	c := d.Clone()
	return &c, nil
}

// Counts reports how many patients and doctors are stored.
func (s *InMemory) Counts() (patients, doctors int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patients), len(s.doctors)
}
