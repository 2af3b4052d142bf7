package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clinicdesk/internal/clinic/metrics"
	"clinicdesk/internal/clinic/models"
	"clinicdesk/internal/clinic/store"
	"clinicdesk/internal/realtime/hub"
	dErrors "clinicdesk/pkg/domain-errors"
	"clinicdesk/pkg/requestcontext"
)

const tracerName = "clinicdesk/internal/clinic/service"

type PatientStore interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	FindPatient(ctx context.Context, id models.PatientID) (*models.Patient, error)
	CreatePatient(ctx context.Context, f models.PatientFields) (*models.Patient, error)
	UpdatePatientStatus(ctx context.Context, id models.PatientID, status models.PatientStatus) (*models.Patient, error)
}

type DoctorStore interface {
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	FindDoctor(ctx context.Context, id models.DoctorID) (*models.Doctor, error)
	CreateDoctor(ctx context.Context, f models.DoctorFields) (*models.Doctor, error)
}

// Store is the full repository the gateway needs.
type Store interface {
	PatientStore
	DoctorStore
}

// Broadcaster hands an event to the push channel. Implementations must not
// block on delivery.
type Broadcaster interface {
	Broadcast(ctx context.Context, ev hub.Event)
}

// Service is the mutation and query gateway in front of the store.
// Every successful status change produces exactly one status_update event;
// rejected requests produce none.
type Service struct {
	store       Store
	broadcaster Broadcaster
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer

	// serializes mutate-then-broadcast so events leave in commit order
	mutateMu sync.Mutex
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service. broadcaster may be nil, in which case mutations
// are not pushed anywhere.
func New(st Store, broadcaster Broadcaster, opts ...Option) *Service {
	s := &Service{store: st, broadcaster: broadcaster}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// ListPatients returns every patient in insertion order.
func (s *Service) ListPatients(ctx context.Context) ([]models.Patient, error) {
	ctx, span := s.tracer.Start(ctx, "clinic.ListPatients")
	defer span.End()
	defer s.observe("list_patients", time.Now())

	patients, err := s.store.ListPatients(ctx)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list patients"))
	}
	return patients, nil
}

// GetPatient returns one patient or a not_found error.
func (s *Service) GetPatient(ctx context.Context, id models.PatientID) (*models.Patient, error) {
	ctx, span := s.tracer.Start(ctx, "clinic.GetPatient",
		trace.WithAttributes(attribute.Int64("patient.id", int64(id))))
	defer span.End()
	defer s.observe("get_patient", time.Now())

	p, err := s.store.FindPatient(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, s.fail(span, dErrors.New(dErrors.CodeNotFound, "patient not found"))
		}
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get patient"))
	}
	return p, nil
}

// CreatePatient validates and stores a new patient. Creation is not pushed.
func (s *Service) CreatePatient(ctx context.Context, req *models.CreatePatientRequest) (*models.Patient, error) {
	ctx, span := s.tracer.Start(ctx, "clinic.CreatePatient")
	defer span.End()
	defer s.observe("create_patient", time.Now())

	if req == nil {
		return nil, s.fail(span, dErrors.New(dErrors.CodeValidation, "request body is required"))
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, s.fail(span, err)
	}

	s.mutateMu.Lock()
	p, err := s.store.CreatePatient(ctx, req.Fields())
	s.mutateMu.Unlock()
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create patient"))
	}

	span.SetAttributes(attribute.Int64("patient.id", int64(p.ID)))
	s.logInfo(ctx, "patient created",
		"patient_id", p.ID,
		"status", p.Status,
	)
	if s.metrics != nil {
		s.metrics.IncrementPatientCreated()
	}
	return p, nil
}

// UpdatePatientStatus sets a patient's status and pushes the full updated
// snapshot. An unknown status is rejected before the patient is looked up.
func (s *Service) UpdatePatientStatus(ctx context.Context, id models.PatientID, status models.PatientStatus) (*models.Patient, error) {
	ctx, span := s.tracer.Start(ctx, "clinic.UpdatePatientStatus",
		trace.WithAttributes(
			attribute.Int64("patient.id", int64(id)),
			attribute.String("patient.status", status.String()),
		))
	defer span.End()
	defer s.observe("update_patient_status", time.Now())

	if !status.IsValid() {
		return nil, s.rejectStatus(span, dErrors.New(dErrors.CodeBadRequest, "invalid status"))
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	current, err := s.store.FindPatient(ctx, id)
	if err != nil {
		return nil, s.rejectStatus(span, s.patientLookupError(err))
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, s.rejectStatus(span, dErrors.New(dErrors.CodeBadRequest, "status transition not allowed"))
	}

	updated, err := s.store.UpdatePatientStatus(ctx, id, status)
	if err != nil {
		return nil, s.rejectStatus(span, s.patientLookupError(err))
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(ctx, models.NewStatusUpdate(*updated))
	}

	s.logInfo(ctx, "patient status updated",
		"patient_id", updated.ID,
		"from", current.Status,
		"to", updated.Status,
	)
	if s.metrics != nil {
		s.metrics.IncrementStatusUpdate(updated.Status.String())
	}
	return updated, nil
}

// ListDoctors returns every doctor in insertion order.
func (s *Service) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	ctx, span := s.tracer.Start(ctx, "clinic.ListDoctors")
	defer span.End()
	defer s.observe("list_doctors", time.Now())

	doctors, err := s.store.ListDoctors(ctx)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list doctors"))
	}
	return doctors, nil
}

// GetDoctor returns one doctor or a not_found error.
func (s *Service) GetDoctor(ctx context.Context, id models.DoctorID) (*models.Doctor, error) {
	ctx, span := s.tracer.Start(ctx, "clinic.GetDoctor",
		trace.WithAttributes(attribute.Int64("doctor.id", int64(id))))
	defer span.End()
	defer s.observe("get_doctor", time.Now())

	d, err := s.store.FindDoctor(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, s.fail(span, dErrors.New(dErrors.CodeNotFound, "doctor not found"))
		}
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get doctor"))
	}
	return d, nil
}

// CreateDoctor validates and stores a new doctor.
func (s *Service) CreateDoctor(ctx context.Context, req *models.CreateDoctorRequest) (*models.Doctor, error) {
	ctx, span := s.tracer.Start(ctx, "clinic.CreateDoctor")
	defer span.End()
	defer s.observe("create_doctor", time.Now())

	if req == nil {
		return nil, s.fail(span, dErrors.New(dErrors.CodeValidation, "request body is required"))
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, s.fail(span, err)
	}

	s.mutateMu.Lock()
	d, err := s.store.CreateDoctor(ctx, req.Fields())
	s.mutateMu.Unlock()
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create doctor"))
	}

	s.logInfo(ctx, "doctor created", "doctor_id", d.ID)
	if s.metrics != nil {
		s.metrics.IncrementDoctorCreated()
	}
	return d, nil
}

func (s *Service) patientLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "patient not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update patient status")
}

func (s *Service) rejectStatus(span trace.Span, err error) error {
	if s.metrics != nil {
		s.metrics.IncrementStatusRejected(string(dErrors.CodeOf(err)))
	}
	return s.fail(span, err)
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, start)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, msg, args...)
}
