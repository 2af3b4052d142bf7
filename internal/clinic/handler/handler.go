package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinicdesk/internal/clinic/models"
	"clinicdesk/internal/realtime/hub"
	"clinicdesk/pkg/platform/httputil"
	"clinicdesk/pkg/requestcontext"
)

// Service defines the gateway operations exposed over HTTP.
type Service interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	GetPatient(ctx context.Context, id models.PatientID) (*models.Patient, error)
	CreatePatient(ctx context.Context, req *models.CreatePatientRequest) (*models.Patient, error)
	UpdatePatientStatus(ctx context.Context, id models.PatientID, status models.PatientStatus) (*models.Patient, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	GetDoctor(ctx context.Context, id models.DoctorID) (*models.Doctor, error)
	CreateDoctor(ctx context.Context, req *models.CreateDoctorRequest) (*models.Doctor, error)
}

// PushHub is the part of the broadcast hub the websocket endpoint drives.
type PushHub interface {
	AtCapacity() bool
	Register(conn hub.Conn) (*hub.Client, error)
	Unregister(c *hub.Client)
	HandleInbound(c *hub.Client, raw []byte)
}

// Handler serves the clinic REST API and the push channel.
type Handler struct {
	logger  *slog.Logger
	service Service
	hub     PushHub
}

// New creates a clinic Handler. hub may be nil, in which case /ws is not
// mounted.
func New(service Service, hub PushHub, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		hub:     hub,
	}
}

// Register registers the clinic routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/patients", h.handleListPatients)
		r.Post("/patients", h.handleCreatePatient)
		r.Get("/patients/{id}", h.handleGetPatient)
		r.Post("/patients/{id}/status", h.handleUpdatePatientStatus)

		r.Get("/doctors", h.handleListDoctors)
		r.Post("/doctors", h.handleCreateDoctor)
		r.Get("/doctors/{id}", h.handleGetDoctor)
	})
	if h.hub != nil {
		r.Get("/ws", h.handleWebSocket)
	}
}

func (h *Handler) handleListPatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patients, err := h.service.ListPatients(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list patients")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patients)
}

func (h *Handler) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := models.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patient, err := h.service.GetPatient(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get patient")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patient)
}

func (h *Handler) handleCreatePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreatePatientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	patient, err := h.service.CreatePatient(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create patient")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, patient)
}

func (h *Handler) handleUpdatePatientStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := models.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	patient, err := h.service.UpdatePatientStatus(ctx, id, req.ParsedStatus())
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update patient status")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patient)
}

func (h *Handler) handleListDoctors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doctors, err := h.service.ListDoctors(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list doctors")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doctors)
}

func (h *Handler) handleGetDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := models.ParseDoctorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	doctor, err := h.service.GetDoctor(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get doctor")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doctor)
}

func (h *Handler) handleCreateDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateDoctorRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	doctor, err := h.service.CreateDoctor(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create doctor")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doctor)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
