package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"clinicdesk/internal/clinic/handler/mocks"
	"clinicdesk/internal/clinic/models"
	dErrors "clinicdesk/pkg/domain-errors"
	"clinicdesk/pkg/requestcontext"
	"clinicdesk/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,PushHub
type ClinicHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ClinicHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestClinicHandlerSuite(t *testing.T) {
	suite.Run(t, new(ClinicHandlerSuite))
}

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, nil, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func samplePatient(id models.PatientID, status models.PatientStatus) *models.Patient {
	email := "asha@example.com"
	return &models.Patient{
		ID:          id,
		Name:        "Asha",
		DateOfBirth: "1990-01-01",
		Gender:      "Female",
		Mobile:      "+91 98765 00000",
		Email:       &email,
		Status:      status,
	}
}

func (s *ClinicHandlerSuite) TestListPatients() {
	router, svc := newTestRouter(s.T())
	svc.EXPECT().ListPatients(gomock.Any()).Return([]models.Patient{
		*samplePatient(1, models.StatusWaiting),
		*samplePatient(2, models.StatusCompleted),
	}, nil)

	rec := serve(router, http.MethodGet, "/api/patients", "")

	s.Equal(http.StatusOK, rec.Code)
	var got []map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 2)
	s.Equal("waiting", got[0]["status"])
	s.Equal("1990-01-01", got[0]["date_of_birth"])
	s.Equal(float64(2), got[1]["id"])
	s.Nil(got[0]["last_appointment"])
}

func (s *ClinicHandlerSuite) TestGetPatient() {
	s.Run("found", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().GetPatient(gomock.Any(), models.PatientID(7)).Return(samplePatient(7, models.StatusWaiting), nil)

		rec := serve(router, http.MethodGet, "/api/patients/7", "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("not found", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().GetPatient(gomock.Any(), models.PatientID(999)).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "patient not found"))

		rec := serve(router, http.MethodGet, "/api/patients/999", "")
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("not_found", decodeError(s.T(), rec)["error"])
	})

	s.Run("non-numeric id never reaches the service", func() {
		router, _ := newTestRouter(s.T())
		rec := serve(router, http.MethodGet, "/api/patients/abc", "")
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("bad_request", decodeError(s.T(), rec)["error"])
	})
}

var undecodableBodies = []string{`{"name": 5}`, `{not json`, `{"name":`}

func (s *ClinicHandlerSuite) TestCreatePatient() {
	s.Run("created", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().CreatePatient(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.CreatePatientRequest) (*models.Patient, error) {
				s.Equal("Asha", req.Name)
				s.Nil(req.Status)
				return samplePatient(11, models.StatusWaiting), nil
			})

		rec := serve(router, http.MethodPost, "/api/patients",
			`{"name":" Asha ","date_of_birth":"1990-01-01","gender":"Female","mobile":"+91 98765 00000"}`)
		s.Equal(http.StatusCreated, rec.Code)

		var got models.Patient
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
		s.Equal(models.PatientID(11), got.ID)
		s.Equal(models.StatusWaiting, got.Status)
	})

	s.Run("missing required field is a validation error", func() {
		router, _ := newTestRouter(s.T())
		rec := serve(router, http.MethodPost, "/api/patients",
			`{"date_of_birth":"1990-01-01","gender":"Female","mobile":"+91 98765 00000"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		body := decodeError(s.T(), rec)
		s.Equal("validation_error", body["error"])
		s.Equal("name is required", body["error_description"])
	})

	for _, body := range undecodableBodies {
		s.Run("undecodable body is a validation error: "+body, func() {
			router, _ := newTestRouter(s.T())
			rec := serve(router, http.MethodPost, "/api/patients", body)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal("validation_error", decodeError(s.T(), rec)["error"])
		})
	}
}

func (s *ClinicHandlerSuite) TestUpdatePatientStatus() {
	s.Run("accepted", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().UpdatePatientStatus(gomock.Any(), models.PatientID(3), models.StatusInConsultation).
			Return(samplePatient(3, models.StatusInConsultation), nil)

		rec := serve(router, http.MethodPost, "/api/patients/3/status", `{"status":"in_consultation"}`)
		s.Equal(http.StatusOK, rec.Code)

		var got models.Patient
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
		s.Equal(models.StatusInConsultation, got.Status)
		s.Equal("Asha", got.Name)
	})

	s.Run("status outside the enum never reaches the service", func() {
		router, _ := newTestRouter(s.T())
		rec := serve(router, http.MethodPost, "/api/patients/3/status", `{"status":"discharged"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		body := decodeError(s.T(), rec)
		s.Equal("bad_request", body["error"])
		s.Equal("invalid status", body["error_description"])
	})

	s.Run("undecodable body stays a bad request", func() {
		router, _ := newTestRouter(s.T())
		rec := serve(router, http.MethodPost, "/api/patients/3/status", `{"status": 2}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("bad_request", decodeError(s.T(), rec)["error"])
	})

	s.Run("padded status is rejected", func() {
		router, _ := newTestRouter(s.T())
		rec := serve(router, http.MethodPost, "/api/patients/3/status", `{"status":" waiting "}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("invalid status", decodeError(s.T(), rec)["error_description"])
	})

	s.Run("unknown patient is not found", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().UpdatePatientStatus(gomock.Any(), models.PatientID(999), models.StatusCompleted).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "patient not found"))

		rec := serve(router, http.MethodPost, "/api/patients/999/status", `{"status":"completed"}`)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("request context reaches the service", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().UpdatePatientStatus(gomock.Any(), models.PatientID(3), models.StatusCompleted).
			DoAndReturn(func(ctx context.Context, _ models.PatientID, _ models.PatientStatus) (*models.Patient, error) {
				s.Equal("desk-42", requestcontext.RequestID(ctx))
				s.Equal("10.0.0.7", requestcontext.ClientIP(ctx))
				return samplePatient(3, models.StatusCompleted), nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/patients/3/status", map[string]string{"status": "completed"})
		req = testutil.WithRequestID(req, "desk-42")
		req = testutil.WithClientMetadata(req, "10.0.0.7", "Mozilla/5.0")
		rec := testutil.DoRequest(router, req)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("internal failure hides detail", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().UpdatePatientStatus(gomock.Any(), models.PatientID(1), models.StatusCompleted).
			Return(nil, dErrors.Wrap(errors.New("lock poisoned"), dErrors.CodeInternal, "failed to update patient status"))

		rec := serve(router, http.MethodPost, "/api/patients/1/status", `{"status":"completed"}`)
		s.Equal(http.StatusInternalServerError, rec.Code)
		body := decodeError(s.T(), rec)
		s.Equal("internal_error", body["error"])
		s.NotContains(rec.Body.String(), "lock poisoned")
	})
}

func (s *ClinicHandlerSuite) TestDoctors() {
	clinic := models.ClinicID(1)
	doctor := &models.Doctor{ID: 1, Name: "Dr. Vaibhav Chahar", Specialization: "General Physician", ClinicID: &clinic}

	s.Run("list", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ListDoctors(gomock.Any()).Return([]models.Doctor{*doctor}, nil)
		rec := serve(router, http.MethodGet, "/api/doctors", "")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"clinic_id":1`)
	})

	s.Run("get", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().GetDoctor(gomock.Any(), models.DoctorID(1)).Return(doctor, nil)
		rec := serve(router, http.MethodGet, "/api/doctors/1", "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("create", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().CreateDoctor(gomock.Any(), gomock.Any()).Return(doctor, nil)
		rec := serve(router, http.MethodPost, "/api/doctors",
			`{"name":"Dr. Vaibhav Chahar","specialization":"General Physician","clinic_id":1}`)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("create without specialization", func() {
		router, _ := newTestRouter(s.T())
		rec := serve(router, http.MethodPost, "/api/doctors", `{"name":"Dr. X"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("validation_error", decodeError(s.T(), rec)["error"])
	})

	for _, body := range undecodableBodies {
		s.Run("create with undecodable body: "+body, func() {
			router, _ := newTestRouter(s.T())
			rec := serve(router, http.MethodPost, "/api/doctors", body)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal("validation_error", decodeError(s.T(), rec)["error"])
		})
	}
}

func TestWebSocketRouteRequiresHub(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebSocketRefusedAtCapacity(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	pushHub := mocks.NewMockPushHub(ctrl)
	pushHub.EXPECT().AtCapacity().Return(true)

	h := New(svc, pushHub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)

	req := httptest.NewRequest(http.MethodGet, "/ws", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"unavailable"`)
}
