package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the clinic module.
// Tracks record creation, status changes and gateway operation durations.
type Metrics struct {
	PatientsCreated   prometheus.Counter
	DoctorsCreated    prometheus.Counter
	StatusUpdates     *prometheus.CounterVec
	StatusRejected    *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PatientsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "clinicdesk_patients_created_total",
			Help: "Total number of patients created",
		}),
		DoctorsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "clinicdesk_doctors_created_total",
			Help: "Total number of doctors created",
		}),
		StatusUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clinicdesk_status_updates_total",
			Help: "Accepted patient status updates by new status",
		}, []string{"status"}),
		StatusRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clinicdesk_status_updates_rejected_total",
			Help: "Rejected patient status updates by error code",
		}, []string{"code"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clinicdesk_operation_duration_seconds",
			Help:    "Duration of gateway operations",
			Buckets: operationBuckets,
		}, []string{"operation"}),
	}
}

// IncrementPatientCreated records a successful patient creation.
func (m *Metrics) IncrementPatientCreated() {
	m.PatientsCreated.Inc()
}

// IncrementDoctorCreated records a successful doctor creation.
func (m *Metrics) IncrementDoctorCreated() {
	m.DoctorsCreated.Inc()
}

// IncrementStatusUpdate records an accepted status change.
func (m *Metrics) IncrementStatusUpdate(status string) {
	m.StatusUpdates.WithLabelValues(status).Inc()
}

// IncrementStatusRejected records a refused status change.
func (m *Metrics) IncrementStatusRejected(code string) {
	m.StatusRejected.WithLabelValues(code).Inc()
}

// ObserveOperation records the duration of a gateway operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
