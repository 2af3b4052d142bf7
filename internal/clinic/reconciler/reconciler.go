// Package reconciler keeps a client-side copy of the patient list consistent
// with the server.
//
// The push channel is treated as a staleness signal only. A status_update
// snapshot is merged by id; anything the view cannot interpret, and every
// (re)connect, triggers a full re-read from the REST API.
package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"clinicdesk/internal/clinic/models"
)

const (
	initialRetryDelay = 200 * time.Millisecond
	maxRetryDelay     = 5 * time.Second
	maxFrameBytes     = 1 << 20

	eventPong models.EventType = "pong"
)

// Source performs the authoritative full read.
type Source interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
}

// View is the local patient state. Safe for concurrent use.
type View struct {
	mu       sync.RWMutex
	patients map[models.PatientID]models.Patient
	order    []models.PatientID
	stale    bool
}

// NewView returns an empty view that is stale until the first Replace.
func NewView() *View {
	return &View{
		patients: make(map[models.PatientID]models.Patient),
		stale:    true,
	}
}

// Apply merges ev into the view. It reports false when ev is not something
// the view can merge; the view is then marked stale and needs a Replace.
func (v *View) Apply(ev models.Event) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if ev.Type != models.EventStatusUpdate || ev.Data.ID <= 0 || !ev.Data.Status.IsValid() {
		v.stale = true
		return false
	}
	if _, ok := v.patients[ev.Data.ID]; !ok {
		v.order = append(v.order, ev.Data.ID)
	}
	v.patients[ev.Data.ID] = ev.Data.Clone()
	return true
}

// Replace discards local state and adopts patients as read from the server.
func (v *View) Replace(patients []models.Patient) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.patients = make(map[models.PatientID]models.Patient, len(patients))
	v.order = make([]models.PatientID, 0, len(patients))
	for _, p := range patients {
		if _, dup := v.patients[p.ID]; !dup {
			v.order = append(v.order, p.ID)
		}
		v.patients[p.ID] = p.Clone()
	}
	v.stale = false
}

// Patients returns a copy of the view in server insertion order.
func (v *View) Patients() []models.Patient {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]models.Patient, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.patients[id].Clone())
	}
	return out
}

// Patient returns one patient from the view.
func (v *View) Patient(id models.PatientID) (models.Patient, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, ok := v.patients[id]
	if !ok {
		return models.Patient{}, false
	}
	return p.Clone(), true
}

// Stale reports whether the view needs a full re-read.
func (v *View) Stale() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stale
}

func (v *View) markStale() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stale = true
}

// Reconciler drives a View from a Source and the push channel.
type Reconciler struct {
	view   *View
	source Source
	logger *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the reconciler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler over view.
func New(view *View, source Source, opts ...Option) *Reconciler {
	r := &Reconciler{
		view:   view,
		source: source,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// View returns the reconciled view.
func (r *Reconciler) View() *View {
	return r.view
}

// Resync replaces the view with a full read from the source.
func (r *Reconciler) Resync(ctx context.Context) error {
	patients, err := r.source.ListPatients(ctx)
	if err != nil {
		return fmt.Errorf("resync patients: %w", err)
	}
	r.view.Replace(patients)
	r.logger.DebugContext(ctx, "view resynced", "patients", len(patients))
	return nil
}

// HandleFrame applies one raw push frame, resyncing when the frame cannot be
// merged. Keepalive replies are ignored.
func (r *Reconciler) HandleFrame(ctx context.Context, raw []byte) error {
	var ev models.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		r.logger.WarnContext(ctx, "unreadable push frame, resyncing", "error", err)
		r.view.markStale()
		return r.Resync(ctx)
	}
	if ev.Type == eventPong {
		return nil
	}
	if r.view.Apply(ev) {
		return nil
	}
	r.logger.InfoContext(ctx, "unmergeable push event, resyncing", "type", ev.Type)
	return r.Resync(ctx)
}

// Watch keeps the view in sync with the push channel at wsURL until ctx is
// done. Every successful connect is followed by a full resync, and dropped
// connections are retried with capped exponential backoff.
func (r *Reconciler) Watch(ctx context.Context, wsURL string) error {
	origin, err := originFor(wsURL)
	if err != nil {
		return err
	}

	delay := initialRetryDelay
	for {
		connected, err := r.session(ctx, wsURL, origin)
		// events may be missed until the next connect resyncs
		r.view.markStale()
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			delay = initialRetryDelay
		}
		r.logger.WarnContext(ctx, "push session ended, reconnecting",
			"error", err,
			"retry_in", delay,
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		if delay < maxRetryDelay {
			delay *= 2
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
		}
	}
}

// session runs one connection. connected reports whether the dial succeeded.
func (r *Reconciler) session(ctx context.Context, wsURL, origin string) (connected bool, err error) {
	cfg, err := websocket.NewConfig(wsURL, origin)
	if err != nil {
		return false, err
	}
	conn, err := cfg.DialContext(ctx)
	if err != nil {
		return false, err
	}
	conn.MaxPayloadBytes = maxFrameBytes

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer func() {
		stop()
		_ = conn.Close()
	}()

	// subscribed first, so nothing committed after this read can be missed
	if err := r.Resync(ctx); err != nil {
		return true, err
	}

	for {
		var raw []byte
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			return true, err
		}
		if err := r.HandleFrame(ctx, raw); err != nil {
			return true, err
		}
	}
}

func originFor(wsURL string) (string, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return "", fmt.Errorf("parse push url: %w", err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("push url must be ws or wss, got %q", u.Scheme)
	}
	u.Path = ""
	u.RawQuery = ""
	return u.String(), nil
}

// HTTPSource reads patients from the REST API.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a Source for the API rooted at baseURL. client may be
// nil.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// ListPatients performs GET /api/patients.
func (s *HTTPSource) ListPatients(ctx context.Context) ([]models.Patient, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/patients", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list patients: unexpected status %d", resp.StatusCode)
	}
	var patients []models.Patient
	if err := json.NewDecoder(resp.Body).Decode(&patients); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return patients, nil
}

var _ Source = (*HTTPSource)(nil)
