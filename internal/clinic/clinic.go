package clinic

import (
	"log/slog"

	"clinicdesk/internal/clinic/handler"
	"clinicdesk/internal/clinic/service"
	"clinicdesk/internal/clinic/store"
)

// Service exposes the patient and doctor gateway.
type Service = service.Service

// Handler wires HTTP and push endpoints to the clinic service.
type Handler = handler.Handler

// Store is the in-memory patient and doctor repository.
type Store = store.InMemory

// NewStore constructs the repository, loading the sample roster when seed is set.
func NewStore(seed bool) *Store {
	if seed {
		return store.NewInMemory(store.WithSeed())
	}
	return store.NewInMemory()
}

// NewService constructs the clinic gateway. broadcaster receives one event per
// accepted status change and may be nil.
func NewService(st service.Store, broadcaster service.Broadcaster, opts ...service.Option) *Service {
	return service.New(st, broadcaster, opts...)
}

// NewHandler constructs the HTTP handler for /api and /ws.
func NewHandler(s *Service, pushHub handler.PushHub, logger *slog.Logger) *Handler {
	return handler.New(s, pushHub, logger)
}
