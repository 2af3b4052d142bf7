package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrCapacity: a bounded resource (connection set, queue) is full
// - ErrClosed: the component has been shut down
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrCapacity    = errors.New("capacity exceeded")
	ErrClosed      = errors.New("closed")
	ErrUnavailable = errors.New("unavailable")
)
