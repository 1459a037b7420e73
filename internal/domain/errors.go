package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking
// infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// ErrUnavailable covers an unreachable store and reconnect throttling.
	ErrUnavailable = errors.New("store unavailable")
	// ErrDelivery covers a failed outbound email, distinct from storage errors.
	ErrDelivery = errors.New("delivery failed")
)
