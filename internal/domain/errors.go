package domain

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("resource not found")
	ErrConflict             = errors.New("conflict")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrIdempotencyRequired  = errors.New("idempotency key required")
	ErrIdempotencyConflict  = errors.New("idempotency conflict")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrInvalidEnvelope      = errors.New("invalid event envelope")
	ErrUnsupportedEventType = errors.New("unsupported event type")
)
