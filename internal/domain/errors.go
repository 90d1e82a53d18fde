package domain

import "errors"

// Externally visible failure kinds. Handlers map these onto HTTP status codes
// and machine-readable error payloads; everything else stays internal to the
// generation pipeline.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrTooManyRequests  = errors.New("too many requests")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrGenerationFailed = errors.New("generation failed")
	ErrTimeout          = errors.New("deadline exceeded")
	ErrStorageFailure   = errors.New("artifact storage failed")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
)
