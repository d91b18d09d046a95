package apperrors

import (
	"errors"
	"net/http"
)

// Stable failure categories surfaced to API clients. Unknown-account and
// wrong-password both map to ErrUnauthenticated; malformed, forged and expired
// tokens all map to ErrInvalidCredential. The finer-grained cause is logged
// internally only.
var (
	ErrUnauthenticated   = errors.New("incorrect username or password")
	ErrConflict          = errors.New("registration conflict")
	ErrInvalidCredential = errors.New("could not validate credentials")
	ErrStorageFailure    = errors.New("could not persist user data")
	ErrUpstreamFailure   = errors.New("analysis service unavailable")
)

// Category returns the stable machine-readable category for an error.
func Category(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, ErrStorageFailure):
		return "storage_failure"
	case errors.Is(err, ErrUpstreamFailure):
		return "upstream_failure"
	default:
		return "internal"
	}
}

// HTTPStatus maps an error to the status code reported to the client.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrStorageFailure), errors.Is(err, ErrUpstreamFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
