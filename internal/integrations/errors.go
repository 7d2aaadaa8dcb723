package integrations

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// ErrorKind classifies failures across the upstream clients and the
// validation layer so callers can branch without matching message text.
type ErrorKind string

const (
	// KindConfig means a required credential is missing; no network call
	// was attempted.
	KindConfig ErrorKind = "CONFIG"
	// KindInput means the caller's input was rejected before any upstream
	// call (missing/oversized text or audio).
	KindInput ErrorKind = "INPUT"
	// KindAuth means the upstream rejected the configured credential.
	KindAuth ErrorKind = "AUTH"
	// KindPermission means the credential is valid but lacks permission.
	KindPermission ErrorKind = "PERMISSION"
	// KindRateLimit means the upstream throttled the request.
	KindRateLimit ErrorKind = "RATE_LIMIT"
	// KindTimeout means the upstream call exceeded its deadline.
	KindTimeout ErrorKind = "TIMEOUT"
	// KindTransport covers DNS and other connectivity failures.
	KindTransport ErrorKind = "TRANSPORT"
	// KindUpstream is the catch-all for other non-2xx upstream responses,
	// carrying the upstream status code when available.
	KindUpstream ErrorKind = "UPSTREAM"
)

// Error is the tagged error type surfaced by the upstream clients and the
// request-validation layer.
type Error struct {
	Kind    ErrorKind
	Status  int    // upstream HTTP status when known, 0 otherwise
	Message string // human-readable, safe to return to the caller
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error to a best-effort HTTP response status:
// upstream status passthrough where available, otherwise by kind.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindInput:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// InputError builds a client-input rejection.
func InputError(message string) *Error {
	return &Error{Kind: KindInput, Message: message}
}

// configError builds a missing-credential failure.
func configError(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

// classifyTransportError maps a failed round trip into the taxonomy with
// service-specific wording for the DNS and timeout cases.
func classifyTransportError(err error, dnsMessage, timeoutMessage, fallbackMessage string) *Error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Kind: KindTransport, Message: dnsMessage, Err: err}
	}
	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: timeoutMessage, Err: err}
	}
	return &Error{Kind: KindTransport, Message: fallbackMessage, Err: err}
}
