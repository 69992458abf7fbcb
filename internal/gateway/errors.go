package gateway

import (
	"errors"
	"net/http"
)

// ErrorKind is the failure taxonomy surfaced to clients.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota
	KindUnauthenticated
	KindNotConfigured
	KindConfigMissing
	KindUpstreamUnavailable
	KindParseFailed
	KindInternal
)

// String returns the kind name used in logs, metrics and telemetry.
func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthenticated:
		return "unauthorized"
	case KindNotConfigured:
		return "not_configured"
	case KindConfigMissing:
		return "config_missing"
	case KindUpstreamUnavailable:
		return "upstream_failure"
	case KindParseFailed:
		return "parse_failure"
	}
	return "internal"
}

// Status maps the kind onto its HTTP status.
func (k ErrorKind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotConfigured, KindConfigMissing:
		return http.StatusServiceUnavailable
	case KindUpstreamUnavailable, KindParseFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Client-facing messages. These are part of the wire contract.
const (
	msgUnauthorized   = "Unauthorized"
	msgNotConfigured  = "Gateway authentication is not configured"
	msgInvalidPayload = "Invalid request payload"
	msgUnsupported    = "Unsupported operation"
	msgParseFailed    = "AI response parsing failed"
	msgInternal       = "Internal server error"
)

// Error is a terminal pipeline failure. Message is safe to return to the
// client; Cause never is, except as debug details.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// asError converts any error into an *Error, defaulting to KindInternal.
func asError(err error) *Error {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}
	return &Error{Kind: KindInternal, Message: msgInternal, Cause: err}
}

// exposesDetails reports whether debug mode may attach Cause to the body.
func (k ErrorKind) exposesDetails() bool {
	return k == KindConfigMissing || k == KindUpstreamUnavailable
}
