// Package apierr defines the error taxonomy surfaced by the HTTP API.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindServiceUnavailable
	KindBadGateway
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindBadGateway:
		return "bad_gateway"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindBadGateway:
		return http.StatusBadGateway
	case KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a terminal request failure with a human-readable detail.
type Error struct {
	Kind   Kind
	Detail string
	// UpstreamStatus is the status code returned by the collaborator, if any.
	UpstreamStatus int
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

// Unauthorized reports a rejected token; status is the upstream status code.
func Unauthorized(status int, detail string) *Error {
	return &Error{Kind: KindUnauthorized, Detail: detail, UpstreamStatus: status}
}

// ServiceUnavailable reports an unreachable or misbehaving auth delegate.
func ServiceUnavailable(detail string, err error) *Error {
	return &Error{Kind: KindServiceUnavailable, Detail: detail, Err: err}
}

// BadGateway reports an unreachable or misbehaving rate provider.
func BadGateway(status int, detail string, err error) *Error {
	return &Error{Kind: KindBadGateway, Detail: detail, UpstreamStatus: status, Err: err}
}

// InvalidRequest reports a request the service cannot fulfil as asked.
func InvalidRequest(detail string) *Error {
	return &Error{Kind: KindInvalidRequest, Detail: detail}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status for err. Untyped errors map to 500.
func StatusOf(err error) int {
	return KindOf(err).Status()
}

// DetailOf returns the client-facing message for err. Untyped errors are
// not exposed.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal server error"
}
