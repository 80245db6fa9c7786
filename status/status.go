package status

import (
	"errors"
	"fmt"

	"github.com/breez/feechart/status/codes"
)

// Stable machine readable reasons returned to callers.
const (
	ReasonDaysRequired        = "days_required"
	ReasonDaysTooLarge        = "days_too_large"
	ReasonBackendRequired     = "backend_required"
	ReasonInvalidViaPeer      = "invalid_via_peer"
	ReasonInvalidCount        = "invalid_count"
	ReasonUnauthorized        = "unauthorized"
	ReasonUpstreamUnavailable = "upstream_unavailable"
	ReasonInternal            = "internal"
)

type Status struct {
	Code    codes.Code
	Reason  string
	Message string
}

func New(c codes.Code, reason string, msg string) *Status {
	return &Status{Code: c, Reason: reason, Message: msg}
}

func Newf(c codes.Code, reason string, format string, a ...interface{}) *Status {
	return New(c, reason, fmt.Sprintf(format, a...))
}

// Wrap returns an error carrying the status, with cause as the wrapped error.
// msg is what callers see; the cause only shows up in Error() and Unwrap().
func Wrap(c codes.Code, reason string, msg string, cause error) error {
	return &Error{
		s:     New(c, reason, msg),
		cause: cause,
	}
}

// FromError returns the status carried by err or any error it wraps. If no
// status is found, an Internal status is returned and ok is false.
func FromError(err error) (s *Status, ok bool) {
	if err == nil {
		return nil, true
	}

	var se *Error
	if errors.As(err, &se) {
		return se.s, true
	}

	return New(codes.Internal, ReasonInternal, err.Error()), false
}

// Convert is a convenience function which removes the need to handle the
// boolean return value from FromError.
func Convert(err error) *Status {
	s, _ := FromError(err)
	return s
}

// Code returns the numeric class of err, OK for a nil error.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}

	return Convert(err).Code
}

func (s *Status) Err() error {
	if s.Code == codes.OK {
		return nil
	}
	return &Error{s: s}
}

func (s *Status) String() string {
	return fmt.Sprintf("chart error: code = %s reason = %s desc = %s", s.Code, s.Reason, s.Message)
}

type Error struct {
	s     *Status
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.s.String() + ": " + e.cause.Error()
	}
	return e.s.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Status() *Status {
	return e.s
}
