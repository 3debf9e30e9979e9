package weberr

import (
	"net/http"
)

// Stable error codes callers can switch on.
const (
	CodeValidation   = "ValidationError"
	CodeNotFound     = "NotFound"
	CodeConflict     = "Conflict"
	CodeUnauthorized = "Unauthorized"
	CodeForbidden    = "Forbidden"
	CodeInternal     = "InternalError"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type RequestError struct {
	Err error
}

func (r *RequestError) Error() string { return r.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

func NewError(err error, msg string, status int, opts ...Opt) error {
	return NewCodeError(err, "", msg, status, opts...)
}

// NewCodeError is NewError with a stable machine readable code in the body.
func NewCodeError(err error, code string, msg string, status int, opts ...Opt) error {
	e := &RequestError{Err: err}
	opts = append(opts, WithResponse(
		&ErrorResponse{Error: msg, Code: code},
		status,
	))

	return Wrap(e, opts...)
}

// Validation reports err's own message to the caller, so err must not
// carry internal detail.
func Validation(err error, opts ...Opt) error {
	return NewCodeError(
		err,
		CodeValidation,
		err.Error(),
		http.StatusBadRequest,
		opts...,
	)
}

func NotFound(err error, opts ...Opt) error {
	return NewCodeError(
		err,
		CodeNotFound,
		"the resource could not be found",
		http.StatusNotFound,
		opts...,
	)
}

func Conflict(err error, msg string, opts ...Opt) error {
	return NewCodeError(
		err,
		CodeConflict,
		msg,
		http.StatusConflict,
		opts...,
	)
}

func NotAuthorized(err error, opts ...Opt) error {
	return NewCodeError(
		err,
		CodeUnauthorized,
		"not authorized to access resource",
		http.StatusUnauthorized,
		opts...,
	)
}

func InternalError(err error, opts ...Opt) error {
	return NewCodeError(
		err,
		CodeInternal,
		"the server encountered a problem and could not process your request",
		http.StatusInternalServerError,
		opts...,
	)
}

func BadRequest(err error, opts ...Opt) error {
	return NewCodeError(
		err,
		CodeValidation,
		"bad request",
		http.StatusBadRequest,
		opts...,
	)
}
