package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

type Middleware func(Handler) Handler

func WrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}

func Respond(ctx context.Context, w http.ResponseWriter, data interface{}, statusCode int) error {
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cannot marshal response data: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("cannot write response data to response writer: %w", err)
	}

	return nil
}

// DecodeError is returned by Decode. Its message is safe to show to the
// caller; Field is set when a single field had the wrong type.
type DecodeError struct {
	Field string
	Msg   string
}

func (e *DecodeError) Error() string { return e.Msg }

// Decode reads a single JSON value from the request body into val.
func Decode(w http.ResponseWriter, r *http.Request, val interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(val); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError

		switch {
		case errors.As(err, &syntaxErr):
			return &DecodeError{Msg: fmt.Sprintf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset)}
		case errors.As(err, &typeErr):
			if typeErr.Field != "" {
				return &DecodeError{
					Field: typeErr.Field,
					Msg:   fmt.Sprintf("body contains an invalid value for the %q field", typeErr.Field),
				}
			}
			return &DecodeError{Msg: fmt.Sprintf("body contains an invalid value (at character %d)", typeErr.Offset)}
		case errors.Is(err, io.EOF):
			return &DecodeError{Msg: "body must not be empty"}
		case errors.Is(err, io.ErrUnexpectedEOF):
			return &DecodeError{Msg: "body contains badly-formed JSON"}
		default:
			return &DecodeError{Msg: strings.TrimPrefix(err.Error(), "json: ")}
		}
	}

	return nil
}

func Param(r *http.Request, key string) string {
	m := mux.Vars(r)
	return m[key]
}
