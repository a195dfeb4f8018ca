package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/flip7/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeBody reads a JSON request body into T. Bodies that are optional
// decode to the zero value when empty.
func decodeBody[T any](r *http.Request, optional bool) (T, error) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case err == nil:
		return req, nil
	case optional && errors.Is(err, io.EOF):
		return req, nil
	default:
		return req, NewInvalidRequestError("invalid request body")
	}
}
