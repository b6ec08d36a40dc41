package handler

import (
	"encoding/json"
	"net/http"

	"github.com/moonpull/moonpull-web/internal/api/apierr"
)

// maxBodyBytes bounds credential request bodies
const maxBodyBytes = 1 << 16

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeBody reads a JSON body into dst, writing a 400 and returning false
// when it is missing, oversized or malformed
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return false
	}
	return true
}
