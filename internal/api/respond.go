// Package api exposes the HTTP surface: JSON handlers over the service
// layer, routed with chi.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/service"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// errStatus maps service errors onto HTTP statuses: validation failures
// are bad requests, engine rejections are unprocessable input, missing
// records are 404, everything else is a 500.
func errStatus(err error) int {
	var inconsistency *calculator.InconsistencyError
	var imbalance *calculator.ImbalanceError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &inconsistency), errors.As(err, &imbalance):
		return http.StatusUnprocessableEntity
	case strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON parses a request body into v, limiting size to keep hostile
// payloads cheap.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 10<<20))
	return dec.Decode(v)
}
