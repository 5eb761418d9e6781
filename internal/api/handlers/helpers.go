package handlers

import (
	"encoding/json"
	"errors"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fieldops-service/internal/services"
	"io"
	"net/http"
	"time"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Error("req_id", obs.RequestID(r.Context()), "msg", "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps service errors to responses. Validation errors are
// returned to the caller; everything else is logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ports.ErrInvalidFilter):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "session not found")
	default:
		obs.Error("req_id", obs.RequestID(r.Context()), "msg", op+" failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

var errEmptyBody = errors.New("empty body")

// decodeJSON reads exactly one JSON object from the request body.
// It returns errEmptyBody when the body has no content.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// clock supplies the current time and display zone to request parsing.
type clock struct {
	Location *time.Location
	Now      func() time.Time
}

func (c clock) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
