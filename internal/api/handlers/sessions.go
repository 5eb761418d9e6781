package handlers

import (
	"errors"
	"fieldops-service/internal/api/dto"
	"fieldops-service/internal/services"
	"net/http"
	"strings"
	"time"
)

// SessionHandler drives route sessions: a client selects a journey, reports
// map readiness, and polls for the route as it resolves.
type SessionHandler struct {
	Store    *services.SessionStore
	Tracking TrackingReader
	clock
}

func NewSessionHandler(store *services.SessionStore, tracking TrackingReader, loc *time.Location) *SessionHandler {
	return &SessionHandler{Store: store, Tracking: tracking, clock: clock{Location: loc}}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s := h.Store.Create(req.MapReady)
	writeJSON(w, r, http.StatusCreated, toSessionResponse(s.Snapshot()))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get session", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSessionResponse(s.Snapshot()))
}

// Select loads the journey for the requested date and salesman and restarts
// the route computation. An empty or "all" salesman clears the selection.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "select journey", err)
		return
	}

	var req dto.SelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	salesman := strings.TrimSpace(req.Salesman)
	if salesman == "" || strings.EqualFold(salesman, "all") {
		s.Clear(r.Context())
		writeJSON(w, r, http.StatusOK, toSessionResponse(s.Snapshot()))
		return
	}

	day, err := parseDay(req.Date, h.clock)
	if err != nil {
		writeServiceError(w, r, "select journey", err)
		return
	}

	// The token is taken before the journey is loaded so a later selection
	// wins even when its fetch finishes first.
	token := s.BeginSelection()
	journey, err := h.Tracking.Journey(r.Context(), day, salesman)
	if err != nil {
		s.AbandonSelection(r.Context(), token)
		writeServiceError(w, r, "select journey", err)
		return
	}

	done, ok := s.CompleteSelection(r.Context(), token, journey)
	if !ok {
		writeError(w, r, http.StatusConflict, "selection superseded by a newer selection")
		return
	}
	h.respondAfter(w, r, s, done)
}

func (h *SessionHandler) MapReady(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "set map readiness", err)
		return
	}

	var req dto.MapReadyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	done := s.SetMapReady(r.Context(), req.Ready)
	h.respondAfter(w, r, s, done)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondAfter returns the session state. With ?wait=true it first waits for
// the started computation or the end of the request.
func (h *SessionHandler) respondAfter(w http.ResponseWriter, r *http.Request, s *services.RouteSession, done <-chan struct{}) {
	status := http.StatusAccepted
	if r.URL.Query().Get("wait") == "true" {
		select {
		case <-done:
			status = http.StatusOK
		case <-r.Context().Done():
		}
	}
	writeJSON(w, r, status, toSessionResponse(s.Snapshot()))
}
