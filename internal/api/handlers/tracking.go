package handlers

import (
	"context"
	"fieldops-service/internal/api/dto"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/services"
	"net/http"
	"time"
)

// TrackingReader is the journey data the tracking endpoints read.
type TrackingReader interface {
	Overview(ctx context.Context, q services.TrackingQuery) (services.TrackingOverview, error)
	Journey(ctx context.Context, day time.Time, salesmanCode string) (domain.Journey, error)
}

// TrackingHandler serves the tracking list and one-shot journey routes.
type TrackingHandler struct {
	Tracking TrackingReader
	Resolver services.Resolver
	clock
}

func NewTrackingHandler(tracking TrackingReader, resolver services.Resolver, loc *time.Location) *TrackingHandler {
	return &TrackingHandler{Tracking: tracking, Resolver: resolver, clock: clock{Location: loc}}
}

// List returns the per-salesman summaries and journeys for a date or named range.
func (h *TrackingHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q, err := parseTrackingQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "tracking overview", err)
		return
	}

	overview, err := h.Tracking.Overview(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, "tracking overview", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toTrackingResponse(overview))
}

// Route resolves the road route of one journey synchronously.
func (h *TrackingHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q, err := parseJourneyQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "journey route", err)
		return
	}

	journey, err := h.Tracking.Journey(r.Context(), q.Day, q.Salesman)
	if err != nil {
		writeServiceError(w, r, "journey route", err)
		return
	}

	result := h.Resolver.Resolve(r.Context(), journey.Stops)

	writeJSON(w, r, http.StatusOK, dto.JourneyRouteResponse{
		Journey:   toJourneyResponse(journey),
		Route:     toRouteResponse(result),
		MapCenter: mapCenter(journey),
		GeoJSON:   services.RouteFeatureCollection(journey, result),
	})
}
