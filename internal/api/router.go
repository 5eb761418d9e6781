package api

import (
	"fieldops-service/internal/api/handlers"
	"fieldops-service/internal/ports"
	"fieldops-service/internal/services"
	"net/http"
	"time"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Tracking handlers.TrackingReader
	Reports  handlers.ReportReader
	Resolver services.Resolver
	Provider handlers.ProviderControl
	Sessions *services.SessionStore
	Exporter ports.ReportExporter
	Location *time.Location
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	tracking := handlers.NewTrackingHandler(d.Tracking, d.Resolver, d.Location)
	sessions := handlers.NewSessionHandler(d.Sessions, d.Tracking, d.Location)
	routing := &handlers.RoutingHandler{Provider: d.Provider}
	reports := handlers.NewReportHandler(d.Reports, d.Location)
	exports := handlers.NewExportHandler(d.Tracking, d.Resolver, d.Reports, d.Exporter, d.Location)

	health := &handlers.HealthHandler{Provider: d.Provider}

	mux.HandleFunc("/health", health.Health)

	mux.HandleFunc("/tracking", tracking.List)
	mux.HandleFunc("/tracking/route", tracking.Route)

	mux.HandleFunc("POST /tracking/sessions", sessions.Create)
	mux.HandleFunc("GET /tracking/sessions/{id}/route", sessions.Get)
	mux.HandleFunc("PUT /tracking/sessions/{id}/selection", sessions.Select)
	mux.HandleFunc("PUT /tracking/sessions/{id}/map-ready", sessions.MapReady)
	mux.HandleFunc("DELETE /tracking/sessions/{id}", sessions.Delete)

	mux.HandleFunc("/routing/status", routing.Status)
	mux.HandleFunc("/routing/reset", routing.Reset)

	mux.HandleFunc("/analytics/time-motion", reports.TimeMotion)
	mux.HandleFunc("/performance", reports.Performance)
	mux.HandleFunc("/purchase-orders", reports.PurchaseOrders)

	mux.HandleFunc("/export/journey.xlsx", exports.Journey)
	mux.HandleFunc("/export/time-motion.xlsx", exports.TimeMotion)
	mux.HandleFunc("/export/performance.xlsx", exports.Performance)
	mux.HandleFunc("/export/purchase-orders.xlsx", exports.PurchaseOrders)

	return requestIDMiddleware(loggingMiddleware(mux))
}
