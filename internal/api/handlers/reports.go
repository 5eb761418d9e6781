package handlers

import (
	"context"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/ports"
	"fieldops-service/internal/services"
	"net/http"
	"time"
)

// ReportReader is the analytics views.
type ReportReader interface {
	TimeMotion(ctx context.Context, day time.Time, salesmanCode string) (domain.TimeMotionReport, error)
	Performance(ctx context.Context, period services.DateRange, routeCode string) (domain.PerformanceReport, error)
	PurchaseOrders(ctx context.Context, f ports.PurchaseOrderFilter, column, dir string) (services.PurchaseOrderReport, error)
}

type ReportHandler struct {
	Reports ReportReader
	clock
}

func NewReportHandler(reports ReportReader, loc *time.Location) *ReportHandler {
	return &ReportHandler{Reports: reports, clock: clock{Location: loc}}
}

func (h *ReportHandler) TimeMotion(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q, err := parseJourneyQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "time motion", err)
		return
	}

	report, err := h.Reports.TimeMotion(r.Context(), q.Day, q.Salesman)
	if err != nil {
		writeServiceError(w, r, "time motion", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toTimeMotionResponse(report))
}

func (h *ReportHandler) Performance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	period, route, err := parsePerformanceQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "performance", err)
		return
	}

	report, err := h.Reports.Performance(r.Context(), period, route)
	if err != nil {
		writeServiceError(w, r, "performance", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPerformanceResponse(report, h.loc()))
}

func (h *ReportHandler) PurchaseOrders(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q, err := parsePurchaseOrderQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "purchase orders", err)
		return
	}

	report, err := h.Reports.PurchaseOrders(r.Context(), q.Filter, q.Sort, q.Dir)
	if err != nil {
		writeServiceError(w, r, "purchase orders", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPurchaseOrderResponse(report))
}
