package handlers

import (
	"bytes"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fieldops-service/internal/services"
	"fmt"
	"net/http"
	"time"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves each report view as a workbook. It accepts the same
// query as the view and exports the same rows in the same order.
type ExportHandler struct {
	Tracking TrackingReader
	Resolver services.Resolver
	Reports  ReportReader
	Exporter ports.ReportExporter
	clock
}

func NewExportHandler(
	tracking TrackingReader,
	resolver services.Resolver,
	reports ReportReader,
	exporter ports.ReportExporter,
	loc *time.Location,
) *ExportHandler {
	return &ExportHandler{
		Tracking: tracking,
		Resolver: resolver,
		Reports:  reports,
		Exporter: exporter,
		clock:    clock{Location: loc},
	}
}

func (h *ExportHandler) Journey(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q, err := parseJourneyQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "export journey", err)
		return
	}

	journey, err := h.Tracking.Journey(r.Context(), q.Day, q.Salesman)
	if err != nil {
		writeServiceError(w, r, "export journey", err)
		return
	}
	result := h.Resolver.Resolve(r.Context(), journey.Stops)

	var buf bytes.Buffer
	if err := h.Exporter.WriteJourney(&buf, journey, result); err != nil {
		writeServiceError(w, r, "export journey", err)
		return
	}

	writeWorkbook(w, r, fmt.Sprintf("journey-%s-%s.xlsx", journey.SalesmanCode, q.Day.Format(dateLayout)), &buf)
}

func (h *ExportHandler) TimeMotion(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q, err := parseJourneyQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "export time motion", err)
		return
	}

	report, err := h.Reports.TimeMotion(r.Context(), q.Day, q.Salesman)
	if err != nil {
		writeServiceError(w, r, "export time motion", err)
		return
	}

	var buf bytes.Buffer
	if err := h.Exporter.WriteTimeMotion(&buf, report); err != nil {
		writeServiceError(w, r, "export time motion", err)
		return
	}

	writeWorkbook(w, r, fmt.Sprintf("time-motion-%s.xlsx", q.Day.Format(dateLayout)), &buf)
}

func (h *ExportHandler) Performance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	period, route, err := parsePerformanceQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "export performance", err)
		return
	}

	report, err := h.Reports.Performance(r.Context(), period, route)
	if err != nil {
		writeServiceError(w, r, "export performance", err)
		return
	}

	var buf bytes.Buffer
	if err := h.Exporter.WritePerformance(&buf, report); err != nil {
		writeServiceError(w, r, "export performance", err)
		return
	}

	name := fmt.Sprintf("performance-%s-%s.xlsx", period.From.Format(dateLayout), period.To.Format(dateLayout))
	writeWorkbook(w, r, name, &buf)
}

func (h *ExportHandler) PurchaseOrders(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q, err := parsePurchaseOrderQuery(r, h.clock)
	if err != nil {
		writeServiceError(w, r, "export purchase orders", err)
		return
	}

	report, err := h.Reports.PurchaseOrders(r.Context(), q.Filter, q.Sort, q.Dir)
	if err != nil {
		writeServiceError(w, r, "export purchase orders", err)
		return
	}

	var buf bytes.Buffer
	if err := h.Exporter.WritePurchaseOrders(&buf, report.Summary, report.Lines); err != nil {
		writeServiceError(w, r, "export purchase orders", err)
		return
	}

	name := fmt.Sprintf("purchase-orders-%s-%s.xlsx",
		report.Filter.StartDate.Format(dateLayout), report.Filter.EndDate.Format(dateLayout))
	writeWorkbook(w, r, name, &buf)
}

func writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		obs.Error("req_id", obs.RequestID(r.Context()), "msg", "write workbook failed", "file", filename, "err", err)
	}
}
