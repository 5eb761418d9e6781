package ports

import (
	"fieldops-service/internal/domain"
	"io"
)

// Contract for rendering report views as spreadsheet workbooks.
// Rows are written in the order given.
type ReportExporter interface {
	WriteJourney(w io.Writer, journey domain.Journey, route domain.RouteResult) error
	WriteTimeMotion(w io.Writer, report domain.TimeMotionReport) error
	WritePerformance(w io.Writer, report domain.PerformanceReport) error
	WritePurchaseOrders(w io.Writer, summary domain.PurchaseOrderSummary, lines []domain.PurchaseOrderLine) error
}
