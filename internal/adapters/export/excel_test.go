package export

import (
	"bytes"
	"fieldops-service/internal/domain"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/xuri/excelize/v2"
)

var dubai = time.FixedZone("GST", 4*3600)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func rows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	out, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("rows of %q: %v", sheet, err)
	}
	return out
}

func TestWriteJourneyRendersStopsInDisplayZone(t *testing.T) {
	arrival := time.Date(2025, 1, 15, 5, 30, 0, 0, time.UTC)
	departure := arrival.Add(12 * time.Minute)
	journey := domain.Journey{
		SalesmanCode: "S1",
		SalesmanName: "Ahmed",
		Stops: []domain.Stop{
			{Sequence: 1, CustomerCode: "C1", CustomerName: "First", ArrivalTime: arrival, DepartureTime: &departure, DurationMinutes: 12, Productive: true},
			{Sequence: 2, CustomerCode: "C2", CustomerName: "Second", ArrivalTime: departure.Add(20 * time.Minute), TravelMinutes: 20},
		},
	}
	route := domain.RouteResult{
		Status:    domain.FailedStatus("REQUEST_DENIED"),
		Attempted: 1,
		Paths:     []domain.RoutePath{{Line: orb.LineString{{55.27, 25.2}, {55.28, 25.21}}, DistanceMeters: 2500}},
	}

	var buf bytes.Buffer
	if err := NewExcelExporter(dubai).WriteJourney(&buf, journey, route); err != nil {
		t.Fatalf("WriteJourney: %v", err)
	}

	f := openWorkbook(t, &buf)

	if got := f.GetSheetList(); len(got) != 2 || got[0] != "Journey" || got[1] != "Route" {
		t.Fatalf("sheets = %v, want [Journey Route]", got)
	}

	stops := rows(t, f, "Journey")
	if len(stops) != 3 {
		t.Fatalf("journey rows = %d, want header + 2", len(stops))
	}
	if stops[0][0] != "Seq" {
		t.Fatalf("header = %v", stops[0])
	}
	if stops[1][3] != "09:30" || stops[1][4] != "09:42" {
		t.Fatalf("arrival/departure = %q/%q, want 09:30/09:42", stops[1][3], stops[1][4])
	}
	if stops[2][7] != "No" {
		t.Fatalf("productive = %q, want No", stops[2][7])
	}

	status := rows(t, f, "Route")
	var sawGuidance bool
	for _, r := range status[1:] {
		if r[0] == "Route Status" && r[1] != "failed-REQUEST_DENIED" {
			t.Fatalf("route status = %q", r[1])
		}
		if r[0] == "Guidance" {
			sawGuidance = true
		}
	}
	if !sawGuidance {
		t.Fatal("expected guidance row for a failed route")
	}
}

func TestWritePurchaseOrdersKeepsRowOrder(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	lines := []domain.PurchaseOrderLine{
		{PODate: day, PONumber: "PO-2", ProductCode: "P1", Quantity: 3},
		{PODate: day, PONumber: "PO-1", ProductCode: "P2", Quantity: 5},
	}
	summary := domain.PurchaseOrderSummary{Lines: 2, PurchaseOrders: 2}

	var buf bytes.Buffer
	if err := NewExcelExporter(nil).WritePurchaseOrders(&buf, summary, lines); err != nil {
		t.Fatalf("WritePurchaseOrders: %v", err)
	}

	f := openWorkbook(t, &buf)
	got := rows(t, f, "Purchase Orders")
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	if got[1][1] != "PO-2" || got[2][1] != "PO-1" {
		t.Fatalf("order = %s,%s, want PO-2,PO-1", got[1][1], got[2][1])
	}

	panes, err := f.GetPanes("Purchase Orders")
	if err != nil {
		t.Fatalf("GetPanes: %v", err)
	}
	if !panes.Freeze || panes.YSplit != 1 {
		t.Fatalf("panes = %+v, want frozen header row", panes)
	}
}

func TestWriteTimeMotionAndPerformanceSheets(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, dubai)
	e := NewExcelExporter(dubai)

	var tm bytes.Buffer
	report := domain.TimeMotionReport{
		Date:   day,
		Users:  []domain.UserTimeMotion{{UserCode: "S1", CompletedVisits: 4}},
		Hourly: []domain.HourlyActivity{{Hour: 8, Visits: 2}, {Hour: 9}},
	}
	if err := e.WriteTimeMotion(&tm, report); err != nil {
		t.Fatalf("WriteTimeMotion: %v", err)
	}
	hourly := rows(t, openWorkbook(t, &tm), "Hourly")
	if len(hourly) != 3 || hourly[1][0] != "08:00" {
		t.Fatalf("hourly = %v", hourly)
	}

	var perf bytes.Buffer
	pr := domain.PerformanceReport{
		Trend:  []domain.TrendPoint{{Date: day, Sales: 100, Orders: 2}},
		Routes: []domain.RoutePerformance{{RouteCode: "R1"}, {RouteCode: "R2"}},
	}
	if err := e.WritePerformance(&perf, pr); err != nil {
		t.Fatalf("WritePerformance: %v", err)
	}
	f := openWorkbook(t, &perf)
	if got := rows(t, f, "Trend"); got[1][0] != "2025-01-15" {
		t.Fatalf("trend date = %q", got[1][0])
	}
	if got := rows(t, f, "Routes"); len(got) != 3 {
		t.Fatalf("routes rows = %d, want 3", len(got))
	}
}
