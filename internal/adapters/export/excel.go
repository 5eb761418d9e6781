package export

import (
	"fieldops-service/internal/domain"
	"fieldops-service/internal/ports"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	timeLayout = "15:04"
	dayLayout  = "2006-01-02"
)

// ExcelExporter renders report views as .xlsx workbooks with excelize.
type ExcelExporter struct {
	Location *time.Location
}

var _ ports.ReportExporter = (*ExcelExporter)(nil)

func NewExcelExporter(loc *time.Location) *ExcelExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &ExcelExporter{Location: loc}
}

// column is one exported column: header text and width in characters.
type column struct {
	header string
	width  float64
}

// sheetWriter fills one sheet row by row below a bold, frozen header.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheet(f *excelize.File, name string, cols []column, first bool) (*sheetWriter, error) {
	if first {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return nil, fmt.Errorf("rename sheet %q: %w", name, err)
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("add sheet %q: %w", name, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: header style: %w", name, err)
	}

	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(name, cell, c.header); err != nil {
			return nil, fmt.Errorf("sheet %q: header %q: %w", name, c.header, err)
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(name, colName, colName, c.width); err != nil {
			return nil, fmt.Errorf("sheet %q: width %s: %w", name, colName, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("sheet %q: header style: %w", name, err)
	}

	err = f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: freeze header: %w", name, err)
	}

	return &sheetWriter{f: f, sheet: name, row: 1}, nil
}

func (s *sheetWriter) append(values ...any) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	if err := s.f.SetSheetRow(s.sheet, cell, &values); err != nil {
		return fmt.Errorf("sheet %q: row %d: %w", s.sheet, s.row, err)
	}
	return nil
}

func (e *ExcelExporter) clock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.Location).Format(timeLayout)
}

func (e *ExcelExporter) clockPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return e.clock(*t)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func finish(f *excelize.File, w io.Writer) error {
	defer f.Close()
	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteJourney exports the stops of a journey and the state of its route.
func (e *ExcelExporter) WriteJourney(w io.Writer, journey domain.Journey, route domain.RouteResult) error {
	f := excelize.NewFile()

	stops, err := newSheet(f, "Journey", []column{
		{"Seq", 6},
		{"Customer Code", 16},
		{"Customer Name", 32},
		{"Arrival", 10},
		{"Departure", 10},
		{"Duration (min)", 14},
		{"Travel (min)", 12},
		{"Productive", 11},
		{"Visit Type", 14},
		{"Order Value", 13},
		{"Latitude", 12},
		{"Longitude", 12},
	}, true)
	if err != nil {
		return fmt.Errorf("export journey: %w", err)
	}

	for _, s := range journey.Stops {
		err := stops.append(
			s.Sequence,
			s.CustomerCode,
			s.CustomerName,
			e.clock(s.ArrivalTime),
			e.clockPtr(s.DepartureTime),
			s.DurationMinutes,
			s.TravelMinutes,
			yesNo(s.Productive),
			s.VisitType,
			s.OrderValue,
			s.Coordinates.Lat,
			s.Coordinates.Lon,
		)
		if err != nil {
			return fmt.Errorf("export journey: %w", err)
		}
	}

	status, err := newSheet(f, "Route", []column{
		{"Field", 22},
		{"Value", 60},
	}, false)
	if err != nil {
		return fmt.Errorf("export journey: %w", err)
	}

	rows := [][2]any{
		{"Salesman", journey.SalesmanCode + " " + journey.SalesmanName},
		{"Route", journey.RouteCode + " " + journey.RouteName},
		{"Start", e.clockPtr(journey.StartTime)},
		{"End", e.clockPtr(journey.EndTime)},
		{"Total Duration (min)", journey.TotalDurationMinutes},
		{"Route Status", string(route.Status)},
		{"Segments", route.Progress()},
		{"Distance (km)", float64(route.TotalDistanceMeters()) / 1000},
		{"Drive Time (min)", route.TotalDurationSeconds() / 60},
		{"Diagnostic", route.Diagnostic},
	}
	if code := route.Status.FailureCode(); code != "" {
		rows = append(rows, [2]any{"Guidance", ports.Guidance(code)})
	}
	for _, r := range rows {
		if err := status.append(r[0], r[1]); err != nil {
			return fmt.Errorf("export journey: %w", err)
		}
	}

	return finish(f, w)
}

// WriteTimeMotion exports the per-user breakdown and hourly activity.
func (e *ExcelExporter) WriteTimeMotion(w io.Writer, report domain.TimeMotionReport) error {
	f := excelize.NewFile()

	users, err := newSheet(f, "Users", []column{
		{"User Code", 12},
		{"User Name", 26},
		{"First Visit", 11},
		{"Last Visit", 11},
		{"Visits", 8},
		{"Productive", 11},
		{"Non-Productive", 14},
		{"Active (min)", 12},
		{"Productive (min)", 15},
		{"Travel (min)", 12},
		{"Working (min)", 13},
		{"Avg Visit (min)", 14},
		{"Utilization %", 13},
		{"Distance (km)", 13},
	}, true)
	if err != nil {
		return fmt.Errorf("export time-motion: %w", err)
	}

	for _, u := range report.Users {
		err := users.append(
			u.UserCode,
			u.UserName,
			e.clock(u.FirstVisit),
			e.clock(u.LastVisit),
			u.CompletedVisits,
			u.ProductiveVisits,
			u.NonProductiveVisits,
			u.TotalActiveMinutes,
			u.ProductiveMinutes,
			u.TravelMinutes,
			u.TotalWorkingMinutes,
			u.AvgVisitDuration,
			u.TimeUtilization,
			u.DistanceTraveled,
		)
		if err != nil {
			return fmt.Errorf("export time-motion: %w", err)
		}
	}

	hourly, err := newSheet(f, "Hourly", []column{
		{"Hour", 8},
		{"Visits", 8},
		{"Productive", 11},
		{"Non-Productive", 14},
		{"Total (min)", 11},
		{"Avg Duration", 12},
	}, false)
	if err != nil {
		return fmt.Errorf("export time-motion: %w", err)
	}

	for _, h := range report.Hourly {
		err := hourly.append(
			fmt.Sprintf("%02d:00", h.Hour),
			h.Visits,
			h.Productive,
			h.NonProductive,
			h.TotalMinutes,
			h.AvgDuration,
		)
		if err != nil {
			return fmt.Errorf("export time-motion: %w", err)
		}
	}

	return finish(f, w)
}

// WritePerformance exports the sales trend, top salesmen and routes.
func (e *ExcelExporter) WritePerformance(w io.Writer, report domain.PerformanceReport) error {
	f := excelize.NewFile()

	trend, err := newSheet(f, "Trend", []column{
		{"Date", 12},
		{"Sales", 14},
		{"Orders", 9},
		{"Salesmen", 10},
	}, true)
	if err != nil {
		return fmt.Errorf("export performance: %w", err)
	}
	for _, p := range report.Trend {
		if err := trend.append(p.Date.In(e.Location).Format(dayLayout), p.Sales, p.Orders, p.Salesmen); err != nil {
			return fmt.Errorf("export performance: %w", err)
		}
	}

	top, err := newSheet(f, "Top Salesmen", []column{
		{"Salesman Code", 14},
		{"Salesman Name", 26},
		{"Orders", 9},
		{"Total Sales", 14},
		{"Avg Order", 12},
	}, false)
	if err != nil {
		return fmt.Errorf("export performance: %w", err)
	}
	for _, s := range report.TopSalesmen {
		if err := top.append(s.SalesmanCode, s.SalesmanName, s.Orders, s.TotalSales, s.AvgOrder); err != nil {
			return fmt.Errorf("export performance: %w", err)
		}
	}

	routes, err := newSheet(f, "Routes", []column{
		{"Route Code", 12},
		{"Route Name", 24},
		{"Orders", 9},
		{"Total Sales", 14},
		{"Customers", 11},
		{"Salesmen", 10},
	}, false)
	if err != nil {
		return fmt.Errorf("export performance: %w", err)
	}
	for _, r := range report.Routes {
		if err := routes.append(r.RouteCode, r.RouteName, r.Orders, r.TotalSales, r.UniqueCustomers, r.Salesmen); err != nil {
			return fmt.Errorf("export performance: %w", err)
		}
	}

	return finish(f, w)
}

// WritePurchaseOrders exports the lines in the order given, then a summary sheet.
func (e *ExcelExporter) WritePurchaseOrders(w io.Writer, summary domain.PurchaseOrderSummary, lines []domain.PurchaseOrderLine) error {
	f := excelize.NewFile()

	sheet, err := newSheet(f, "Purchase Orders", []column{
		{"PO Date", 12},
		{"PO Number", 16},
		{"User Code", 12},
		{"User Name", 22},
		{"Store Code", 12},
		{"Store Name", 26},
		{"Chain", 18},
		{"Status", 12},
		{"Product Code", 14},
		{"Product Name", 28},
		{"Category", 16},
		{"Quantity", 10},
		{"Received", 10},
		{"Pending", 10},
		{"Unit Price", 11},
		{"Line Amount", 13},
		{"PO Total", 13},
		{"Delivery", 12},
	}, true)
	if err != nil {
		return fmt.Errorf("export purchase orders: %w", err)
	}

	for _, l := range lines {
		err := sheet.append(
			l.PODate.Format(dayLayout),
			l.PONumber,
			l.UserCode,
			l.UserName,
			l.StoreCode,
			l.StoreName,
			l.ChainName,
			l.POStatus,
			l.ProductCode,
			l.ProductName,
			l.ProductCategory,
			l.Quantity,
			l.ReceivedQuantity,
			l.PendingQuantity,
			l.UnitPrice,
			l.LineAmount,
			l.TotalAmount,
			l.DeliveryStatus,
		)
		if err != nil {
			return fmt.Errorf("export purchase orders: %w", err)
		}
	}

	totals, err := newSheet(f, "Summary", []column{
		{"Metric", 22},
		{"Value", 16},
	}, false)
	if err != nil {
		return fmt.Errorf("export purchase orders: %w", err)
	}
	rows := [][2]any{
		{"Lines", summary.Lines},
		{"Purchase Orders", summary.PurchaseOrders},
		{"Stores", summary.Stores},
		{"Total Amount", summary.TotalAmount},
		{"Ordered Quantity", summary.OrderedQuantity},
		{"Received Quantity", summary.ReceivedQuantity},
		{"Pending Quantity", summary.PendingQuantity},
	}
	for _, r := range rows {
		if err := totals.append(r[0], r[1]); err != nil {
			return fmt.Errorf("export purchase orders: %w", err)
		}
	}

	return finish(f, w)
}
