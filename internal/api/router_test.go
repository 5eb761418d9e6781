package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fieldops-service/internal/adapters/export"
	"fieldops-service/internal/adapters/routing"
	"fieldops-service/internal/api/dto"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/ports"
	"fieldops-service/internal/services"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var testDay = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

type fakeTracking struct {
	overview services.TrackingOverview
	journeys map[string]domain.Journey
	err      error

	// Journey blocks on gates[salesman] when present and reports each call
	// on started when it is non-nil.
	gates   map[string]chan struct{}
	started chan string
}

func (f *fakeTracking) Overview(ctx context.Context, q services.TrackingQuery) (services.TrackingOverview, error) {
	if f.err != nil {
		return services.TrackingOverview{}, f.err
	}
	o := f.overview
	o.From, o.To = q.Range.From, q.Range.To
	return o, nil
}

func (f *fakeTracking) Journey(ctx context.Context, day time.Time, salesmanCode string) (domain.Journey, error) {
	if f.started != nil {
		f.started <- salesmanCode
	}
	if gate, ok := f.gates[salesmanCode]; ok {
		<-gate
	}
	if f.err != nil {
		return domain.Journey{}, f.err
	}
	return f.journeys[salesmanCode], nil
}

type fakeReports struct {
	lastColumn string
}

func (f *fakeReports) TimeMotion(ctx context.Context, day time.Time, salesmanCode string) (domain.TimeMotionReport, error) {
	return domain.TimeMotionReport{Date: day}, nil
}

func (f *fakeReports) Performance(ctx context.Context, period services.DateRange, routeCode string) (domain.PerformanceReport, error) {
	return domain.PerformanceReport{}, nil
}

func (f *fakeReports) PurchaseOrders(ctx context.Context, flt ports.PurchaseOrderFilter, column, dir string) (services.PurchaseOrderReport, error) {
	f.lastColumn = column
	if column == "bogus" {
		return services.PurchaseOrderReport{}, fmt.Errorf("%w: unknown sort column %q", ports.ErrInvalidFilter, column)
	}
	return services.PurchaseOrderReport{
		Filter: flt,
		Lines:  []domain.PurchaseOrderLine{{PODate: flt.StartDate, PONumber: "PO-1"}},
	}, nil
}

func stops(n int) []domain.Stop {
	out := make([]domain.Stop, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Stop{
			Sequence:     i + 1,
			CustomerCode: fmt.Sprintf("C%d", i+1),
			Coordinates:  domain.Coordinates{Lon: 55.27 + float64(i)*0.01, Lat: 25.2 + float64(i)*0.01},
			ArrivalTime:  testDay.Add(time.Duration(8*60+i*20) * time.Minute),
			Productive:   true,
		})
	}
	return out
}

type testServer struct {
	handler  http.Handler
	provider *routing.MockRoutingProvider
	tracking *fakeTracking
	reports  *fakeReports
}

func newTestServer(t *testing.T, initErr error) *testServer {
	t.Helper()

	provider := routing.NewMockRoutingProvider(23)
	initializer := services.NewProviderInitializer(func(ctx context.Context) error { return initErr }, 3)
	resolver := services.NewRouteResolver(provider, initializer, 0, ports.TravelDriving, 0)

	tracking := &fakeTracking{
		overview: services.TrackingOverview{
			Summaries: []domain.JourneySummary{{SalesmanCode: "S1", TotalVisits: 4, Status: domain.JourneyActive}},
		},
		journeys: map[string]domain.Journey{
			"S1": {SalesmanCode: "S1", SalesmanName: "Ahmed", Stops: stops(4)},
		},
	}
	reports := &fakeReports{}

	h := NewRouter(Deps{
		Tracking: tracking,
		Reports:  reports,
		Resolver: resolver,
		Provider: initializer,
		Sessions: services.NewSessionStore(resolver),
		Exporter: export.NewExcelExporter(time.UTC),
		Location: time.UTC,
	})

	return &testServer{handler: h, provider: provider, tracking: tracking, reports: reports}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestHealthSetsRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want caller's id", got)
	}
}

func TestTrackingList(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/tracking?date=2025-01-15", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	res := decode[dto.TrackingResponse](t, rec)
	if res.From != "2025-01-15" || len(res.Summaries) != 1 || res.Summaries[0].Status != "active" {
		t.Fatalf("response = %+v", res)
	}

	if rec := s.do(t, http.MethodGet, "/tracking?date=15-01-2025", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/tracking", "")
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodGet {
		t.Fatalf("POST status = %d allow %q, want 405 GET", rec.Code, rec.Header().Get("Allow"))
	}
}

func TestTrackingListHidesInternalErrors(t *testing.T) {
	s := newTestServer(t, nil)
	s.tracking.err = errors.New("connection refused")

	rec := s.do(t, http.MethodGet, "/tracking", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "refused") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

func TestTrackingRouteResolvesSynchronously(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/tracking/route?date=2025-01-15&salesman=S1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	res := decode[dto.JourneyRouteResponse](t, rec)
	if res.Route.Status != string(domain.RouteSuccess) {
		t.Fatalf("route status = %q, want success", res.Route.Status)
	}
	if len(res.Journey.Stops) != 4 || res.GeoJSON == nil || len(res.GeoJSON.Features) != 5 {
		t.Fatalf("stops=%d geojson=%v, want 4 stops and 1 line + 4 points", len(res.Journey.Stops), res.GeoJSON)
	}

	if rec := s.do(t, http.MethodGet, "/tracking/route?date=thisWeek&salesman=S1", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("multi-day status = %d, want 400", rec.Code)
	}
}

func TestRouteSessionFlow(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/tracking/sessions", `{"map_ready": true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	created := decode[dto.SessionResponse](t, rec)
	if created.Route.Status != string(domain.RouteIdle) || !created.MapReady {
		t.Fatalf("created = %+v, want idle and map ready", created)
	}
	base := "/tracking/sessions/" + created.ID

	rec = s.do(t, http.MethodPut, base+"/selection?wait=true", `{"date": "2025-01-15", "salesman": "S1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	selected := decode[dto.SessionResponse](t, rec)
	if selected.Route.Status != string(domain.RouteSuccess) || selected.Generation != 2 {
		t.Fatalf("selected = %q gen %d, want success gen 2", selected.Route.Status, selected.Generation)
	}

	rec = s.do(t, http.MethodGet, base+"/route", "")
	got := decode[dto.SessionResponse](t, rec)
	if got.Journey == nil || got.Journey.SalesmanCode != "S1" || got.GeoJSON == nil {
		t.Fatalf("route = %+v, want S1 journey with geojson", got)
	}

	rec = s.do(t, http.MethodPut, base+"/map-ready?wait=true", `{"ready": false}`)
	if res := decode[dto.SessionResponse](t, rec); res.Route.Status != string(domain.RouteIdle) {
		t.Fatalf("after map hidden = %q, want idle", res.Route.Status)
	}

	rec = s.do(t, http.MethodPut, base+"/selection", `{"salesman": "all"}`)
	if res := decode[dto.SessionResponse](t, rec); res.Journey != nil {
		t.Fatalf("journey after clear = %+v, want none", res.Journey)
	}

	if rec := s.do(t, http.MethodDelete, "/tracking/sessions/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, base+"/route", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestRouteSessionLatestSelectionWins(t *testing.T) {
	s := newTestServer(t, nil)
	s.tracking.journeys["A"] = domain.Journey{SalesmanCode: "A", Stops: stops(4)}
	s.tracking.journeys["B"] = domain.Journey{SalesmanCode: "B", Stops: stops(3)}
	s.tracking.gates = map[string]chan struct{}{"A": make(chan struct{})}
	s.tracking.started = make(chan string, 2)

	created := decode[dto.SessionResponse](t, s.do(t, http.MethodPost, "/tracking/sessions", `{"map_ready": true}`))
	base := "/tracking/sessions/" + created.ID

	// A's journey loads slowly; B is selected after A but loads first.
	slow := make(chan *httptest.ResponseRecorder)
	go func() {
		slow <- s.do(t, http.MethodPut, base+"/selection?wait=true", `{"date": "2025-01-15", "salesman": "A"}`)
	}()
	if got := <-s.tracking.started; got != "A" {
		t.Fatalf("first fetch = %q, want A", got)
	}

	rec := s.do(t, http.MethodPut, base+"/selection?wait=true", `{"date": "2025-01-15", "salesman": "B"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("select B status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if res := decode[dto.SessionResponse](t, rec); res.Journey == nil || res.Journey.SalesmanCode != "B" {
		t.Fatalf("select B journey = %+v, want B", res.Journey)
	}

	close(s.tracking.gates["A"])
	if rec := <-slow; rec.Code != http.StatusConflict {
		t.Fatalf("select A status = %d, want 409: %s", rec.Code, rec.Body.String())
	}

	got := decode[dto.SessionResponse](t, s.do(t, http.MethodGet, base+"/route", ""))
	if got.Journey == nil || got.Journey.SalesmanCode != "B" {
		t.Fatalf("route journey = %+v, want B", got.Journey)
	}
	if got.Route.Status != string(domain.RouteSuccess) || got.Route.Attempted != 1 {
		t.Fatalf("route = %q attempted %d, want success attempted 1", got.Route.Status, got.Route.Attempted)
	}
}

func TestRouteSessionRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)

	if rec := s.do(t, http.MethodPut, "/tracking/sessions/nope/selection", `{"salesman": "S1"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session status = %d, want 404", rec.Code)
	}

	created := decode[dto.SessionResponse](t, s.do(t, http.MethodPost, "/tracking/sessions", ""))
	rec := s.do(t, http.MethodPut, "/tracking/sessions/"+created.ID+"/selection", `{"salesman": "S1", "extra": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d, want 400", rec.Code)
	}

	if rec := s.do(t, http.MethodGet, "/tracking/sessions", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET sessions status = %d, want 405", rec.Code)
	}
}

func TestRoutingResetReportsGuidance(t *testing.T) {
	s := newTestServer(t, &ports.RoutingError{Status: "REQUEST_DENIED", Message: "The provided API key is invalid."})

	rec := s.do(t, http.MethodPost, "/routing/reset", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	res := decode[dto.ProviderStatusResponse](t, rec)
	if res.Ready || res.Attempts != 1 || res.Guidance != ports.Guidance("REQUEST_DENIED") {
		t.Fatalf("response = %+v", res)
	}

	if rec := s.do(t, http.MethodGet, "/routing/reset", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET reset status = %d, want 405", rec.Code)
	}
}

func TestPurchaseOrdersValidation(t *testing.T) {
	s := newTestServer(t, nil)

	if rec := s.do(t, http.MethodGet, "/purchase-orders", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing dates status = %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/purchase-orders?startDate=2025-01-01&endDate=2025-01-31&limit=x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/purchase-orders?startDate=2025-01-01&endDate=2025-01-31&sort=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad sort status = %d, want 400", rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/purchase-orders?startDate=2025-01-01&endDate=2025-01-31&sort=poNumber&dir=desc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	res := decode[dto.PurchaseOrderResponse](t, rec)
	if res.StartDate != "2025-01-01" || len(res.Lines) != 1 || s.reports.lastColumn != "poNumber" {
		t.Fatalf("response = %+v column %q", res, s.reports.lastColumn)
	}
}

func TestExportJourneyWorkbook(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/export/journey.xlsx?date=2025-01-15&salesman=S1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "journey-S1-2025-01-15.xlsx") {
		t.Fatalf("content disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Journey")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want header + 4 stops", len(rows))
	}
}
