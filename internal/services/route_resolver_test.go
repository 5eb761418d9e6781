package services

import (
	"context"
	"errors"
	"fieldops-service/internal/adapters/routing"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/ports"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func readyInitializer() *ProviderInitializer {
	return NewProviderInitializer(func(ctx context.Context) error { return nil }, 3)
}

func TestResolveDegenerateInputsIssueNoRequests(t *testing.T) {
	provider := routing.NewMockRoutingProvider(23)
	r := NewRouteResolver(provider, readyInitializer(), 0, "", 0)

	if got := r.Resolve(context.Background(), nil).Status; got != domain.RouteNoData {
		t.Fatalf("status = %q, want %q", got, domain.RouteNoData)
	}
	if got := r.Resolve(context.Background(), makeStops(1)).Status; got != domain.RouteSingleStop {
		t.Fatalf("status = %q, want %q", got, domain.RouteSingleStop)
	}
	if n := len(provider.Requests()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
}

func TestResolveSingleSegment(t *testing.T) {
	provider := routing.NewMockRoutingProvider(23)
	r := NewRouteResolver(provider, readyInitializer(), 0, "", 0)

	stops := makeStops(10)
	res := r.Resolve(context.Background(), stops)

	if res.Status != domain.RouteSuccess {
		t.Fatalf("status = %q, want %q", res.Status, domain.RouteSuccess)
	}
	if len(res.Paths) != 1 {
		t.Fatalf("paths = %d, want 1", len(res.Paths))
	}

	reqs := provider.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	// Waypoints go out in journey order.
	for i, w := range reqs[0].Waypoints {
		if w != stops[i+1].Coordinates {
			t.Fatalf("waypoint %d = %v, want %v", i, w, stops[i+1].Coordinates)
		}
	}
}

func TestResolveSingleSegmentFailure(t *testing.T) {
	stops := makeStops(5)
	provider := routing.NewMockRoutingProvider(23)
	provider.Failures[stops[0].Coordinates] = "REQUEST_DENIED"
	r := NewRouteResolver(provider, readyInitializer(), 0, "", 0)

	res := r.Resolve(context.Background(), stops)

	if res.Status != domain.FailedStatus("REQUEST_DENIED") {
		t.Fatalf("status = %q, want failed-REQUEST_DENIED", res.Status)
	}
	if res.Status.FailureCode() != "REQUEST_DENIED" {
		t.Fatalf("failure code = %q, want REQUEST_DENIED", res.Status.FailureCode())
	}
	if len(res.Paths) != 0 {
		t.Fatalf("paths = %d, want 0", len(res.Paths))
	}
	if !strings.Contains(res.Diagnostic, "API key") {
		t.Fatalf("diagnostic = %q, want credential guidance", res.Diagnostic)
	}
}

func TestResolvePartialFailureKeepsSiblingPaths(t *testing.T) {
	stops := makeStops(50)
	provider := routing.NewMockRoutingProvider(23)
	// Segment 2 starts at stop 24.
	provider.Failures[stops[24].Coordinates] = "ZERO_RESULTS"
	r := NewRouteResolver(provider, readyInitializer(), 0, "", 0)

	res := r.Resolve(context.Background(), stops)

	if res.Status != domain.RouteSuccessMultiple {
		t.Fatalf("status = %q, want %q", res.Status, domain.RouteSuccessMultiple)
	}
	if res.Attempted != 3 || res.Succeeded != 2 {
		t.Fatalf("succeeded/attempted = %d/%d, want 2/3", res.Succeeded, res.Attempted)
	}
	if got := res.Progress(); got != "2/3 segments loaded" {
		t.Fatalf("progress = %q, want %q", got, "2/3 segments loaded")
	}
	if len(res.Paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(res.Paths))
	}
	if res.Segments[1].Succeeded() || res.Segments[1].FailureCode != "ZERO_RESULTS" {
		t.Fatalf("segment 2 = %+v, want ZERO_RESULTS failure", res.Segments[1])
	}
	if !strings.HasPrefix(res.Diagnostic, "1 failed of 3 segments") {
		t.Fatalf("diagnostic = %q", res.Diagnostic)
	}

	// The surviving paths are segments 1 and 3, in order.
	if res.Paths[0].Line[0][0] != stops[0].Coordinates.Lon {
		t.Fatalf("first path starts at %v, want stop 0", res.Paths[0].Line[0])
	}
	if res.Paths[1].Line[0][0] != stops[48].Coordinates.Lon {
		t.Fatalf("second path starts at %v, want stop 48", res.Paths[1].Line[0])
	}
}

func TestResolveAllSegmentsFailStillMultiple(t *testing.T) {
	stops := makeStops(30)
	provider := routing.NewMockRoutingProvider(23)
	provider.Failures[stops[0].Coordinates] = "OVER_QUERY_LIMIT"
	provider.Failures[stops[24].Coordinates] = "OVER_QUERY_LIMIT"
	r := NewRouteResolver(provider, readyInitializer(), 0, "", 0)

	res := r.Resolve(context.Background(), stops)

	if res.Status != domain.RouteSuccessMultiple {
		t.Fatalf("status = %q, want %q", res.Status, domain.RouteSuccessMultiple)
	}
	if res.Succeeded != 0 || len(res.Paths) != 0 {
		t.Fatalf("succeeded = %d, paths = %d, want 0", res.Succeeded, len(res.Paths))
	}
}

func TestResolveProviderUnavailableIsAPIError(t *testing.T) {
	provider := routing.NewMockRoutingProvider(23)
	initializer := NewProviderInitializer(func(ctx context.Context) error {
		return errors.New("missing credentials")
	}, 3)
	r := NewRouteResolver(provider, initializer, 0, "", 0)

	res := r.Resolve(context.Background(), makeStops(40))

	if res.Status != domain.RouteAPIError {
		t.Fatalf("status = %q, want %q", res.Status, domain.RouteAPIError)
	}
	if n := len(provider.Requests()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
	if !strings.Contains(res.Diagnostic, "missing credentials") {
		t.Fatalf("diagnostic = %q", res.Diagnostic)
	}
}

func TestResolveMissingAPIKeyIsAPIErrorUntilReset(t *testing.T) {
	provider := routing.NewMockRoutingProvider(23)
	var key atomic.Value
	key.Store("")
	initializer := NewProviderInitializer(CredentialedInit(func() string { return key.Load().(string) }, provider.Ping), 3)
	r := NewRouteResolver(provider, initializer, 0, "", 0)

	res := r.Resolve(context.Background(), makeStops(4))

	if res.Status != domain.RouteAPIError {
		t.Fatalf("status = %q, want %q", res.Status, domain.RouteAPIError)
	}
	if n := len(provider.Requests()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
	if n := provider.Pings(); n != 0 {
		t.Fatalf("pings = %d, want 0", n)
	}
	if code := ports.FailureCode(initializer.LastError()); code != "MISSING_API_KEY" {
		t.Fatalf("failure code = %q, want MISSING_API_KEY", code)
	}
	if !strings.Contains(res.Diagnostic, "GOOGLE_MAPS_API_KEY") {
		t.Fatalf("diagnostic = %q, want key guidance", res.Diagnostic)
	}

	key.Store("configured")
	initializer.Reset()

	if res := r.Resolve(context.Background(), makeStops(4)); res.Status != domain.RouteSuccess {
		t.Fatalf("after reset status = %q, want %q", res.Status, domain.RouteSuccess)
	}
	if n := provider.Pings(); n != 1 {
		t.Fatalf("pings = %d, want 1", n)
	}
}

func TestResolveIssuesSegmentsConcurrently(t *testing.T) {
	provider := routing.NewMockRoutingProvider(23)
	provider.Gate = make(chan struct{})
	r := NewRouteResolver(provider, readyInitializer(), 0, "", 0)

	done := make(chan domain.RouteResult, 1)
	go func() { done <- r.Resolve(context.Background(), makeStops(50)) }()

	// Every segment request must be outstanding before any completes.
	deadline := time.After(2 * time.Second)
	for len(provider.Requests()) < 3 {
		select {
		case <-deadline:
			t.Fatalf("outstanding requests = %d, want 3", len(provider.Requests()))
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(provider.Gate)

	res := <-done
	if res.Succeeded != 3 {
		t.Fatalf("succeeded = %d, want 3", res.Succeeded)
	}
}

func TestResolveHonoursConfiguredCeiling(t *testing.T) {
	provider := routing.NewMockRoutingProvider(23)
	r := NewRouteResolver(provider, readyInitializer(), 8, "", 2)

	if got := r.MaxWaypoints(); got != 8 {
		t.Fatalf("max waypoints = %d, want 8", got)
	}

	res := r.Resolve(context.Background(), makeStops(30))
	if res.Attempted != segmentCount(30, 10) {
		t.Fatalf("attempted = %d, want %d", res.Attempted, segmentCount(30, 10))
	}
	for _, req := range provider.Requests() {
		if len(req.Waypoints) > 8 {
			t.Fatalf("request carried %d waypoints, ceiling 8", len(req.Waypoints))
		}
	}

	capped := NewRouteResolver(provider, readyInitializer(), 100, "", 0)
	if got := capped.MaxWaypoints(); got != 23 {
		t.Fatalf("max waypoints = %d, want provider limit 23", got)
	}
}

func TestResolveInitializesProviderOnce(t *testing.T) {
	var calls atomic.Int32
	initializer := NewProviderInitializer(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, 3)
	r := NewRouteResolver(routing.NewMockRoutingProvider(23), initializer, 0, "", 0)

	for i := 0; i < 5; i++ {
		r.Resolve(context.Background(), makeStops(4))
	}

	if n := calls.Load(); n != 1 {
		t.Fatalf("init calls = %d, want 1", n)
	}
}
