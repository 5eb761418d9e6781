package routing

import (
	"context"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/ports"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MockRoutingProvider returns straight-line paths through the requested
// points. Requests whose origin is listed in Failures fail with that code.
type MockRoutingProvider struct {
	Limit    int
	Failures map[domain.Coordinates]string
	PingErr  error
	// Gate, when set, blocks every Route call until it is closed or ctx ends.
	Gate chan struct{}

	mu       sync.Mutex
	requests []ports.RouteRequest
	pings    int
}

func NewMockRoutingProvider(limit int) *MockRoutingProvider {
	return &MockRoutingProvider{Limit: limit, Failures: map[domain.Coordinates]string{}}
}

func (m *MockRoutingProvider) Name() string { return "mock" }

func (m *MockRoutingProvider) MaxWaypoints() int { return m.Limit }

func (m *MockRoutingProvider) Route(ctx context.Context, req ports.RouteRequest) (domain.RoutePath, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return domain.RoutePath{}, ctx.Err()
		}
	}

	if code, ok := m.Failures[req.Origin]; ok {
		return domain.RoutePath{}, &ports.RoutingError{Status: code}
	}

	points := req.Points()
	line := make(orb.LineString, 0, len(points))
	for _, p := range points {
		line = append(line, orb.Point{p.Lon, p.Lat})
	}

	meters := int(geo.Length(line))
	return domain.RoutePath{
		Line:           line,
		DistanceMeters: meters,
		// 30 km/h
		DurationSeconds: meters * 120 / 1000,
	}, nil
}

func (m *MockRoutingProvider) Ping(ctx context.Context) error {
	m.mu.Lock()
	m.pings++
	m.mu.Unlock()
	return m.PingErr
}

// Requests returns a copy of every request received so far.
func (m *MockRoutingProvider) Requests() []ports.RouteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.RouteRequest(nil), m.requests...)
}

func (m *MockRoutingProvider) Pings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pings
}
