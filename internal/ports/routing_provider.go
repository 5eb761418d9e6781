package ports

import (
	"context"
	"errors"
	"fieldops-service/internal/domain"
	"fmt"
	"net"
)

// TravelMode selects the provider's routing profile.
type TravelMode string

const (
	TravelDriving TravelMode = "driving"
	TravelWalking TravelMode = "walking"
)

// RouteRequest is one routing call: an origin, a destination and interior
// waypoints in the exact order they must be visited.
type RouteRequest struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
	Waypoints   []domain.Coordinates
	Mode        TravelMode
}

// Points returns every coordinate of the request in route order.
func (r RouteRequest) Points() []domain.Coordinates {
	out := make([]domain.Coordinates, 0, len(r.Waypoints)+2)
	out = append(out, r.Origin)
	out = append(out, r.Waypoints...)
	out = append(out, r.Destination)
	return out
}

// Contract for resolving a road path through ordered points.
type RoutingProvider interface {
	// Name identifies the provider in cache keys and logs.
	Name() string
	// MaxWaypoints is the provider's ceiling on interior points per request.
	MaxWaypoints() int
	// Route resolves the path. Waypoint order must be preserved.
	Route(ctx context.Context, req RouteRequest) (domain.RoutePath, error)
	// Ping verifies credentials and connectivity.
	Ping(ctx context.Context) error
}

// RoutingError is a provider-specific rejection of a routing request.
type RoutingError struct {
	Status  string
	Message string
}

func (e *RoutingError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("routing provider status %s", e.Status)
	}
	return fmt.Sprintf("routing provider status %s: %s", e.Status, e.Message)
}

// FailureCode maps a routing error to the code surfaced in failed-<code> statuses.
func FailureCode(err error) string {
	if err == nil {
		return ""
	}

	var re *RoutingError
	if errors.As(err, &re) && re.Status != "" {
		return re.Status
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	if errors.Is(err, context.Canceled) {
		return "CANCELED"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "TIMEOUT"
		}
		return "NETWORK_ERROR"
	}

	return "UNKNOWN_ERROR"
}

// Guidance turns a provider failure code into advice for the person reading the map.
func Guidance(code string) string {
	switch code {
	case "MISSING_API_KEY":
		return "No routing API key is configured. Set GOOGLE_MAPS_API_KEY or ORS_API_KEY, then reset the routing provider."
	case "REQUEST_DENIED", "HTTP_401", "HTTP_403":
		return "The routing provider rejected the credentials. Check the API key, enabled APIs and billing."
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "HTTP_429":
		return "The routing provider quota is exhausted. Try again later or raise the quota."
	case "MAX_WAYPOINTS_EXCEEDED", "HTTP_413":
		return "Too many stops were sent in one request. Lower MAX_WAYPOINTS_PER_REQUEST."
	case "ZERO_RESULTS", "NOT_FOUND", "HTTP_404":
		return "No road route connects these stops. Some visit coordinates may be wrong."
	case "INVALID_REQUEST", "HTTP_400":
		return "The routing request was malformed. Check the visit coordinates."
	case "TIMEOUT", "NETWORK_ERROR":
		return "The routing provider could not be reached. Check network connectivity."
	case "":
		return ""
	default:
		return "The routing provider returned an unexpected error."
	}
}
