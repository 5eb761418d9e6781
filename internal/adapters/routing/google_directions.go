package routing

import (
	"context"
	"encoding/json"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// GoogleMaxWaypoints is the interior-point ceiling used for Google Directions.
const GoogleMaxWaypoints = 23

const googleBaseURL = "https://maps.googleapis.com"

type directionsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Routes       []directionsRoute `json:"routes"`
}

type directionsRoute struct {
	OverviewPolyline struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
	Legs []struct {
		Distance struct {
			Value int `json:"value"`
		} `json:"distance"`
		Duration struct {
			Value int `json:"value"`
		} `json:"duration"`
	} `json:"legs"`
}

// GoogleDirectionsProvider implements RoutingProvider with the Google
// Directions web service. The response status string (OK, ZERO_RESULTS,
// REQUEST_DENIED, ...) is surfaced as the failure code.
//
// The provider is safe for concurrent use.
type GoogleDirectionsProvider struct {
	client apiClient
	apiKey *credential
}

func NewGoogleDirectionsProvider(apiKey, baseURL string) *GoogleDirectionsProvider {
	if baseURL == "" {
		baseURL = googleBaseURL
	}

	return &GoogleDirectionsProvider{
		client: apiClient{
			session: &http.Client{Timeout: 15 * time.Second},
			baseURL: strings.TrimRight(baseURL, "/"),
		},
		apiKey: newCredential(apiKey),
	}
}

// SetAPIKey replaces the key used by subsequent requests.
func (g *GoogleDirectionsProvider) SetAPIKey(key string) { g.apiKey.set(key) }

func (g *GoogleDirectionsProvider) Name() string { return "google" }

func (g *GoogleDirectionsProvider) MaxWaypoints() int { return GoogleMaxWaypoints }

// Route requests one directions call. Waypoints are sent in order and are
// never reordered by the service.
func (g *GoogleDirectionsProvider) Route(ctx context.Context, req ports.RouteRequest) (_ domain.RoutePath, err error) {
	defer obs.Time(ctx, "google.Route")(&err)

	if len(req.Waypoints) > GoogleMaxWaypoints {
		return domain.RoutePath{}, &ports.RoutingError{
			Status:  "MAX_WAYPOINTS_EXCEEDED",
			Message: fmt.Sprintf("%d waypoints, limit %d", len(req.Waypoints), GoogleMaxWaypoints),
		}
	}

	httpReq, err := g.client.newRequest(ctx, http.MethodGet, g.directionsURL(req), nil)
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("google directions: %w", err)
	}

	resp, err := g.client.do(httpReq)
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("google directions: %w", statusAsRoutingError(err))
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.RoutePath{}, fmt.Errorf("google directions: decode response: %w", err)
	}

	if dr.Status != "OK" {
		return domain.RoutePath{}, &ports.RoutingError{Status: dr.Status, Message: dr.ErrorMessage}
	}
	if len(dr.Routes) == 0 {
		return domain.RoutePath{}, &ports.RoutingError{Status: "ZERO_RESULTS", Message: "no routes in response"}
	}

	return decodeDirectionsRoute(dr.Routes[0])
}

// Ping issues a minimal directions request to verify the key.
func (g *GoogleDirectionsProvider) Ping(ctx context.Context) error {
	if _, err := g.Route(ctx, pingRequest()); err != nil {
		return fmt.Errorf("google ping: %w", err)
	}
	return nil
}

func (g *GoogleDirectionsProvider) directionsURL(req ports.RouteRequest) string {
	q := url.Values{}
	q.Set("origin", req.Origin.LatLng())
	q.Set("destination", req.Destination.LatLng())

	if len(req.Waypoints) > 0 {
		points := make([]string, 0, len(req.Waypoints))
		for _, w := range req.Waypoints {
			points = append(points, w.LatLng())
		}
		q.Set("waypoints", strings.Join(points, "|"))
	}

	mode := req.Mode
	if mode == "" {
		mode = ports.TravelDriving
	}
	q.Set("mode", string(mode))
	q.Set("key", g.apiKey.get())

	return g.client.baseURL + "/maps/api/directions/json?" + q.Encode()
}

func decodeDirectionsRoute(r directionsRoute) (domain.RoutePath, error) {
	coords, _, err := polyline.DecodeCoords([]byte(r.OverviewPolyline.Points))
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("google directions: decode polyline: %w", err)
	}

	line := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		// Encoded polylines carry lat,lng pairs.
		line = append(line, orb.Point{c[1], c[0]})
	}

	path := domain.RoutePath{Line: line}
	for _, leg := range r.Legs {
		path.DistanceMeters += leg.Distance.Value
		path.DurationSeconds += leg.Duration.Value
	}

	return path, nil
}
