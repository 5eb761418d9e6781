package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ORSMaxWaypoints leaves room for origin and destination within the
// 50-coordinate limit of the public directions endpoint.
const ORSMaxWaypoints = 48

const orsBaseURL = "https://api.openrouteservice.org"

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
}

// ORSDirectionsProvider implements RoutingProvider using the
// OpenRouteService directions endpoint in GeoJSON form. HTTP failures are
// surfaced as HTTP_<status> codes.
//
// The provider is safe for concurrent use.
type ORSDirectionsProvider struct {
	client apiClient
	apiKey *credential
}

func NewORSDirectionsProvider(apiKey, baseURL string) *ORSDirectionsProvider {
	if baseURL == "" {
		baseURL = orsBaseURL
	}

	key := newCredential(apiKey)
	return &ORSDirectionsProvider{
		client: apiClient{
			session: &http.Client{Timeout: 15 * time.Second},
			baseURL: strings.TrimRight(baseURL, "/"),
			authorize: func(req *http.Request) {
				req.Header.Set("Authorization", key.get())
			},
		},
		apiKey: key,
	}
}

// SetAPIKey replaces the key used by subsequent requests.
func (o *ORSDirectionsProvider) SetAPIKey(key string) { o.apiKey.set(key) }

func (o *ORSDirectionsProvider) Name() string { return "ors" }

func (o *ORSDirectionsProvider) MaxWaypoints() int { return ORSMaxWaypoints }

func (o *ORSDirectionsProvider) Route(ctx context.Context, req ports.RouteRequest) (_ domain.RoutePath, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if len(req.Waypoints) > ORSMaxWaypoints {
		return domain.RoutePath{}, &ports.RoutingError{
			Status:  "MAX_WAYPOINTS_EXCEEDED",
			Message: fmt.Sprintf("%d waypoints, limit %d", len(req.Waypoints), ORSMaxWaypoints),
		}
	}

	points := req.Points()
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, p.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coords})
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.client.baseURL, orsProfile(req.Mode))
	httpReq, err := o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("ors directions: %w", err)
	}

	resp, err := o.client.do(httpReq)
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("ors directions: %w", statusAsRoutingError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("ors directions: read response: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("ors directions: decode response: %w", err)
	}

	return decodeORSFeatures(fc)
}

// Ping issues a minimal directions request to verify the key.
func (o *ORSDirectionsProvider) Ping(ctx context.Context) error {
	if _, err := o.Route(ctx, pingRequest()); err != nil {
		return fmt.Errorf("ors ping: %w", err)
	}
	return nil
}

func orsProfile(mode ports.TravelMode) string {
	if mode == ports.TravelWalking {
		return "foot-walking"
	}
	return "driving-car"
}

func decodeORSFeatures(fc *geojson.FeatureCollection) (domain.RoutePath, error) {
	if len(fc.Features) == 0 {
		return domain.RoutePath{}, &ports.RoutingError{Status: "ZERO_RESULTS", Message: "no features in response"}
	}

	f := fc.Features[0]
	line, ok := f.Geometry.(orb.LineString)
	if !ok {
		return domain.RoutePath{}, fmt.Errorf("ors directions: unexpected geometry %T", f.Geometry)
	}

	path := domain.RoutePath{Line: line}

	// ORS reports float metrics; round to whole meters and seconds.
	if summary, ok := f.Properties["summary"].(map[string]any); ok {
		if d, ok := summary["distance"].(float64); ok {
			path.DistanceMeters = int(math.Round(d))
		}
		if s, ok := summary["duration"].(float64); ok {
			path.DurationSeconds = int(math.Round(s))
		}
	}

	return path, nil
}
