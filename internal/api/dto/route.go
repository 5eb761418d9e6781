package dto

import "github.com/paulmach/orb/geojson"

type SegmentResponse struct {
	Index           int    `json:"index"`
	StartIndex      int    `json:"start_index"`
	EndIndex        int    `json:"end_index"`
	Points          int    `json:"points"`
	Succeeded       bool   `json:"succeeded"`
	FailureCode     string `json:"failure_code,omitempty"`
	Message         string `json:"message,omitempty"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
}

type RouteResponse struct {
	Status               string            `json:"status"`
	Progress             string            `json:"progress,omitempty"`
	Attempted            int               `json:"attempted"`
	Succeeded            int               `json:"succeeded"`
	Failed               int               `json:"failed"`
	TotalDistanceMeters  int               `json:"total_distance_meters"`
	TotalDurationSeconds int               `json:"total_duration_seconds"`
	Diagnostic           string            `json:"diagnostic,omitempty"`
	Guidance             string            `json:"guidance,omitempty"`
	Segments             []SegmentResponse `json:"segments"`
}

// MapCenter is [longitude, latitude].
type JourneyRouteResponse struct {
	Journey   JourneyResponse            `json:"journey"`
	Route     RouteResponse              `json:"route"`
	MapCenter [2]float64                 `json:"map_center"`
	GeoJSON   *geojson.FeatureCollection `json:"geojson"`
}

type CreateSessionRequest struct {
	MapReady bool `json:"map_ready"`
}

type SelectionRequest struct {
	Date     string `json:"date"`
	Salesman string `json:"salesman"`
}

type MapReadyRequest struct {
	Ready bool `json:"ready"`
}

type SessionResponse struct {
	ID         string                     `json:"id"`
	Generation uint64                     `json:"generation"`
	MapReady   bool                       `json:"map_ready"`
	Journey    *JourneyResponse           `json:"journey"`
	Route      RouteResponse              `json:"route"`
	GeoJSON    *geojson.FeatureCollection `json:"geojson,omitempty"`
}

type ProviderStatusResponse struct {
	Ready    bool   `json:"ready"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
	Guidance string `json:"guidance,omitempty"`
}
