package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingCoordinates = errors.New("visit has no usable coordinates")
	ErrMissingArrival     = errors.New("visit has no arrival time")
	ErrMissingSalesman    = errors.New("visit has no salesman code")
)

// Visit is one customer visit record as delivered by the journey data source.
// Records are validated once at the repository boundary; a Visit that exists
// always carries coordinates and an arrival time.
type Visit struct {
	VisitID       string
	SalesmanCode  string
	SalesmanName  string
	RouteCode     string
	RouteName     string
	CustomerCode  string
	CustomerName  string
	Coordinates   Coordinates
	ArrivalTime   time.Time
	DepartureTime *time.Time
	// Duration reported by the device; may disagree with departure-arrival.
	DurationMinutes int
	Productive      bool
	VisitType       string
	OrderValue      float64
}

// Validate rejects records the route core cannot use.
func (v Visit) Validate() error {
	if strings.TrimSpace(v.SalesmanCode) == "" {
		return ErrMissingSalesman
	}
	if !v.Coordinates.Valid() {
		return ErrMissingCoordinates
	}
	if v.ArrivalTime.IsZero() {
		return ErrMissingArrival
	}
	return nil
}

// TimeOnSite returns minutes spent at the customer. Open visits fall back to
// the device-reported duration.
func (v Visit) TimeOnSite() int {
	if v.DepartureTime != nil && v.DepartureTime.After(v.ArrivalTime) {
		return int(v.DepartureTime.Sub(v.ArrivalTime).Round(time.Minute) / time.Minute)
	}
	if v.DurationMinutes > 0 {
		return v.DurationMinutes
	}
	return 0
}
