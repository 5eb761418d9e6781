package domain

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// RouteStatus is the state of a route computation.
type RouteStatus string

const (
	RouteIdle            RouteStatus = "idle"
	RouteLoading         RouteStatus = "loading"
	RouteNoData          RouteStatus = "no-data"
	RouteSingleStop      RouteStatus = "single-stop"
	RouteSuccess         RouteStatus = "success"
	RouteSuccessMultiple RouteStatus = "success-multiple"
	RouteAPIError        RouteStatus = "api-error"
)

const failedPrefix = "failed-"

// FailedStatus builds the status of a single-segment route that the provider rejected.
func FailedStatus(code string) RouteStatus {
	return RouteStatus(failedPrefix + code)
}

// Failed reports whether the status is a failed-<code> status.
func (s RouteStatus) Failed() bool { return strings.HasPrefix(string(s), failedPrefix) }

// FailureCode returns the provider code of a failed-<code> status.
func (s RouteStatus) FailureCode() string {
	if !s.Failed() {
		return ""
	}
	return strings.TrimPrefix(string(s), failedPrefix)
}

// Terminal reports whether no further results are expected for the computation.
func (s RouteStatus) Terminal() bool {
	return s != RouteIdle && s != RouteLoading
}

// RoutePath is one resolved provider path.
type RoutePath struct {
	Line            orb.LineString
	DistanceMeters  int
	DurationSeconds int
}

// SegmentOutcome records how one segment resolved.
type SegmentOutcome struct {
	Index   int
	Segment Segment
	Path    *RoutePath
	// Provider failure code; empty on success.
	FailureCode string
	Message     string
}

// Succeeded reports whether the segment produced a path.
func (o SegmentOutcome) Succeeded() bool { return o.Path != nil }

// RouteResult is the aggregate of a route computation. Paths holds only the
// successfully resolved segment paths, in journey order, ready to be drawn
// back to back.
type RouteResult struct {
	Status    RouteStatus
	Paths     []RoutePath
	Segments  []SegmentOutcome
	Attempted int
	Succeeded int
	// Diagnostic is set for api-error and failed-<code> results.
	Diagnostic string
}

// Failed returns the number of segments that did not resolve.
func (r RouteResult) Failed() int { return r.Attempted - r.Succeeded }

// Progress renders "N/M segments loaded" for multi-segment results.
func (r RouteResult) Progress() string {
	if r.Attempted == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d segments loaded", r.Succeeded, r.Attempted)
}

// TotalDistanceMeters sums the resolved paths.
func (r RouteResult) TotalDistanceMeters() int {
	total := 0
	for _, p := range r.Paths {
		total += p.DistanceMeters
	}
	return total
}

// TotalDurationSeconds sums the resolved paths.
func (r RouteResult) TotalDurationSeconds() int {
	total := 0
	for _, p := range r.Paths {
		total += p.DurationSeconds
	}
	return total
}
