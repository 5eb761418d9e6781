package services

import (
	"fieldops-service/internal/domain"
	"fmt"
)

// PartitionStops splits a chronological journey into routable segments.
//
// Each segment carries at most maxWaypoints interior stops plus an origin and
// a destination. Consecutive segments overlap by exactly one stop: the last
// stop of segment N is the first stop of segment N+1, so independently
// resolved paths meet at the same coordinate when drawn back to back.
// Stop order is never changed.
//
// Fewer than two stops produce no segments.
func PartitionStops(stops []domain.Stop, maxWaypoints int) ([]domain.Segment, error) {
	if maxWaypoints < 1 {
		return nil, fmt.Errorf("partition stops: maxWaypoints must be at least 1, got %d", maxWaypoints)
	}

	n := len(stops)
	if n < 2 {
		return nil, nil
	}

	pointsPerSegment := maxWaypoints + 2

	segments := make([]domain.Segment, 0, segmentCount(n, pointsPerSegment))
	start := 0
	for start < n-1 {
		remaining := n - start
		if remaining <= pointsPerSegment {
			segments = append(segments, newSegment(stops, start, n-1))
			break
		}

		end := start + pointsPerSegment - 1
		segments = append(segments, newSegment(stops, start, end))
		// The destination just taken becomes the next origin.
		start = end
	}

	return segments, nil
}

// segmentCount is the number of segments PartitionStops produces for n stops.
func segmentCount(n, pointsPerSegment int) int {
	if n < 2 {
		return 0
	}
	if n <= pointsPerSegment {
		return 1
	}
	// Every segment advances pointsPerSegment-1 stops.
	step := pointsPerSegment - 1
	return (n - 1 + step - 1) / step
}

func newSegment(stops []domain.Stop, start, end int) domain.Segment {
	waypoints := make([]domain.Stop, 0, end-start-1)
	waypoints = append(waypoints, stops[start+1:end]...)

	return domain.Segment{
		Origin:      stops[start],
		Destination: stops[end],
		Waypoints:   waypoints,
		StartIndex:  start,
		EndIndex:    end,
	}
}
