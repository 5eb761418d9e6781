package domain

// Segment is a contiguous slice of a journey's stops sized to fit a single
// routing request. StartIndex and EndIndex are inclusive positions in the
// journey; for every segment but the first, Origin is the previous segment's
// Destination.
type Segment struct {
	Origin      Stop
	Destination Stop
	Waypoints   []Stop
	StartIndex  int
	EndIndex    int
}

// Stops returns origin, waypoints and destination in route order.
func (s Segment) Stops() []Stop {
	out := make([]Stop, 0, len(s.Waypoints)+2)
	out = append(out, s.Origin)
	out = append(out, s.Waypoints...)
	out = append(out, s.Destination)
	return out
}

// PointCount is the number of points the segment sends to the provider.
func (s Segment) PointCount() int { return len(s.Waypoints) + 2 }
