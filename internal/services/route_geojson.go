package services

import (
	"fieldops-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RouteFeatureCollection renders a journey and its resolved route for the
// map surface: one LineString per resolved segment, drawn back to back, and
// one Point per stop.
func RouteFeatureCollection(journey domain.Journey, result domain.RouteResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, o := range result.Segments {
		if !o.Succeeded() || len(o.Path.Line) < 2 {
			continue
		}
		f := geojson.NewFeature(o.Path.Line)
		f.Properties["kind"] = "route"
		f.Properties["segment"] = o.Index + 1
		f.Properties["distance_meters"] = o.Path.DistanceMeters
		f.Properties["duration_seconds"] = o.Path.DurationSeconds
		fc.Append(f)
	}

	for _, s := range journey.Stops {
		f := geojson.NewFeature(orb.Point{s.Coordinates.Lon, s.Coordinates.Lat})
		f.Properties["kind"] = "stop"
		f.Properties["sequence"] = s.Sequence
		f.Properties["customer_code"] = s.CustomerCode
		f.Properties["customer_name"] = s.CustomerName
		f.Properties["arrival_time"] = s.ArrivalTime
		f.Properties["duration_minutes"] = s.DurationMinutes
		f.Properties["productive"] = s.Productive
		f.Properties["marker"] = string(s.Marker())
		fc.Append(f)
	}

	if len(journey.Stops) > 0 {
		fc.BBox = geojson.NewBBox(journeyBound(journey))
	}

	return fc
}

func journeyBound(journey domain.Journey) orb.Bound {
	first := journey.Stops[0].Coordinates
	b := orb.Point{first.Lon, first.Lat}.Bound()
	for _, s := range journey.Stops[1:] {
		b = b.Extend(orb.Point{s.Coordinates.Lon, s.Coordinates.Lat})
	}
	return b
}
