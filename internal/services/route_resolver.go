package services

import (
	"context"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// RouteResolver turns a journey's stops into a drawable road route.
//
// Journeys longer than one provider request are partitioned into overlapping
// segments (see PartitionStops) that are requested concurrently. A failing
// segment never affects its siblings and is not retried; it is reported in
// the result and left out of the drawable paths.
type RouteResolver struct {
	provider     ports.RoutingProvider
	initializer  *ProviderInitializer
	maxWaypoints int
	mode         ports.TravelMode
	// Zero means every segment is requested at once.
	maxParallel int
}

func NewRouteResolver(
	provider ports.RoutingProvider,
	initializer *ProviderInitializer,
	maxWaypoints int,
	mode ports.TravelMode,
	maxParallel int,
) *RouteResolver {
	if mode == "" {
		mode = ports.TravelDriving
	}
	return &RouteResolver{
		provider:     provider,
		initializer:  initializer,
		maxWaypoints: maxWaypoints,
		mode:         mode,
		maxParallel:  maxParallel,
	}
}

// MaxWaypoints is the effective interior-point ceiling: the configured value
// capped by the provider's own limit.
func (r *RouteResolver) MaxWaypoints() int {
	limit := r.provider.MaxWaypoints()
	if r.maxWaypoints > 0 && (limit <= 0 || r.maxWaypoints < limit) {
		return r.maxWaypoints
	}
	return limit
}

// Resolve computes the route for stops. It never returns an error: every
// failure is folded into the result status.
func (r *RouteResolver) Resolve(ctx context.Context, stops []domain.Stop) domain.RouteResult {
	switch len(stops) {
	case 0:
		return domain.RouteResult{Status: domain.RouteNoData}
	case 1:
		return domain.RouteResult{Status: domain.RouteSingleStop}
	}

	if r.initializer != nil {
		if err := r.initializer.EnsureReady(ctx); err != nil {
			obs.Warn("req_id", obs.RequestID(ctx), "msg", "routing provider unavailable", "err", err)
			diagnostic := fmt.Sprintf("routing provider unavailable: %v", err)
			if code := ports.FailureCode(err); code == "MISSING_API_KEY" {
				diagnostic += ". " + ports.Guidance(code)
			}
			return domain.RouteResult{Status: domain.RouteAPIError, Diagnostic: diagnostic}
		}
	}

	segments, err := PartitionStops(stops, r.MaxWaypoints())
	if err != nil {
		return domain.RouteResult{
			Status:     domain.RouteAPIError,
			Diagnostic: fmt.Sprintf("routing provider misconfigured: %v", err),
		}
	}

	start := time.Now()
	outcomes := r.resolveSegments(ctx, segments)

	result := domain.RouteResult{
		Segments:  outcomes,
		Attempted: len(outcomes),
		Paths:     make([]domain.RoutePath, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		if o.Succeeded() {
			result.Paths = append(result.Paths, *o.Path)
			result.Succeeded++
		}
	}

	if len(segments) == 1 {
		if result.Succeeded == 1 {
			result.Status = domain.RouteSuccess
		} else {
			code := outcomes[0].FailureCode
			result.Status = domain.FailedStatus(code)
			result.Diagnostic = ports.Guidance(code)
		}
	} else {
		result.Status = domain.RouteSuccessMultiple
		if result.Failed() > 0 {
			result.Diagnostic = multiFailureDiagnostic(outcomes)
		}
	}

	obs.Info(
		"req_id", obs.RequestID(ctx),
		"msg", "route resolved",
		"provider", r.provider.Name(),
		"stops", len(stops),
		"status", result.Status,
		"segments", result.Progress(),
		"dur_ms", time.Since(start).Milliseconds(),
	)

	return result
}

// resolveSegments issues one request per segment concurrently and waits for
// all of them. Outcomes keep segment order.
func (r *RouteResolver) resolveSegments(ctx context.Context, segments []domain.Segment) []domain.SegmentOutcome {
	outcomes := make([]domain.SegmentOutcome, len(segments))

	if len(segments) == 1 {
		outcomes[0] = r.resolveSegment(ctx, 0, segments[0])
		return outcomes
	}

	var g errgroup.Group
	if r.maxParallel > 0 {
		g.SetLimit(r.maxParallel)
	}

	for i, seg := range segments {
		g.Go(func() error {
			outcomes[i] = r.resolveSegment(ctx, i, seg)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (r *RouteResolver) resolveSegment(ctx context.Context, index int, seg domain.Segment) domain.SegmentOutcome {
	waypoints := make([]domain.Coordinates, 0, len(seg.Waypoints))
	for _, w := range seg.Waypoints {
		waypoints = append(waypoints, w.Coordinates)
	}

	req := ports.RouteRequest{
		Origin:      seg.Origin.Coordinates,
		Destination: seg.Destination.Coordinates,
		Waypoints:   waypoints,
		Mode:        r.mode,
	}

	out := domain.SegmentOutcome{Index: index, Segment: seg}

	path, err := r.provider.Route(ctx, req)
	if err != nil {
		out.FailureCode = ports.FailureCode(err)
		out.Message = err.Error()
		obs.Warn(
			"req_id", obs.RequestID(ctx),
			"msg", "route segment failed",
			"segment", index+1,
			"points", seg.PointCount(),
			"code", out.FailureCode,
			"err", err,
		)
		return out
	}

	out.Path = &path
	return out
}

func multiFailureDiagnostic(outcomes []domain.SegmentOutcome) string {
	failed := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Succeeded() {
			failed = append(failed, fmt.Sprintf("segment %d: %s", o.Index+1, o.FailureCode))
		}
	}
	return fmt.Sprintf("%d failed of %d segments (%s)", len(failed), len(outcomes), strings.Join(failed, ", "))
}
