package handlers

import (
	"fieldops-service/internal/api/dto"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/ports"
	"fieldops-service/internal/services"
	"time"
)

const dateLayout = "2006-01-02"

func toStopResponse(s domain.Stop) dto.StopResponse {
	return dto.StopResponse{
		Sequence:        s.Sequence,
		CustomerCode:    s.CustomerCode,
		CustomerName:    s.CustomerName,
		Latitude:        s.Coordinates.Lat,
		Longitude:       s.Coordinates.Lon,
		ArrivalTime:     s.ArrivalTime,
		DepartureTime:   s.DepartureTime,
		DurationMinutes: s.DurationMinutes,
		TravelMinutes:   s.TravelMinutes,
		Productive:      s.Productive,
		VisitType:       s.VisitType,
		OrderValue:      s.OrderValue,
		Marker:          string(s.Marker()),
	}
}

func toJourneyResponse(j domain.Journey) dto.JourneyResponse {
	stops := make([]dto.StopResponse, 0, len(j.Stops))
	for _, s := range j.Stops {
		stops = append(stops, toStopResponse(s))
	}
	var date string
	if !j.Date.IsZero() {
		date = j.Date.Format(dateLayout)
	}
	return dto.JourneyResponse{
		Date:                 date,
		SalesmanCode:         j.SalesmanCode,
		SalesmanName:         j.SalesmanName,
		RouteCode:            j.RouteCode,
		RouteName:            j.RouteName,
		StartTime:            j.StartTime,
		EndTime:              j.EndTime,
		TotalDurationMinutes: j.TotalDurationMinutes,
		Stops:                stops,
	}
}

func toTrackingResponse(o services.TrackingOverview) dto.TrackingResponse {
	res := dto.TrackingResponse{
		From:      o.From.Format(dateLayout),
		To:        o.To.Format(dateLayout),
		Summaries: make([]dto.JourneySummaryResponse, 0, len(o.Summaries)),
		Journeys:  make([]dto.JourneyResponse, 0, len(o.Journeys)),
	}
	for _, s := range o.Summaries {
		res.Summaries = append(res.Summaries, dto.JourneySummaryResponse{
			SalesmanCode:        s.SalesmanCode,
			SalesmanName:        s.SalesmanName,
			RouteCode:           s.RouteCode,
			RouteName:           s.RouteName,
			TotalCustomers:      s.TotalCustomers,
			TotalVisits:         s.TotalVisits,
			ProductiveVisits:    s.ProductiveVisits,
			TotalSales:          s.TotalSales,
			AvgDurationMinutes:  s.AvgDurationMinutes,
			StartTime:           s.StartTime,
			EndTime:             s.EndTime,
			Status:              string(s.Status),
			RouteSummary:        s.RouteSummary,
			LastLatitude:        s.LastLocation.Lat,
			LastLongitude:       s.LastLocation.Lon,
			LastSeen:            s.LastSeen,
			CurrentCustomerCode: s.CurrentCustomerCode,
			CurrentCustomerName: s.CurrentCustomerName,
		})
	}
	for _, j := range o.Journeys {
		res.Journeys = append(res.Journeys, toJourneyResponse(j))
	}
	return res
}

func toRouteResponse(r domain.RouteResult) dto.RouteResponse {
	res := dto.RouteResponse{
		Status:               string(r.Status),
		Attempted:            r.Attempted,
		Succeeded:            r.Succeeded,
		Failed:               r.Failed(),
		TotalDistanceMeters:  r.TotalDistanceMeters(),
		TotalDurationSeconds: r.TotalDurationSeconds(),
		Diagnostic:           r.Diagnostic,
		Guidance:             ports.Guidance(r.Status.FailureCode()),
		Segments:             make([]dto.SegmentResponse, 0, len(r.Segments)),
	}
	if r.Status == domain.RouteSuccessMultiple {
		res.Progress = r.Progress()
	}
	for _, o := range r.Segments {
		seg := dto.SegmentResponse{
			Index:       o.Index,
			StartIndex:  o.Segment.StartIndex,
			EndIndex:    o.Segment.EndIndex,
			Points:      o.Segment.PointCount(),
			Succeeded:   o.Succeeded(),
			FailureCode: o.FailureCode,
			Message:     o.Message,
		}
		if o.Path != nil {
			seg.DistanceMeters = o.Path.DistanceMeters
			seg.DurationSeconds = o.Path.DurationSeconds
		}
		res.Segments = append(res.Segments, seg)
	}
	return res
}

// mapCenter is the latest stop of the journey, or the default center.
func mapCenter(j domain.Journey) [2]float64 {
	c := domain.DefaultMapCenter
	if n := len(j.Stops); n > 0 {
		c = j.Stops[n-1].Coordinates
	}
	return [2]float64{c.Lon, c.Lat}
}

func toSessionResponse(s services.RouteSnapshot) dto.SessionResponse {
	res := dto.SessionResponse{
		ID:         s.ID,
		Generation: s.Generation,
		MapReady:   s.MapReady,
		Route:      toRouteResponse(s.Result),
	}
	if s.Journey.SalesmanCode != "" {
		j := toJourneyResponse(s.Journey)
		res.Journey = &j
	}
	if len(s.Result.Paths) > 0 {
		res.GeoJSON = services.RouteFeatureCollection(s.Journey, s.Result)
	}
	return res
}

func toUserTimeMotion(u domain.UserTimeMotion) dto.UserTimeMotionResponse {
	return dto.UserTimeMotionResponse{
		UserCode:             u.UserCode,
		UserName:             u.UserName,
		FirstVisit:           u.FirstVisit,
		LastVisit:            u.LastVisit,
		CompletedVisits:      u.CompletedVisits,
		ProductiveVisits:     u.ProductiveVisits,
		NonProductiveVisits:  u.NonProductiveVisits,
		TotalActiveMinutes:   u.TotalActiveMinutes,
		ProductiveMinutes:    u.ProductiveMinutes,
		NonProductiveMinutes: u.NonProductiveMinutes,
		TravelMinutes:        u.TravelMinutes,
		TotalWorkingMinutes:  u.TotalWorkingMinutes,
		AvgVisitDuration:     u.AvgVisitDuration,
		TimeUtilization:      u.TimeUtilization,
		DistanceTraveledKm:   u.DistanceTraveled,
	}
}

func toTimeMotionResponse(r domain.TimeMotionReport) dto.TimeMotionResponse {
	res := dto.TimeMotionResponse{
		Date: r.Date.Format(dateLayout),
		Summary: dto.TimeMotionSummaryResponse{
			TotalActiveMinutes:   r.Summary.TotalActiveMinutes,
			ProductiveMinutes:    r.Summary.ProductiveMinutes,
			NonProductiveMinutes: r.Summary.NonProductiveMinutes,
			TotalVisits:          r.Summary.TotalVisits,
			ProductiveVisits:     r.Summary.ProductiveVisits,
			ProductivityScore:    r.Summary.ProductivityScore,
			TotalUsers:           r.Summary.TotalUsers,
		},
		Users:         make([]dto.UserTimeMotionResponse, 0, len(r.Users)),
		Hourly:        make([]dto.HourlyActivityResponse, 0, len(r.Hourly)),
		TopPerformers: make([]dto.UserTimeMotionResponse, 0, len(r.TopPerformers)),
	}
	for _, u := range r.Users {
		res.Users = append(res.Users, toUserTimeMotion(u))
	}
	for _, u := range r.TopPerformers {
		res.TopPerformers = append(res.TopPerformers, toUserTimeMotion(u))
	}
	for _, h := range r.Hourly {
		res.Hourly = append(res.Hourly, dto.HourlyActivityResponse{
			Hour:                 h.Hour,
			Visits:               h.Visits,
			Productive:           h.Productive,
			NonProductive:        h.NonProductive,
			TotalMinutes:         h.TotalMinutes,
			ProductiveMinutes:    h.ProductiveMinutes,
			NonProductiveMinutes: h.NonProductiveMinutes,
			AvgDuration:          h.AvgDuration,
		})
	}
	return res
}

func toPerformanceResponse(r domain.PerformanceReport, loc *time.Location) dto.PerformanceResponse {
	res := dto.PerformanceResponse{
		Summary: dto.PerformanceSummaryResponse{
			TotalSales:       r.Summary.TotalSales,
			TotalOrders:      r.Summary.TotalOrders,
			UniqueCustomers:  r.Summary.UniqueCustomers,
			ActiveSalesmen:   r.Summary.ActiveSalesmen,
			AvgOrderValue:    r.Summary.AvgOrderValue,
			GrowthPercentage: r.Summary.GrowthPercentage,
			PeriodStart:      r.Summary.PeriodStart.In(loc).Format(dateLayout),
			PeriodEnd:        r.Summary.PeriodEnd.In(loc).Format(dateLayout),
		},
		Trend:       make([]dto.TrendPointResponse, 0, len(r.Trend)),
		TopSalesmen: make([]dto.SalesmanPerformanceResponse, 0, len(r.TopSalesmen)),
		Routes:      make([]dto.RoutePerformanceResponse, 0, len(r.Routes)),
	}
	for _, p := range r.Trend {
		res.Trend = append(res.Trend, dto.TrendPointResponse{
			Date:     p.Date.In(loc).Format(dateLayout),
			Sales:    p.Sales,
			Orders:   p.Orders,
			Salesmen: p.Salesmen,
		})
	}
	for _, s := range r.TopSalesmen {
		res.TopSalesmen = append(res.TopSalesmen, dto.SalesmanPerformanceResponse{
			SalesmanCode: s.SalesmanCode,
			SalesmanName: s.SalesmanName,
			Orders:       s.Orders,
			TotalSales:   s.TotalSales,
			AvgOrder:     s.AvgOrder,
		})
	}
	for _, rt := range r.Routes {
		res.Routes = append(res.Routes, dto.RoutePerformanceResponse{
			RouteCode:       rt.RouteCode,
			RouteName:       rt.RouteName,
			Orders:          rt.Orders,
			TotalSales:      rt.TotalSales,
			UniqueCustomers: rt.UniqueCustomers,
			Salesmen:        rt.Salesmen,
		})
	}
	return res
}

func toPurchaseOrderResponse(r services.PurchaseOrderReport) dto.PurchaseOrderResponse {
	res := dto.PurchaseOrderResponse{
		StartDate: r.Filter.StartDate.Format(dateLayout),
		EndDate:   r.Filter.EndDate.Format(dateLayout),
		Limit:     r.Filter.Limit,
		Summary: dto.PurchaseOrderSummaryResponse{
			Lines:            r.Summary.Lines,
			PurchaseOrders:   r.Summary.PurchaseOrders,
			Stores:           r.Summary.Stores,
			TotalAmount:      r.Summary.TotalAmount,
			OrderedQuantity:  r.Summary.OrderedQuantity,
			ReceivedQuantity: r.Summary.ReceivedQuantity,
			PendingQuantity:  r.Summary.PendingQuantity,
			ByStatus:         r.Summary.ByStatus,
			ByDelivery:       r.Summary.ByDelivery,
		},
		Lines: make([]dto.PurchaseOrderLineResponse, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		res.Lines = append(res.Lines, dto.PurchaseOrderLineResponse{
			PODate:           l.PODate.Format(dateLayout),
			POCreatedAt:      l.POCreatedAt,
			UserCode:         l.UserCode,
			UserName:         l.UserName,
			TeamLeaderCode:   l.TeamLeaderCode,
			TeamLeaderName:   l.TeamLeaderName,
			StoreCode:        l.StoreCode,
			StoreName:        l.StoreName,
			ChainCode:        l.ChainCode,
			ChainName:        l.ChainName,
			TrxCode:          l.TrxCode,
			PONumber:         l.PONumber,
			POStatus:         l.POStatus,
			TotalAmount:      l.TotalAmount,
			ProductCode:      l.ProductCode,
			ProductName:      l.ProductName,
			ProductCategory:  l.ProductCategory,
			Quantity:         l.Quantity,
			ReceivedQuantity: l.ReceivedQuantity,
			PendingQuantity:  l.PendingQuantity,
			UnitPrice:        l.UnitPrice,
			LineAmount:       l.LineAmount,
			DeliveryStatus:   l.DeliveryStatus,
			ImagePath:        l.ImagePath,
		})
	}
	return res
}
