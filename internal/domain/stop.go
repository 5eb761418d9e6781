package domain

import "time"

// MarkerCategory classifies a stop for map rendering.
type MarkerCategory string

const (
	MarkerNonProductive MarkerCategory = "non-productive"
	MarkerLong          MarkerCategory = "long"
	MarkerMedium        MarkerCategory = "medium"
	MarkerQuick         MarkerCategory = "quick"
)

// Stop is one visited location in a salesman's chronological journey.
// Sequence is 1-based and dense within a journey.
type Stop struct {
	Sequence      int
	CustomerCode  string
	CustomerName  string
	Coordinates   Coordinates
	ArrivalTime   time.Time
	DepartureTime *time.Time
	// Minutes on site.
	DurationMinutes int
	// Minutes since the previous stop's departure; zero for the first stop.
	TravelMinutes int
	Productive    bool
	VisitType     string
	OrderValue    float64
}

// Marker returns the display category of the stop.
func (s Stop) Marker() MarkerCategory {
	switch {
	case !s.Productive:
		return MarkerNonProductive
	case s.DurationMinutes >= 10:
		return MarkerLong
	case s.DurationMinutes >= 5:
		return MarkerMedium
	default:
		return MarkerQuick
	}
}

// Journey is the full chronological sequence of a salesman's visits on a date.
type Journey struct {
	// Calendar day of the visits, midnight in the display zone.
	Date         time.Time
	SalesmanCode string
	SalesmanName string
	RouteCode    string
	RouteName    string
	Stops        []Stop
	StartTime    *time.Time
	EndTime      *time.Time
	// Minutes between first arrival and last departure.
	TotalDurationMinutes int
}

// JourneyStatus buckets a salesman by share of productive visits.
type JourneyStatus string

const (
	JourneyActive   JourneyStatus = "active"
	JourneyIdle     JourneyStatus = "idle"
	JourneyInactive JourneyStatus = "inactive"
)

// JourneySummary is the per-salesman roll-up shown in the tracking list.
type JourneySummary struct {
	SalesmanCode       string
	SalesmanName       string
	RouteCode          string
	RouteName          string
	TotalCustomers     int
	TotalVisits        int
	ProductiveVisits   int
	TotalSales         float64
	AvgDurationMinutes float64
	StartTime          time.Time
	EndTime            *time.Time
	Status             JourneyStatus
	// "Customer (HH:MM), ..." in visit order.
	RouteSummary string
	// Position of the latest visit.
	LastLocation Coordinates
	LastSeen     time.Time
	// Set while the latest visit has no departure.
	CurrentCustomerCode string
	CurrentCustomerName string
}
