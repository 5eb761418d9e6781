package dto

import "time"

type StopResponse struct {
	Sequence        int        `json:"sequence"`
	CustomerCode    string     `json:"customer_code"`
	CustomerName    string     `json:"customer_name"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	ArrivalTime     time.Time  `json:"arrival_time"`
	DepartureTime   *time.Time `json:"departure_time"`
	DurationMinutes int        `json:"duration_minutes"`
	TravelMinutes   int        `json:"travel_minutes"`
	Productive      bool       `json:"productive"`
	VisitType       string     `json:"visit_type"`
	OrderValue      float64    `json:"order_value"`
	Marker          string     `json:"marker"`
}

type JourneyResponse struct {
	Date                 string         `json:"date,omitempty"`
	SalesmanCode         string         `json:"salesman_code"`
	SalesmanName         string         `json:"salesman_name"`
	RouteCode            string         `json:"route_code"`
	RouteName            string         `json:"route_name"`
	StartTime            *time.Time     `json:"start_time"`
	EndTime              *time.Time     `json:"end_time"`
	TotalDurationMinutes int            `json:"total_duration_minutes"`
	Stops                []StopResponse `json:"stops"`
}

type JourneySummaryResponse struct {
	SalesmanCode        string     `json:"salesman_code"`
	SalesmanName        string     `json:"salesman_name"`
	RouteCode           string     `json:"route_code"`
	RouteName           string     `json:"route_name"`
	TotalCustomers      int        `json:"total_customers"`
	TotalVisits         int        `json:"total_visits"`
	ProductiveVisits    int        `json:"productive_visits"`
	TotalSales          float64    `json:"total_sales"`
	AvgDurationMinutes  float64    `json:"avg_duration_minutes"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	Status              string     `json:"status"`
	RouteSummary        string     `json:"route_summary"`
	LastLatitude        float64    `json:"last_latitude"`
	LastLongitude       float64    `json:"last_longitude"`
	LastSeen            time.Time  `json:"last_seen"`
	CurrentCustomerCode string     `json:"current_customer_code,omitempty"`
	CurrentCustomerName string     `json:"current_customer_name,omitempty"`
}

type TrackingResponse struct {
	From      string                   `json:"from"`
	To        string                   `json:"to"`
	Summaries []JourneySummaryResponse `json:"summaries"`
	Journeys  []JourneyResponse        `json:"journeys"`
}
