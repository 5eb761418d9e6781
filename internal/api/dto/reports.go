package dto

import "time"

type UserTimeMotionResponse struct {
	UserCode             string    `json:"user_code"`
	UserName             string    `json:"user_name"`
	FirstVisit           time.Time `json:"first_visit"`
	LastVisit            time.Time `json:"last_visit"`
	CompletedVisits      int       `json:"completed_visits"`
	ProductiveVisits     int       `json:"productive_visits"`
	NonProductiveVisits  int       `json:"non_productive_visits"`
	TotalActiveMinutes   int       `json:"total_active_minutes"`
	ProductiveMinutes    int       `json:"productive_minutes"`
	NonProductiveMinutes int       `json:"non_productive_minutes"`
	TravelMinutes        int       `json:"travel_minutes"`
	TotalWorkingMinutes  int       `json:"total_working_minutes"`
	AvgVisitDuration     float64   `json:"avg_visit_duration"`
	TimeUtilization      int       `json:"time_utilization"`
	DistanceTraveledKm   float64   `json:"distance_traveled_km"`
}

type HourlyActivityResponse struct {
	Hour                 int     `json:"hour"`
	Visits               int     `json:"visits"`
	Productive           int     `json:"productive"`
	NonProductive        int     `json:"non_productive"`
	TotalMinutes         int     `json:"total_minutes"`
	ProductiveMinutes    int     `json:"productive_minutes"`
	NonProductiveMinutes int     `json:"non_productive_minutes"`
	AvgDuration          float64 `json:"avg_duration"`
}

type TimeMotionSummaryResponse struct {
	TotalActiveMinutes   int `json:"total_active_minutes"`
	ProductiveMinutes    int `json:"productive_minutes"`
	NonProductiveMinutes int `json:"non_productive_minutes"`
	TotalVisits          int `json:"total_visits"`
	ProductiveVisits     int `json:"productive_visits"`
	ProductivityScore    int `json:"productivity_score"`
	TotalUsers           int `json:"total_users"`
}

type TimeMotionResponse struct {
	Date          string                    `json:"date"`
	Summary       TimeMotionSummaryResponse `json:"summary"`
	Users         []UserTimeMotionResponse  `json:"users"`
	Hourly        []HourlyActivityResponse  `json:"hourly"`
	TopPerformers []UserTimeMotionResponse  `json:"top_performers"`
}

type PerformanceSummaryResponse struct {
	TotalSales       float64 `json:"total_sales"`
	TotalOrders      int     `json:"total_orders"`
	UniqueCustomers  int     `json:"unique_customers"`
	ActiveSalesmen   int     `json:"active_salesmen"`
	AvgOrderValue    float64 `json:"avg_order_value"`
	GrowthPercentage float64 `json:"growth_percentage"`
	PeriodStart      string  `json:"period_start"`
	PeriodEnd        string  `json:"period_end"`
}

type TrendPointResponse struct {
	Date     string  `json:"date"`
	Sales    float64 `json:"sales"`
	Orders   int     `json:"orders"`
	Salesmen int     `json:"salesmen"`
}

type SalesmanPerformanceResponse struct {
	SalesmanCode string  `json:"salesman_code"`
	SalesmanName string  `json:"salesman_name"`
	Orders       int     `json:"orders"`
	TotalSales   float64 `json:"total_sales"`
	AvgOrder     float64 `json:"avg_order"`
}

type RoutePerformanceResponse struct {
	RouteCode       string  `json:"route_code"`
	RouteName       string  `json:"route_name"`
	Orders          int     `json:"orders"`
	TotalSales      float64 `json:"total_sales"`
	UniqueCustomers int     `json:"unique_customers"`
	Salesmen        int     `json:"salesmen"`
}

type PerformanceResponse struct {
	Summary     PerformanceSummaryResponse    `json:"summary"`
	Trend       []TrendPointResponse          `json:"trend"`
	TopSalesmen []SalesmanPerformanceResponse `json:"top_salesmen"`
	Routes      []RoutePerformanceResponse    `json:"routes"`
}

type PurchaseOrderLineResponse struct {
	PODate           string     `json:"po_date"`
	POCreatedAt      *time.Time `json:"po_created_at"`
	UserCode         string     `json:"user_code"`
	UserName         string     `json:"user_name"`
	TeamLeaderCode   string     `json:"team_leader_code"`
	TeamLeaderName   string     `json:"team_leader_name"`
	StoreCode        string     `json:"store_code"`
	StoreName        string     `json:"store_name"`
	ChainCode        string     `json:"chain_code"`
	ChainName        string     `json:"chain_name"`
	TrxCode          string     `json:"trx_code"`
	PONumber         string     `json:"po_number"`
	POStatus         string     `json:"po_status"`
	TotalAmount      float64    `json:"total_amount"`
	ProductCode      string     `json:"product_code"`
	ProductName      string     `json:"product_name"`
	ProductCategory  string     `json:"product_category"`
	Quantity         float64    `json:"quantity"`
	ReceivedQuantity float64    `json:"received_quantity"`
	PendingQuantity  float64    `json:"pending_quantity"`
	UnitPrice        float64    `json:"unit_price"`
	LineAmount       float64    `json:"line_amount"`
	DeliveryStatus   string     `json:"delivery_status"`
	ImagePath        string     `json:"image_path,omitempty"`
}

type PurchaseOrderSummaryResponse struct {
	Lines            int            `json:"lines"`
	PurchaseOrders   int            `json:"purchase_orders"`
	Stores           int            `json:"stores"`
	TotalAmount      float64        `json:"total_amount"`
	OrderedQuantity  float64        `json:"ordered_quantity"`
	ReceivedQuantity float64        `json:"received_quantity"`
	PendingQuantity  float64        `json:"pending_quantity"`
	ByStatus         map[string]int `json:"by_status"`
	ByDelivery       map[string]int `json:"by_delivery"`
}

type PurchaseOrderResponse struct {
	StartDate string                       `json:"start_date"`
	EndDate   string                       `json:"end_date"`
	Limit     int                          `json:"limit"`
	Summary   PurchaseOrderSummaryResponse `json:"summary"`
	Lines     []PurchaseOrderLineResponse  `json:"lines"`
}
