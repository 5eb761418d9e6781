package domain

import "time"

// Transaction is one sale posted by a salesman.
type Transaction struct {
	TrxCode      string
	TrxDate      time.Time
	SalesmanCode string
	SalesmanName string
	RouteCode    string
	RouteName    string
	CustomerCode string
	TotalAmount  float64
}

// PerformanceSummary is the headline block of the sales performance view.
type PerformanceSummary struct {
	TotalSales       float64
	TotalOrders      int
	UniqueCustomers  int
	ActiveSalesmen   int
	AvgOrderValue    float64
	GrowthPercentage float64
	PeriodStart      time.Time
	PeriodEnd        time.Time
}

// TrendPoint is one day of the sales trend.
type TrendPoint struct {
	Date     time.Time
	Sales    float64
	Orders   int
	Salesmen int
}

// SalesmanPerformance ranks a salesman within the period.
type SalesmanPerformance struct {
	SalesmanCode string
	SalesmanName string
	Orders       int
	TotalSales   float64
	AvgOrder     float64
}

// RoutePerformance aggregates sales by route.
type RoutePerformance struct {
	RouteCode       string
	RouteName       string
	Orders          int
	TotalSales      float64
	UniqueCustomers int
	Salesmen        int
}

// PerformanceReport is the sales performance view.
type PerformanceReport struct {
	Summary     PerformanceSummary
	Trend       []TrendPoint
	TopSalesmen []SalesmanPerformance
	Routes      []RoutePerformance
}
