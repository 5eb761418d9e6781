package services

import (
	"fieldops-service/internal/domain"
	"sort"
	"time"
)

const topSalesmen = 5

// PreviousPeriod is the range of equal length that ends the day before r.
func PreviousPeriod(r DateRange) DateRange {
	days := r.Days()
	return DateRange{
		From: r.From.AddDate(0, 0, -days),
		To:   r.From.AddDate(0, 0, -1),
	}
}

// BuildPerformance summarises sales in period and compares them with the
// sales of the previous period. Days are taken in loc.
func BuildPerformance(period DateRange, current, previous []domain.Transaction, loc *time.Location) domain.PerformanceReport {
	if loc == nil {
		loc = time.UTC
	}

	report := domain.PerformanceReport{
		Summary: domain.PerformanceSummary{
			PeriodStart: period.From,
			PeriodEnd:   period.To,
			TotalOrders: len(current),
		},
	}

	customers := make(map[string]struct{})
	salesmen := make(map[string]*domain.SalesmanPerformance)
	routes := make(map[string]*routeAccumulator)
	days := make(map[string]*dayAccumulator)

	for _, t := range current {
		report.Summary.TotalSales += t.TotalAmount
		customers[t.CustomerCode] = struct{}{}

		sp, ok := salesmen[t.SalesmanCode]
		if !ok {
			sp = &domain.SalesmanPerformance{SalesmanCode: t.SalesmanCode, SalesmanName: t.SalesmanName}
			salesmen[t.SalesmanCode] = sp
		}
		sp.Orders++
		sp.TotalSales += t.TotalAmount

		ra, ok := routes[t.RouteCode]
		if !ok {
			ra = &routeAccumulator{
				perf:      domain.RoutePerformance{RouteCode: t.RouteCode, RouteName: t.RouteName},
				customers: map[string]struct{}{},
				salesmen:  map[string]struct{}{},
			}
			routes[t.RouteCode] = ra
		}
		ra.perf.Orders++
		ra.perf.TotalSales += t.TotalAmount
		ra.customers[t.CustomerCode] = struct{}{}
		ra.salesmen[t.SalesmanCode] = struct{}{}

		key := t.TrxDate.In(loc).Format(dateLayout)
		da, ok := days[key]
		if !ok {
			da = &dayAccumulator{salesmen: map[string]struct{}{}}
			days[key] = da
		}
		da.sales += t.TotalAmount
		da.orders++
		da.salesmen[t.SalesmanCode] = struct{}{}
	}

	report.Summary.TotalSales = round2(report.Summary.TotalSales)
	report.Summary.UniqueCustomers = len(customers)
	report.Summary.ActiveSalesmen = len(salesmen)
	if report.Summary.TotalOrders > 0 {
		report.Summary.AvgOrderValue = round2(report.Summary.TotalSales / float64(report.Summary.TotalOrders))
	}

	prevSales := 0.0
	for _, t := range previous {
		prevSales += t.TotalAmount
	}
	if prevSales > 0 {
		report.Summary.GrowthPercentage = round1((report.Summary.TotalSales - prevSales) / prevSales * 100)
	}

	for d := period.From; !d.After(period.To); d = d.AddDate(0, 0, 1) {
		p := domain.TrendPoint{Date: d}
		if da, ok := days[d.Format(dateLayout)]; ok {
			p.Sales = round2(da.sales)
			p.Orders = da.orders
			p.Salesmen = len(da.salesmen)
		}
		report.Trend = append(report.Trend, p)
	}

	top := make([]domain.SalesmanPerformance, 0, len(salesmen))
	for _, sp := range salesmen {
		sp.TotalSales = round2(sp.TotalSales)
		sp.AvgOrder = round2(sp.TotalSales / float64(sp.Orders))
		top = append(top, *sp)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalSales != top[j].TotalSales {
			return top[i].TotalSales > top[j].TotalSales
		}
		return top[i].SalesmanCode < top[j].SalesmanCode
	})
	if len(top) > topSalesmen {
		top = top[:topSalesmen]
	}
	report.TopSalesmen = top

	report.Routes = make([]domain.RoutePerformance, 0, len(routes))
	for _, ra := range routes {
		ra.perf.TotalSales = round2(ra.perf.TotalSales)
		ra.perf.UniqueCustomers = len(ra.customers)
		ra.perf.Salesmen = len(ra.salesmen)
		report.Routes = append(report.Routes, ra.perf)
	}
	sort.Slice(report.Routes, func(i, j int) bool {
		if report.Routes[i].TotalSales != report.Routes[j].TotalSales {
			return report.Routes[i].TotalSales > report.Routes[j].TotalSales
		}
		return report.Routes[i].RouteCode < report.Routes[j].RouteCode
	})

	return report
}

type routeAccumulator struct {
	perf      domain.RoutePerformance
	customers map[string]struct{}
	salesmen  map[string]struct{}
}

type dayAccumulator struct {
	sales    float64
	orders   int
	salesmen map[string]struct{}
}
