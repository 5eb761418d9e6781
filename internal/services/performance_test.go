package services

import (
	"fieldops-service/internal/domain"
	"testing"
	"time"
)

func trx(code, salesman, route, customer string, day time.Time, amount float64) domain.Transaction {
	return domain.Transaction{
		TrxCode:      code,
		TrxDate:      day.Add(10 * time.Hour),
		SalesmanCode: salesman,
		SalesmanName: "Salesman " + salesman,
		RouteCode:    route,
		RouteName:    "Route " + route,
		CustomerCode: customer,
		TotalAmount:  amount,
	}
}

func TestPreviousPeriod(t *testing.T) {
	period := DateRange{From: testDay, To: testDay.AddDate(0, 0, 6)}
	prev := PreviousPeriod(period)

	if !prev.From.Equal(testDay.AddDate(0, 0, -7)) || !prev.To.Equal(testDay.AddDate(0, 0, -1)) {
		t.Fatalf("previous = %v..%v", prev.From, prev.To)
	}
	if prev.Days() != period.Days() {
		t.Fatalf("previous days = %d, want %d", prev.Days(), period.Days())
	}
}

func TestBuildPerformance(t *testing.T) {
	d1 := testDay
	d2 := testDay.AddDate(0, 0, 1)
	period := DateRange{From: d1, To: testDay.AddDate(0, 0, 2)}

	current := []domain.Transaction{
		trx("T1", "S1", "R1", "C1", d1, 100),
		trx("T2", "S1", "R1", "C2", d1, 50),
		trx("T3", "S2", "R2", "C1", d2, 250),
	}
	previous := []domain.Transaction{
		trx("P1", "S1", "R1", "C1", d1.AddDate(0, 0, -3), 200),
	}

	r := BuildPerformance(period, current, previous, time.UTC)

	if r.Summary.TotalSales != 400 || r.Summary.TotalOrders != 3 {
		t.Fatalf("totals = %v/%d, want 400/3", r.Summary.TotalSales, r.Summary.TotalOrders)
	}
	if r.Summary.UniqueCustomers != 2 || r.Summary.ActiveSalesmen != 2 {
		t.Fatalf("customers/salesmen = %d/%d, want 2/2", r.Summary.UniqueCustomers, r.Summary.ActiveSalesmen)
	}
	if r.Summary.AvgOrderValue != 133.33 {
		t.Fatalf("avg order = %v, want 133.33", r.Summary.AvgOrderValue)
	}
	if r.Summary.GrowthPercentage != 100 {
		t.Fatalf("growth = %v, want 100", r.Summary.GrowthPercentage)
	}

	if len(r.Trend) != 3 {
		t.Fatalf("trend = %d days, want 3", len(r.Trend))
	}
	if r.Trend[0].Sales != 150 || r.Trend[0].Orders != 2 || r.Trend[0].Salesmen != 1 {
		t.Fatalf("day 1 = %+v", r.Trend[0])
	}
	if r.Trend[2].Orders != 0 {
		t.Fatalf("day 3 orders = %d, want 0", r.Trend[2].Orders)
	}

	if r.TopSalesmen[0].SalesmanCode != "S2" || r.TopSalesmen[1].AvgOrder != 75 {
		t.Fatalf("top salesmen = %+v", r.TopSalesmen)
	}
	if r.Routes[0].RouteCode != "R2" || r.Routes[1].UniqueCustomers != 2 {
		t.Fatalf("routes = %+v", r.Routes)
	}
}

func TestBuildPerformanceWithoutPreviousSales(t *testing.T) {
	r := BuildPerformance(DateRange{From: testDay, To: testDay}, nil, nil, time.UTC)
	if r.Summary.GrowthPercentage != 0 || r.Summary.AvgOrderValue != 0 {
		t.Fatalf("summary = %+v, want zero growth and average", r.Summary)
	}
}
