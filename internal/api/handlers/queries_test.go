package handlers

import (
	"errors"
	"fieldops-service/internal/ports"
	"net/http/httptest"
	"testing"
	"time"
)

var fixedClock = clock{
	Location: time.UTC,
	Now:      func() time.Time { return time.Date(2025, 3, 18, 10, 0, 0, 0, time.UTC) },
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("", fixedClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC); !day.Equal(want) {
		t.Fatalf("day = %v, want %v", day, want)
	}

	day, err = parseDay("yesterday", fixedClock)
	if err != nil || day.Day() != 17 {
		t.Fatalf("yesterday = %v, %v", day, err)
	}

	if _, err := parseDay("thisMonth", fixedClock); !errors.Is(err, ports.ErrInvalidFilter) {
		t.Fatalf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestParsePerformanceQueryDefaultsToThisMonth(t *testing.T) {
	r := httptest.NewRequest("GET", "/performance?route=R1", nil)

	rng, route, err := parsePerformanceQuery(r, fixedClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rng.From.Day() != 1 || rng.To.Day() != 18 || route != "R1" {
		t.Fatalf("range = %v..%v route %q", rng.From, rng.To, route)
	}

	r = httptest.NewRequest("GET", "/performance?start=2025-03-01", nil)
	if _, _, err := parsePerformanceQuery(r, fixedClock); !errors.Is(err, ports.ErrInvalidFilter) {
		t.Fatalf("err = %v, want ErrInvalidFilter for a half-open span", err)
	}
}

func TestParsePurchaseOrderQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/purchase-orders?startDate=2025-03-01&endDate=2025-03-07&storeCode=ST1&poStatus=all&limit=100&sort=lineAmount&dir=desc", nil)

	q, err := parsePurchaseOrderQuery(r, fixedClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Filter.StoreCode != "ST1" || q.Filter.Limit != 100 || q.Sort != "lineAmount" || q.Dir != "desc" {
		t.Fatalf("query = %+v", q)
	}
	if q.Filter.EndDate.Sub(q.Filter.StartDate) != 6*24*time.Hour {
		t.Fatalf("span = %v, want 6 days", q.Filter.EndDate.Sub(q.Filter.StartDate))
	}
}
