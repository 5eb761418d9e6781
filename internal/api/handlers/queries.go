package handlers

import (
	"fieldops-service/internal/ports"
	"fieldops-service/internal/services"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// journeyQuery is the date and salesman of a single-journey view.
type journeyQuery struct {
	Day      time.Time
	Salesman string
}

func parseTrackingQuery(r *http.Request, c clock) (services.TrackingQuery, error) {
	q := r.URL.Query()
	rng, err := services.ResolveDateRange(q.Get("date"), c.now(), c.loc())
	if err != nil {
		return services.TrackingQuery{}, err
	}
	return services.TrackingQuery{
		Range:        rng,
		SalesmanCode: strings.TrimSpace(q.Get("salesman")),
		RouteCode:    strings.TrimSpace(q.Get("route")),
	}, nil
}

// parseDay resolves a single day; named ranges spanning several days are rejected.
func parseDay(s string, c clock) (time.Time, error) {
	rng, err := services.ResolveDateRange(s, c.now(), c.loc())
	if err != nil {
		return time.Time{}, err
	}
	if !rng.From.Equal(rng.To) {
		return time.Time{}, fmt.Errorf("%w: %q covers more than one day", ports.ErrInvalidFilter, s)
	}
	return rng.From, nil
}

func parseJourneyQuery(r *http.Request, c clock) (journeyQuery, error) {
	q := r.URL.Query()
	day, err := parseDay(q.Get("date"), c)
	if err != nil {
		return journeyQuery{}, err
	}
	return journeyQuery{Day: day, Salesman: strings.TrimSpace(q.Get("salesman"))}, nil
}

// parsePerformanceQuery reads start and end; when both are absent the
// current month is used.
func parsePerformanceQuery(r *http.Request, c clock) (services.DateRange, string, error) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")

	var (
		rng services.DateRange
		err error
	)
	if start == "" && end == "" {
		rng, err = services.ResolveDateRange("thisMonth", c.now(), c.loc())
	} else {
		rng, err = services.ParseDateSpan(start, end, c.loc())
	}
	if err != nil {
		return services.DateRange{}, "", err
	}
	return rng, strings.TrimSpace(q.Get("route")), nil
}

// purchaseOrderQuery is the PO filter plus the requested ordering.
type purchaseOrderQuery struct {
	Filter ports.PurchaseOrderFilter
	Sort   string
	Dir    string
}

func parsePurchaseOrderQuery(r *http.Request, c clock) (purchaseOrderQuery, error) {
	q := r.URL.Query()

	rng, err := services.ParseDateSpan(q.Get("startDate"), q.Get("endDate"), c.loc())
	if err != nil {
		return purchaseOrderQuery{}, err
	}

	limit := 0
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return purchaseOrderQuery{}, fmt.Errorf("%w: limit %q is not an integer", ports.ErrInvalidFilter, v)
		}
	}

	return purchaseOrderQuery{
		Filter: ports.PurchaseOrderFilter{
			StartDate:       rng.From,
			EndDate:         rng.To,
			UserCode:        q.Get("userCode"),
			StoreCode:       q.Get("storeCode"),
			POStatus:        q.Get("poStatus"),
			TeamLeaderCode:  q.Get("teamLeaderCode"),
			ChainCode:       q.Get("chainCode"),
			ProductCategory: q.Get("productCategory"),
			DeliveryStatus:  q.Get("deliveryStatus"),
			Limit:           limit,
		},
		Sort: strings.TrimSpace(q.Get("sort")),
		Dir:  strings.TrimSpace(q.Get("dir")),
	}, nil
}
