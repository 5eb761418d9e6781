package services

import (
	"fieldops-service/internal/domain"
	"math"
	"sort"
	"strings"
	"time"
)

// BuildJourney returns the chronological journey of one salesman. Visits of
// other salesmen are ignored. Stops are ordered by arrival time, ties broken
// by customer code, and numbered from 1.
func BuildJourney(salesmanCode string, visits []domain.Visit) domain.Journey {
	own := make([]domain.Visit, 0, len(visits))
	for _, v := range visits {
		if v.SalesmanCode == salesmanCode {
			own = append(own, v)
		}
	}
	sortVisits(own)

	j := domain.Journey{SalesmanCode: salesmanCode}
	if len(own) == 0 {
		return j
	}

	for _, v := range own {
		if j.SalesmanName == "" {
			j.SalesmanName = v.SalesmanName
		}
		if j.RouteCode == "" {
			j.RouteCode = v.RouteCode
			j.RouteName = v.RouteName
		}
	}

	j.Stops = make([]domain.Stop, 0, len(own))
	for i, v := range own {
		stop := domain.Stop{
			Sequence:        i + 1,
			CustomerCode:    v.CustomerCode,
			CustomerName:    v.CustomerName,
			Coordinates:     v.Coordinates,
			ArrivalTime:     v.ArrivalTime,
			DepartureTime:   v.DepartureTime,
			DurationMinutes: v.TimeOnSite(),
			Productive:      v.Productive,
			VisitType:       v.VisitType,
			OrderValue:      v.OrderValue,
		}
		if i > 0 {
			stop.TravelMinutes = wholeMinutes(v.ArrivalTime.Sub(visitEnd(own[i-1])))
		}
		j.Stops = append(j.Stops, stop)
	}

	start := own[0].ArrivalTime
	end := start
	for _, v := range own {
		if e := visitEnd(v); e.After(end) {
			end = e
		}
	}
	j.StartTime = &start
	j.EndTime = &end
	j.TotalDurationMinutes = wholeMinutes(end.Sub(start))

	return j
}

// DailyJourneys splits one salesman's visits by arrival day in loc and
// builds a journey per day, earliest day first. Travel time never spans two
// days.
func DailyJourneys(salesmanCode string, visits []domain.Visit, loc *time.Location) []domain.Journey {
	if loc == nil {
		loc = time.UTC
	}

	byDay := make(map[time.Time][]domain.Visit)
	for _, v := range visits {
		if v.SalesmanCode != salesmanCode {
			continue
		}
		t := v.ArrivalTime.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		byDay[day] = append(byDay[day], v)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	journeys := make([]domain.Journey, 0, len(days))
	for _, day := range days {
		j := BuildJourney(salesmanCode, byDay[day])
		j.Date = day
		journeys = append(journeys, j)
	}
	return journeys
}

// SummarizeJourneys rolls visits up per salesman. salesBySalesman supplies
// posted sales; when nil, the visits' order values are summed instead.
// Summaries are ordered by total visits, then total sales, both descending.
func SummarizeJourneys(visits []domain.Visit, salesBySalesman map[string]float64, loc *time.Location) []domain.JourneySummary {
	if loc == nil {
		loc = time.UTC
	}

	groups := make(map[string][]domain.Visit)
	order := make([]string, 0)
	for _, v := range visits {
		if _, ok := groups[v.SalesmanCode]; !ok {
			order = append(order, v.SalesmanCode)
		}
		groups[v.SalesmanCode] = append(groups[v.SalesmanCode], v)
	}

	out := make([]domain.JourneySummary, 0, len(order))
	for _, code := range order {
		out = append(out, summarizeSalesman(code, groups[code], salesBySalesman, loc))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalVisits != out[j].TotalVisits {
			return out[i].TotalVisits > out[j].TotalVisits
		}
		if out[i].TotalSales != out[j].TotalSales {
			return out[i].TotalSales > out[j].TotalSales
		}
		return out[i].SalesmanCode < out[j].SalesmanCode
	})

	return out
}

func summarizeSalesman(code string, visits []domain.Visit, salesBySalesman map[string]float64, loc *time.Location) domain.JourneySummary {
	sortVisits(visits)

	s := domain.JourneySummary{
		SalesmanCode: code,
		SalesmanName: code,
		TotalVisits:  len(visits),
		StartTime:    visits[0].ArrivalTime,
	}

	customers := make(map[string]struct{}, len(visits))
	stops := make([]string, 0, len(visits))
	totalMinutes := 0
	orderValue := 0.0

	for _, v := range visits {
		if v.SalesmanName != "" && s.SalesmanName == code {
			s.SalesmanName = v.SalesmanName
		}
		if s.RouteCode == "" {
			s.RouteCode = v.RouteCode
			s.RouteName = v.RouteName
		}

		customers[v.CustomerCode] = struct{}{}
		if v.Productive {
			s.ProductiveVisits++
		}
		totalMinutes += v.TimeOnSite()
		orderValue += v.OrderValue

		if v.DepartureTime != nil && (s.EndTime == nil || v.DepartureTime.After(*s.EndTime)) {
			d := *v.DepartureTime
			s.EndTime = &d
		}

		stops = append(stops, v.CustomerName+" ("+v.ArrivalTime.In(loc).Format("15:04")+")")
	}

	s.TotalCustomers = len(customers)
	s.AvgDurationMinutes = math.Round(float64(totalMinutes)/float64(len(visits))*10) / 10
	s.Status = JourneyStatusFor(s.ProductiveVisits, s.TotalVisits)
	s.RouteSummary = strings.Join(stops, ", ")

	if salesBySalesman != nil {
		s.TotalSales = salesBySalesman[code]
	} else {
		s.TotalSales = orderValue
	}

	last := visits[len(visits)-1]
	s.LastLocation = last.Coordinates
	s.LastSeen = last.ArrivalTime
	if last.DepartureTime == nil {
		s.CurrentCustomerCode = last.CustomerCode
		s.CurrentCustomerName = last.CustomerName
	}

	return s
}

// JourneyStatusFor buckets a salesman by the share of productive visits:
// above 80% is active, above 40% idle, anything else inactive.
func JourneyStatusFor(productive, total int) domain.JourneyStatus {
	switch {
	case total > 0 && float64(productive) > float64(total)*0.8:
		return domain.JourneyActive
	case total > 0 && float64(productive) > float64(total)*0.4:
		return domain.JourneyIdle
	default:
		return domain.JourneyInactive
	}
}

func sortVisits(visits []domain.Visit) {
	sort.SliceStable(visits, func(i, j int) bool {
		a, b := visits[i], visits[j]
		if !a.ArrivalTime.Equal(b.ArrivalTime) {
			return a.ArrivalTime.Before(b.ArrivalTime)
		}
		return a.CustomerCode < b.CustomerCode
	})
}

// visitEnd is the departure time, or arrival plus time on site for open visits.
func visitEnd(v domain.Visit) time.Time {
	if v.DepartureTime != nil && v.DepartureTime.After(v.ArrivalTime) {
		return *v.DepartureTime
	}
	return v.ArrivalTime.Add(time.Duration(v.TimeOnSite()) * time.Minute)
}

func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Round(time.Minute) / time.Minute)
}
