package services

import (
	"fieldops-service/internal/domain"
	"fmt"
	"time"
)

var testDay = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

// makeStops returns n distinct stops a few hundred meters apart, five
// minutes on site each, ten minutes apart.
func makeStops(n int) []domain.Stop {
	stops := make([]domain.Stop, 0, n)
	for i := 0; i < n; i++ {
		arrival := testDay.Add(8*time.Hour + time.Duration(i)*15*time.Minute)
		stops = append(stops, domain.Stop{
			Sequence:     i + 1,
			CustomerCode: fmt.Sprintf("C%03d", i),
			Coordinates: domain.Coordinates{
				Lon: 55.2 + float64(i)*0.003,
				Lat: 25.1 + float64(i)*0.002,
			},
			ArrivalTime:     arrival,
			DurationMinutes: 5,
			Productive:      true,
		})
	}
	return stops
}

func at(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func ptr[T any](v T) *T { return &v }

func visit(salesman, customer string, arrival time.Time, minutes int, productive bool) domain.Visit {
	dep := arrival.Add(time.Duration(minutes) * time.Minute)
	return domain.Visit{
		VisitID:       salesman + "-" + customer,
		SalesmanCode:  salesman,
		SalesmanName:  "Salesman " + salesman,
		RouteCode:     "R-" + salesman,
		RouteName:     "Route " + salesman,
		CustomerCode:  customer,
		CustomerName:  "Customer " + customer,
		Coordinates:   domain.Coordinates{Lon: 55.27, Lat: 25.20},
		ArrivalTime:   arrival,
		DepartureTime: &dep,
		Productive:    productive,
	}
}
