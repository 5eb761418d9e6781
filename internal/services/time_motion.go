package services

import (
	"fieldops-service/internal/domain"
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	firstReportHour = 8
	lastReportHour  = 20
	topPerformers   = 5
)

// BuildTimeMotion computes the time and motion view of a day's visits.
// Users without any time on site are left out. Hours are taken in loc.
func BuildTimeMotion(date time.Time, visits []domain.Visit, loc *time.Location) domain.TimeMotionReport {
	if loc == nil {
		loc = time.UTC
	}

	bySalesman := make(map[string][]domain.Visit)
	for _, v := range visits {
		bySalesman[v.SalesmanCode] = append(bySalesman[v.SalesmanCode], v)
	}

	users := make([]domain.UserTimeMotion, 0, len(bySalesman))
	for code, vs := range bySalesman {
		u := userTimeMotion(code, vs)
		if u.CompletedVisits == 0 || u.TotalActiveMinutes == 0 {
			continue
		}
		users = append(users, u)
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].TotalActiveMinutes != users[j].TotalActiveMinutes {
			return users[i].TotalActiveMinutes > users[j].TotalActiveMinutes
		}
		return users[i].UserCode < users[j].UserCode
	})

	report := domain.TimeMotionReport{
		Date:   date,
		Users:  users,
		Hourly: hourlyActivity(visits, loc),
	}

	for _, u := range users {
		report.Summary.TotalActiveMinutes += u.TotalActiveMinutes
		report.Summary.ProductiveMinutes += u.ProductiveMinutes
		report.Summary.NonProductiveMinutes += u.NonProductiveMinutes
		report.Summary.TotalVisits += u.CompletedVisits
		report.Summary.ProductiveVisits += u.ProductiveVisits
	}
	report.Summary.TotalUsers = len(users)
	report.Summary.ProductivityScore = percent(report.Summary.ProductiveMinutes, report.Summary.TotalActiveMinutes)

	top := make([]domain.UserTimeMotion, 0, len(users))
	for _, u := range users {
		if u.ProductiveMinutes > 0 {
			top = append(top, u)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].ProductiveMinutes > top[j].ProductiveMinutes })
	if len(top) > topPerformers {
		top = top[:topPerformers]
	}
	report.TopPerformers = top

	return report
}

func userTimeMotion(code string, visits []domain.Visit) domain.UserTimeMotion {
	journey := BuildJourney(code, visits)

	u := domain.UserTimeMotion{
		UserCode:        code,
		UserName:        journey.SalesmanName,
		CompletedVisits: len(journey.Stops),
	}
	if u.UserName == "" {
		u.UserName = code
	}
	if len(journey.Stops) == 0 {
		return u
	}

	line := make(orb.LineString, 0, len(journey.Stops))
	for _, s := range journey.Stops {
		if s.Productive {
			u.ProductiveVisits++
			u.ProductiveMinutes += s.DurationMinutes
		} else {
			u.NonProductiveVisits++
			u.NonProductiveMinutes += s.DurationMinutes
		}
		u.TotalActiveMinutes += s.DurationMinutes
		u.TravelMinutes += s.TravelMinutes
		line = append(line, orb.Point{s.Coordinates.Lon, s.Coordinates.Lat})
	}

	u.FirstVisit = journey.Stops[0].ArrivalTime
	u.LastVisit = journey.Stops[len(journey.Stops)-1].ArrivalTime
	u.TotalWorkingMinutes = wholeMinutes(u.LastVisit.Sub(u.FirstVisit))
	u.AvgVisitDuration = round1(float64(u.TotalActiveMinutes) / float64(u.CompletedVisits))
	u.TimeUtilization = percent(u.ProductiveMinutes, u.TotalActiveMinutes)
	// Straight-line kilometres between consecutive stops.
	u.DistanceTraveled = round1(geo.LengthHaversine(line) / 1000)

	return u
}

func hourlyActivity(visits []domain.Visit, loc *time.Location) []domain.HourlyActivity {
	hours := make([]domain.HourlyActivity, 0, lastReportHour-firstReportHour+1)
	for h := firstReportHour; h <= lastReportHour; h++ {
		hours = append(hours, domain.HourlyActivity{Hour: h})
	}

	for _, v := range visits {
		minutes := v.TimeOnSite()
		if minutes <= 0 {
			continue
		}
		h := v.ArrivalTime.In(loc).Hour()
		if h < firstReportHour || h > lastReportHour {
			continue
		}

		a := &hours[h-firstReportHour]
		a.Visits++
		a.TotalMinutes += minutes
		if v.Productive {
			a.Productive++
			a.ProductiveMinutes += minutes
		} else {
			a.NonProductive++
			a.NonProductiveMinutes += minutes
		}
	}

	for i := range hours {
		if hours[i].Visits > 0 {
			hours[i].AvgDuration = round1(float64(hours[i].TotalMinutes) / float64(hours[i].Visits))
		}
	}

	return hours
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

func round2(f float64) float64 { return math.Round(f*100) / 100 }
