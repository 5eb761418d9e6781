package domain

import "time"

// UserTimeMotion is the per-salesman time and motion breakdown for a day.
type UserTimeMotion struct {
	UserCode             string
	UserName             string
	FirstVisit           time.Time
	LastVisit            time.Time
	CompletedVisits      int
	ProductiveVisits     int
	NonProductiveVisits  int
	TotalActiveMinutes   int
	ProductiveMinutes    int
	NonProductiveMinutes int
	TravelMinutes        int
	TotalWorkingMinutes  int
	AvgVisitDuration     float64
	// Productive minutes as a share of active minutes, 0..100.
	TimeUtilization  int
	DistanceTraveled float64
}

// HourlyActivity is the visit load of one hour of the working day.
type HourlyActivity struct {
	Hour                 int
	Visits               int
	Productive           int
	NonProductive        int
	TotalMinutes         int
	ProductiveMinutes    int
	NonProductiveMinutes int
	AvgDuration          float64
}

// TimeMotionSummary is the headline block of the time and motion view.
type TimeMotionSummary struct {
	TotalActiveMinutes   int
	ProductiveMinutes    int
	NonProductiveMinutes int
	TotalVisits          int
	ProductiveVisits     int
	ProductivityScore    int
	TotalUsers           int
}

// TimeMotionReport is the time and motion view for one date.
type TimeMotionReport struct {
	Date          time.Time
	Summary       TimeMotionSummary
	Users         []UserTimeMotion
	Hourly        []HourlyActivity
	TopPerformers []UserTimeMotion
}
