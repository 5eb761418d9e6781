package services

import (
	"fieldops-service/internal/ports"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days in the display time zone.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days returns the number of calendar days covered.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// ResolveDateRange turns a YYYY-MM-DD date or one of the named ranges
// (today, yesterday, thisWeek, thisMonth, lastMonth, thisYear) into days in
// loc. An empty string means today.
func ResolveDateRange(s string, now time.Time, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch strings.TrimSpace(s) {
	case "", "today":
		return DateRange{From: today, To: today}, nil
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return DateRange{From: y, To: y}, nil
	case "thisWeek":
		return DateRange{From: today.AddDate(0, 0, -6), To: today}, nil
	case "thisMonth":
		return DateRange{From: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc), To: today}, nil
	case "lastMonth":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return DateRange{From: first.AddDate(0, -1, 0), To: first.AddDate(0, 0, -1)}, nil
	case "thisYear":
		return DateRange{From: time.Date(today.Year(), 1, 1, 0, 0, 0, 0, loc), To: today}, nil
	}

	d, err := ParseDate(s, loc)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{From: d, To: d}, nil
}

// ParseDate parses a YYYY-MM-DD day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: want YYYY-MM-DD", ports.ErrInvalidFilter, s)
	}
	return d, nil
}

// ParseDateSpan parses an explicit start and end day. Both are required and
// start must not be after end.
func ParseDateSpan(start, end string, loc *time.Location) (DateRange, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return DateRange{}, fmt.Errorf("%w: start and end dates are required", ports.ErrInvalidFilter)
	}

	from, err := ParseDate(start, loc)
	if err != nil {
		return DateRange{}, err
	}
	to, err := ParseDate(end, loc)
	if err != nil {
		return DateRange{}, err
	}
	if from.After(to) {
		return DateRange{}, fmt.Errorf("%w: start date %s is after end date %s", ports.ErrInvalidFilter, start, end)
	}
	return DateRange{From: from, To: to}, nil
}
