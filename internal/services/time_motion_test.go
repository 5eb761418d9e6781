package services

import (
	"fieldops-service/internal/domain"
	"testing"
	"time"
)

func TestBuildTimeMotion(t *testing.T) {
	visits := []domain.Visit{
		visit("S1", "C1", at(8, 30), 30, true),
		visit("S1", "C2", at(9, 15), 10, false),
		visit("S1", "C3", at(10, 0), 20, true),
		visit("S2", "D1", at(9, 0), 15, true),
		// No time on site: ignored in users and hours.
		visit("S3", "E1", at(9, 0), 0, true),
		// Outside the reported hours.
		visit("S2", "D2", at(21, 30), 5, false),
	}

	r := BuildTimeMotion(testDay, visits, time.UTC)

	if r.Summary.TotalUsers != 2 {
		t.Fatalf("users = %d, want 2", r.Summary.TotalUsers)
	}
	if r.Summary.TotalActiveMinutes != 80 {
		t.Fatalf("active = %d, want 80", r.Summary.TotalActiveMinutes)
	}
	if r.Summary.ProductiveMinutes != 65 {
		t.Fatalf("productive = %d, want 65", r.Summary.ProductiveMinutes)
	}
	if r.Summary.ProductivityScore != 81 {
		t.Fatalf("score = %d, want 81", r.Summary.ProductivityScore)
	}

	s1 := r.Users[0]
	if s1.UserCode != "S1" {
		t.Fatalf("first user = %q, want S1", s1.UserCode)
	}
	if s1.CompletedVisits != 3 || s1.ProductiveVisits != 2 || s1.NonProductiveVisits != 1 {
		t.Fatalf("S1 visits = %+v", s1)
	}
	if s1.TotalWorkingMinutes != 90 {
		t.Fatalf("S1 working = %d, want 90", s1.TotalWorkingMinutes)
	}
	if s1.TravelMinutes != 50 {
		t.Fatalf("S1 travel = %d, want 50", s1.TravelMinutes)
	}
	if s1.TimeUtilization != 83 {
		t.Fatalf("S1 utilization = %d, want 83", s1.TimeUtilization)
	}
	if s1.AvgVisitDuration != 20 {
		t.Fatalf("S1 avg = %v, want 20", s1.AvgVisitDuration)
	}

	if len(r.Hourly) != 13 || r.Hourly[0].Hour != 8 || r.Hourly[12].Hour != 20 {
		t.Fatalf("hourly = %d buckets from %d, want 13 from 8", len(r.Hourly), r.Hourly[0].Hour)
	}
	nine := r.Hourly[1]
	if nine.Visits != 2 || nine.Productive != 1 || nine.NonProductive != 1 {
		t.Fatalf("09:00 bucket = %+v", nine)
	}
	if nine.AvgDuration != 12.5 {
		t.Fatalf("09:00 avg = %v, want 12.5", nine.AvgDuration)
	}

	if len(r.TopPerformers) != 2 || r.TopPerformers[0].UserCode != "S1" {
		t.Fatalf("top performers = %+v", r.TopPerformers)
	}
}

func TestBuildTimeMotionTopPerformersCapped(t *testing.T) {
	var visits []domain.Visit
	for i, code := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		visits = append(visits, visit(code, "X", at(9, 0), 10+i, true))
	}

	r := BuildTimeMotion(testDay, visits, time.UTC)

	if len(r.TopPerformers) != 5 {
		t.Fatalf("top performers = %d, want 5", len(r.TopPerformers))
	}
	if r.TopPerformers[0].UserCode != "G" {
		t.Fatalf("best = %q, want G", r.TopPerformers[0].UserCode)
	}
}
