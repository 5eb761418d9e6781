package services

import (
	"errors"
	"fieldops-service/internal/ports"
	"testing"
	"time"
)

func TestResolveDateRange(t *testing.T) {
	now := time.Date(2025, 3, 12, 22, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		in       string
		from, to time.Time
	}{
		{"", day(2025, 3, 12), day(2025, 3, 12)},
		{"yesterday", day(2025, 3, 11), day(2025, 3, 11)},
		{"thisWeek", day(2025, 3, 6), day(2025, 3, 12)},
		{"thisMonth", day(2025, 3, 1), day(2025, 3, 12)},
		{"lastMonth", day(2025, 2, 1), day(2025, 2, 28)},
		{"thisYear", day(2025, 1, 1), day(2025, 3, 12)},
		{"2025-01-15", day(2025, 1, 15), day(2025, 1, 15)},
	}
	for _, tc := range cases {
		r, err := ResolveDateRange(tc.in, now, time.UTC)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if !r.From.Equal(tc.from) || !r.To.Equal(tc.to) {
			t.Fatalf("%q: range = %v..%v, want %v..%v", tc.in, r.From, r.To, tc.from, tc.to)
		}
	}

	if _, err := ResolveDateRange("15/01/2025", now, time.UTC); !errors.Is(err, ports.ErrInvalidFilter) {
		t.Fatalf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestResolveDateRangeUsesDisplayZone(t *testing.T) {
	dubai := time.FixedZone("GST", 4*3600)
	// 22:30 UTC is already the next day in Dubai.
	now := time.Date(2025, 3, 12, 22, 30, 0, 0, time.UTC)

	r, err := ResolveDateRange("today", now, dubai)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.From.Day() != 13 {
		t.Fatalf("today = %v, want the 13th", r.From)
	}
}

func TestParseDateSpan(t *testing.T) {
	r, err := ParseDateSpan("2025-01-01", "2025-01-31", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days() != 31 {
		t.Fatalf("days = %d, want 31", r.Days())
	}

	for _, tc := range [][2]string{{"", "2025-01-31"}, {"2025-02-01", "2025-01-31"}, {"2025-01-01", "bad"}} {
		if _, err := ParseDateSpan(tc[0], tc[1], time.UTC); !errors.Is(err, ports.ErrInvalidFilter) {
			t.Fatalf("%v: err = %v, want ErrInvalidFilter", tc, err)
		}
	}
}
