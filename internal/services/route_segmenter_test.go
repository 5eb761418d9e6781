package services

import (
	"fieldops-service/internal/domain"
	"reflect"
	"testing"
)

func TestPartitionStopsExampleTwentySixStops(t *testing.T) {
	stops := makeStops(26)

	segments, err := PartitionStops(stops, 23)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(segments))
	}
	assertBounds(t, segments, [][2]int{{0, 24}, {24, 25}})

	if segments[0].PointCount() != 25 {
		t.Fatalf("segment 1 points = %d, want 25", segments[0].PointCount())
	}
	if segments[0].Destination.CustomerCode != stops[24].CustomerCode {
		t.Fatalf("segment 1 destination = %q, want %q", segments[0].Destination.CustomerCode, stops[24].CustomerCode)
	}
	if segments[1].Origin.CustomerCode != stops[24].CustomerCode {
		t.Fatalf("segment 2 origin = %q, want %q", segments[1].Origin.CustomerCode, stops[24].CustomerCode)
	}
}

func TestPartitionStopsExampleFiftyStops(t *testing.T) {
	segments, err := PartitionStops(makeStops(50), 23)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(segments))
	}
	assertBounds(t, segments, [][2]int{{0, 24}, {24, 48}, {48, 49}})
}

func TestPartitionStopsSingleSegmentShortcut(t *testing.T) {
	for _, tc := range []struct {
		n, max int
	}{
		{2, 1},
		{3, 1},
		{25, 23},
		{10, 23},
	} {
		segments, err := PartitionStops(makeStops(tc.n), tc.max)
		if err != nil {
			t.Fatalf("n=%d max=%d: unexpected error: %v", tc.n, tc.max, err)
		}
		if len(segments) != 1 {
			t.Fatalf("n=%d max=%d: segments = %d, want 1", tc.n, tc.max, len(segments))
		}
		if segments[0].StartIndex != 0 || segments[0].EndIndex != tc.n-1 {
			t.Fatalf("n=%d max=%d: bounds = [%d,%d], want [0,%d]",
				tc.n, tc.max, segments[0].StartIndex, segments[0].EndIndex, tc.n-1)
		}
	}
}

func TestPartitionStopsDegenerateInputs(t *testing.T) {
	for _, n := range []int{0, 1} {
		segments, err := PartitionStops(makeStops(n), 23)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(segments) != 0 {
			t.Fatalf("n=%d: segments = %d, want 0", n, len(segments))
		}
	}

	if _, err := PartitionStops(makeStops(5), 0); err == nil {
		t.Fatal("expected error for maxWaypoints 0")
	}
}

func TestPartitionStopsInvariants(t *testing.T) {
	for n := 2; n <= 120; n++ {
		for _, max := range []int{1, 2, 3, 8, 23, 48} {
			stops := makeStops(n)
			segments, err := PartitionStops(stops, max)
			if err != nil {
				t.Fatalf("n=%d max=%d: unexpected error: %v", n, max, err)
			}

			if got, want := len(segments), segmentCount(n, max+2); got != want {
				t.Fatalf("n=%d max=%d: segments = %d, want %d", n, max, got, want)
			}

			// Completeness and order: concatenating segments and dropping
			// each shared junction reproduces the input.
			var joined []domain.Stop
			for i, seg := range segments {
				if seg.PointCount() > max+2 {
					t.Fatalf("n=%d max=%d: segment %d has %d points, ceiling %d",
						n, max, i, seg.PointCount(), max+2)
				}
				if seg.PointCount() < 2 {
					t.Fatalf("n=%d max=%d: segment %d has %d points", n, max, i, seg.PointCount())
				}

				segStops := seg.Stops()
				if i > 0 {
					prev := segments[i-1]
					if !reflect.DeepEqual(prev.Destination, seg.Origin) {
						t.Fatalf("n=%d max=%d: segment %d origin does not match previous destination", n, max, i)
					}
					segStops = segStops[1:]
				}
				joined = append(joined, segStops...)
			}

			if !reflect.DeepEqual(joined, stops) {
				t.Fatalf("n=%d max=%d: joined segments do not reproduce the stop list", n, max)
			}
		}
	}
}

func TestPartitionStopsIsDeterministic(t *testing.T) {
	stops := makeStops(77)

	a, err := PartitionStops(stops, 23)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := PartitionStops(stops, 23)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatal("partitioning the same input twice produced different segments")
	}
}

func TestPartitionStopsDoesNotAliasInput(t *testing.T) {
	stops := makeStops(30)
	segments, err := PartitionStops(stops, 23)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segments[0].Waypoints[0].CustomerCode = "changed"
	if stops[1].CustomerCode == "changed" {
		t.Fatal("segment waypoints share memory with the input")
	}
}

func assertBounds(t *testing.T, segments []domain.Segment, want [][2]int) {
	t.Helper()

	for i, seg := range segments {
		if seg.StartIndex != want[i][0] || seg.EndIndex != want[i][1] {
			t.Fatalf("segment %d bounds = [%d,%d], want [%d,%d]",
				i+1, seg.StartIndex, seg.EndIndex, want[i][0], want[i][1])
		}
	}
}
