// internal/app/system/changeind/changeind_test.go
package changeind_test

import (
	"testing"
	"time"

	"github.com/dalemusser/admitflow/internal/app/system/changeind"
)

func TestSplitPeriod(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	prev, cur := changeind.SplitPeriod(now, 30)

	wantMid := now.Add(-15 * 24 * time.Hour)
	wantStart := now.Add(-30 * 24 * time.Hour)

	if !prev.Start.Equal(wantStart) || !prev.End.Equal(wantMid) {
		t.Errorf("previous: got [%v, %v), want [%v, %v)", prev.Start, prev.End, wantStart, wantMid)
	}
	if !cur.Start.Equal(wantMid) || !cur.End.Equal(now) {
		t.Errorf("current: got [%v, %v), want [%v, %v)", cur.Start, cur.End, wantMid, now)
	}
	if !prev.End.Equal(cur.Start) {
		t.Error("halves must be adjacent")
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name           string
		previous       int64
		current        int64
		wantPercentage float64
		wantPosition   string
	}{
		{"growth", 100, 150, 50, changeind.PositionUp},
		{"decline", 200, 150, 25, changeind.PositionDown},
		{"flat", 80, 80, 0, changeind.PositionEqual},
		{"zero previous with activity", 0, 40, 100, changeind.PositionUp},
		{"zero both", 0, 0, 0, changeind.PositionEqual},
		{"rounds to two decimals", 3, 4, 33.33, changeind.PositionUp},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := changeind.Compute(tc.previous, tc.current)
			if got.Percentage != tc.wantPercentage {
				t.Errorf("percentage: got %v, want %v", got.Percentage, tc.wantPercentage)
			}
			if got.Position != tc.wantPosition {
				t.Errorf("position: got %q, want %q", got.Position, tc.wantPosition)
			}
			if got.Previous != tc.previous || got.Current != tc.current {
				t.Errorf("values not carried through: %+v", got)
			}
		})
	}
}
