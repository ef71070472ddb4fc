package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart time.Time
		aEnd   time.Time
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"adjacent after", at(14, 0), at(15, 0), at(15, 0), at(16, 0), false},
		{"adjacent before", at(15, 0), at(16, 0), at(14, 0), at(15, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(13, 0), at(14, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd), "overlap must be symmetric")
		})
	}
}

func TestOverlaps_AdjacencyNeverConflicts(t *testing.T) {
	base := at(0, 0)
	for i := 1; i < 48; i++ {
		t1 := base.Add(time.Duration(i) * 30 * time.Minute)
		t2 := t1.Add(time.Duration(i) * time.Minute)
		assert.False(t, Overlaps(base, t1, t1, t2))
	}
}
