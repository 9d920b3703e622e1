package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowsOverlap(t *testing.T) {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name           string
		startA         time.Time
		endA           *time.Time
		startB         time.Time
		endB           *time.Time
		expectsOverlap bool
	}{
		{"disjoint, A before B", at(0), ptr(at(2)), at(3), ptr(at(5)), false},
		{"disjoint, A after B", at(3), ptr(at(5)), at(0), ptr(at(2)), false},
		{"partial overlap", at(0), ptr(at(3)), at(2), ptr(at(5)), true},
		{"containment", at(0), ptr(at(10)), at(2), ptr(at(4)), true},
		{"identical windows", at(0), ptr(at(2)), at(0), ptr(at(2)), true},
		{"touching bounds overlap", at(0), ptr(at(2)), at(2), ptr(at(4)), true},
		{"open-ended A blocks later B", at(0), nil, at(100), ptr(at(200)), true},
		{"open-ended A clear of earlier B", at(10), nil, at(0), ptr(at(5)), false},
		{"open-ended B blocks later A", at(100), ptr(at(200)), at(0), nil, true},
		{"both open-ended", at(0), nil, at(50), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectsOverlap, WindowsOverlap(tt.startA, tt.endA, tt.startB, tt.endB))
			// Overlap is symmetric.
			assert.Equal(t, tt.expectsOverlap, WindowsOverlap(tt.startB, tt.endB, tt.startA, tt.endA))
		})
	}
}

func TestReservationOverlaps(t *testing.T) {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	end := base.Add(4 * time.Hour)

	res := &Reservation{StartTime: base}
	res.EndTime.SetValid(end)

	assert.True(t, res.Overlaps(base.Add(time.Hour), nil))
	assert.False(t, res.Overlaps(end.Add(time.Minute), nil))

	open := &Reservation{StartTime: base}
	assert.True(t, open.Overlaps(base.AddDate(1, 0, 0), nil))
}
