package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/constants"
)

type Reservation struct {
	ID          string                      `json:"id"`
	EquipmentID string                      `json:"equipment_id"`
	UserID      string                      `json:"user_id"`
	StartTime   time.Time                   `json:"start_time"`
	EndTime     null.Time                   `json:"end_time"`
	Status      constants.ReservationStatus `json:"status"`
	Notes       null.String                 `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data, not columns
	EquipmentName string `json:"equipment_name,omitempty" db:"-"`
	HolderName    string `json:"holder_name,omitempty" db:"-"`
}

// Overlaps reports whether the reservation's window shares at least one
// instant with [start, end), where a nil end means "until further
// notice". The test is symmetric across all four bounded/open-ended
// combinations: A.start <= B.end AND A.end >= B.start, with missing
// bounds treated as +inf.
func (r *Reservation) Overlaps(start time.Time, end *time.Time) bool {
	return WindowsOverlap(r.StartTime, r.EndTimePtr(), start, end)
}

func (r *Reservation) EndTimePtr() *time.Time {
	if !r.EndTime.Valid {
		return nil
	}
	t := r.EndTime.Time
	return &t
}

// WindowsOverlap is the engine's single definition of interval overlap.
// The SQL conflict query in the reservation repository mirrors it exactly.
func WindowsOverlap(startA time.Time, endA *time.Time, startB time.Time, endB *time.Time) bool {
	if endB != nil && startA.After(*endB) {
		return false
	}
	if endA != nil && endA.Before(startB) {
		return false
	}
	return true
}
