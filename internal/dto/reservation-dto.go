package dto

import "time"

type CreateReservationDTO struct {
	EquipmentID string     `json:"equipment_id" validate:"required,uuid4"`
	StartTime   time.Time  `json:"start_time" validate:"required"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type AvailabilityQueryDTO struct {
	EquipmentID string     `json:"equipment_id" validate:"required,uuid4"`
	StartTime   time.Time  `json:"start_time" validate:"required"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

type AvailabilityResultDTO struct {
	Available bool                    `json:"available"`
	Conflict  *ReservationConflictDTO `json:"conflict,omitempty"`
}

type ReservationConflictDTO struct {
	ReservationID string     `json:"reservation_id"`
	HolderName    string     `json:"holder_name"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
}
