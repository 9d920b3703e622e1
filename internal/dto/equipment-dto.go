package dto

import "time"

type CreateEquipmentDTO struct {
	Name       string `json:"name" validate:"required"`
	Model      string `json:"model,omitempty"`
	CategoryID string `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Status     string `json:"status,omitempty" validate:"omitempty,equipment_status"`
	ImageURL   string `json:"image_url,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type UpdateEquipmentDTO struct {
	Name       *string `json:"name,omitempty"`
	Model      *string `json:"model,omitempty"`
	CategoryID *string `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Status     *string `json:"status,omitempty" validate:"omitempty,equipment_status"`
	ImageURL   *string `json:"image_url,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type CreateCategoryDTO struct {
	Name  string `json:"name" validate:"required"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

type UpdateCategoryDTO struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

type CreateMaintenanceLogDTO struct {
	EquipmentID   string     `json:"equipment_id" validate:"required,uuid4"`
	Description   string     `json:"description" validate:"required"`
	PerformedDate *time.Time `json:"performed_date,omitempty"`
}

type UpdateMaintenanceLogDTO struct {
	Description   *string    `json:"description,omitempty"`
	PerformedDate *time.Time `json:"performed_date,omitempty"`
}
