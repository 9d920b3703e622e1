package dto

import (
	"time"

	"maintenance-system/internal/entities"
)

type CreateWorkOrderDTO struct {
	EquipmentID string `json:"equipment_id" validate:"required,uuid4"`
	Type        string `json:"type" validate:"required,workorder_type"`
	Priority    string `json:"priority" validate:"required,workorder_priority"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`

	EstimatedHours *float64 `json:"estimated_hours,omitempty" validate:"omitempty,gte=0"`
	EstimatedCost  *float64 `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`

	DueDate       *time.Time `json:"due_date,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`

	IsRecurring            bool `json:"is_recurring,omitempty"`
	RecurrenceIntervalDays *int `json:"recurrence_interval_days,omitempty" validate:"omitempty,gt=0"`

	AssignedTo string `json:"assigned_to,omitempty" validate:"omitempty,uuid4"`

	Checklist []entities.ChecklistItem `json:"checklist,omitempty"`
}

type TransitionWorkOrderDTO struct {
	Status  string `json:"status" validate:"required,workorder_status"`
	Comment string `json:"comment,omitempty"`
}

type CompleteWorkOrderDTO struct {
	Comment     string                   `json:"comment,omitempty"`
	ActualHours *float64                 `json:"actual_hours,omitempty" validate:"omitempty,gte=0"`
	ActualCost  *float64                 `json:"actual_cost,omitempty" validate:"omitempty,gte=0"`
	Checklist   []entities.ChecklistItem `json:"checklist,omitempty"`
}

type UpdateWorkOrderDTO struct {
	Priority    *string `json:"priority,omitempty" validate:"omitempty,workorder_priority"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`

	EstimatedHours *float64 `json:"estimated_hours,omitempty" validate:"omitempty,gte=0"`
	EstimatedCost  *float64 `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`

	DueDate       *time.Time `json:"due_date,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`

	AssignedTo *string `json:"assigned_to,omitempty" validate:"omitempty,uuid4"`

	Checklist []entities.ChecklistItem `json:"checklist,omitempty"`
}

type AddWorkOrderCommentDTO struct {
	Comment string `json:"comment" validate:"required"`
}

type WorkOrderDashboardDTO struct {
	Overdue    int `json:"overdue"`
	ThisWeek   int `json:"this_week"`
	OpenFaults int `json:"open_faults"`
	Scheduled  int `json:"scheduled"`
}
