package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/constants"
)

type ChecklistItem struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// ChecklistSatisfied reports whether every item is ticked. An empty
// checklist satisfies trivially.
func ChecklistSatisfied(items []ChecklistItem) bool {
	for _, item := range items {
		if !item.Completed {
			return false
		}
	}
	return true
}

// ResetChecklist returns a copy with every item unticked, for recurrence
// successors.
func ResetChecklist(items []ChecklistItem) []ChecklistItem {
	out := make([]ChecklistItem, len(items))
	for i, item := range items {
		out[i] = ChecklistItem{Task: item.Task, Completed: false}
	}
	return out
}

type WorkOrder struct {
	ID          string                      `json:"id"`
	EquipmentID string                      `json:"equipment_id"`
	Type        constants.WorkOrderType     `json:"type"`
	Status      constants.WorkOrderStatus   `json:"status"`
	Priority    constants.WorkOrderPriority `json:"priority"`
	Title       string                      `json:"title"`
	Description null.String                 `json:"description"`

	EstimatedHours null.Float64 `json:"estimated_hours"`
	EstimatedCost  null.Float64 `json:"estimated_cost"`
	ActualHours    null.Float64 `json:"actual_hours"`
	ActualCost     null.Float64 `json:"actual_cost"`

	DueDate       null.Time `json:"due_date"`
	ScheduledDate null.Time `json:"scheduled_date"`

	IsRecurring            bool      `json:"is_recurring"`
	RecurrenceIntervalDays null.Int  `json:"recurrence_interval_days"`
	NextDueDate            null.Time `json:"next_due_date"`

	AssignedTo                null.String `json:"assigned_to"`
	CreatedBy                 null.String `json:"created_by"`
	CompletedMaintenanceLogID null.String `json:"completed_maintenance_log_id"`

	Checklist []ChecklistItem `json:"checklist"`

	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CompletedAt null.Time `json:"completed_at"`
	ClosedAt    null.Time `json:"closed_at"`

	// Joined data, not a column
	EquipmentName string `json:"equipment_name,omitempty" db:"-"`
}

type WorkOrderComment struct {
	ID               string      `json:"id"`
	WorkOrderID      string      `json:"work_order_id"`
	UserID           null.String `json:"user_id"`
	Comment          string      `json:"comment"`
	StatusChangeFrom null.String `json:"status_change_from"`
	StatusChangeTo   null.String `json:"status_change_to"`
	CreatedAt        time.Time   `json:"created_at"`
}

type MaintenanceLog struct {
	ID            string      `json:"id"`
	EquipmentID   string      `json:"equipment_id"`
	Description   string      `json:"description"`
	PerformedDate time.Time   `json:"performed_date"`
	PerformedBy   null.String `json:"performed_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data, not a column
	EquipmentName string `json:"equipment_name,omitempty" db:"-"`
}
