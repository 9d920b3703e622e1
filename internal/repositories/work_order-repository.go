package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	infradb "maintenance-system/internal/infrastructure/db"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const workOrderFields = `w.id::text, w.equipment_id::text, w.type, w.status, w.priority, w.title, w.description,
	w.estimated_hours, w.estimated_cost, w.actual_hours, w.actual_cost,
	w.due_date, w.scheduled_date,
	w.is_recurring, w.recurrence_interval_days, w.next_due_date,
	w.assigned_to::text, w.created_by::text, w.completed_maintenance_log_id::text,
	w.checklist, w.created_at, w.updated_at, w.completed_at, w.closed_at,
	COALESCE(e.name, '')`

var workOrderListColumns = map[string]string{
	"equipment_id": "w.equipment_id",
	"status":       "w.status",
	"type":         "w.type",
	"priority":     "w.priority",
	"created_at":   "w.created_at",
	"due_date":     "w.due_date",
}

type WorkOrderRepositoryInterface interface {
	CreateWorkOrder(ctx context.Context, wo *entities.WorkOrder) error
	FindWorkOrder(ctx context.Context, id string) (*entities.WorkOrder, error)
	ListWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error)
	UpdateWorkOrder(ctx context.Context, id string, upd dto.UpdateWorkOrderDTO) error
	DeleteWorkOrder(ctx context.Context, id string) error

	UpdateStatusInTx(ctx context.Context, q Querier, id string, from, to constants.WorkOrderStatus) error
	CompleteInTx(ctx context.Context, q Querier, id string, logID string, actualHours, actualCost *float64, checklist []entities.ChecklistItem, completedAt time.Time) error
	CloseWorkOrder(ctx context.Context, id string, now time.Time) error

	CountBlocking(ctx context.Context, equipmentID string) (int, error)
	CountOpenByEquipment(ctx context.Context) (map[string]int, error)
	DashboardCounts(ctx context.Context, now time.Time) (*dto.WorkOrderDashboardDTO, error)
}

type WorkOrderRepository struct {
	storage *pgxpool.Pool
}

func NewWorkOrderRepository(storage *pgxpool.Pool) WorkOrderRepositoryInterface {
	return &WorkOrderRepository{storage: storage}
}

func scanWorkOrder(row pgx.Row) (*entities.WorkOrder, error) {
	var w entities.WorkOrder
	var checklistJSON []byte

	err := row.Scan(
		&w.ID, &w.EquipmentID, &w.Type, &w.Status, &w.Priority, &w.Title, &w.Description,
		&w.EstimatedHours, &w.EstimatedCost, &w.ActualHours, &w.ActualCost,
		&w.DueDate, &w.ScheduledDate,
		&w.IsRecurring, &w.RecurrenceIntervalDays, &w.NextDueDate,
		&w.AssignedTo, &w.CreatedBy, &w.CompletedMaintenanceLogID,
		&checklistJSON, &w.CreatedAt, &w.UpdatedAt, &w.CompletedAt, &w.ClosedAt,
		&w.EquipmentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan work order: %w", err)
	}

	w.Checklist = make([]entities.ChecklistItem, 0)
	if len(checklistJSON) > 0 {
		if err := json.Unmarshal(checklistJSON, &w.Checklist); err != nil {
			return nil, fmt.Errorf("failed to decode checklist: %w", err)
		}
	}
	return &w, nil
}

func (r *WorkOrderRepository) CreateWorkOrder(ctx context.Context, wo *entities.WorkOrder) error {
	if wo.ID == "" {
		wo.ID = uuid.New().String()
	}
	if wo.Checklist == nil {
		wo.Checklist = make([]entities.ChecklistItem, 0)
	}

	checklistJSON, err := json.Marshal(wo.Checklist)
	if err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}

	query := `
		INSERT INTO work_orders (
			id, equipment_id, type, status, priority, title, description,
			estimated_hours, estimated_cost, due_date, scheduled_date,
			is_recurring, recurrence_interval_days, next_due_date,
			assigned_to, created_by, checklist
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	err = r.storage.QueryRow(ctx, query,
		wo.ID, wo.EquipmentID, wo.Type, wo.Status, wo.Priority, wo.Title, wo.Description,
		wo.EstimatedHours, wo.EstimatedCost, wo.DueDate, wo.ScheduledDate,
		wo.IsRecurring, wo.RecurrenceIntervalDays, wo.NextDueDate,
		wo.AssignedTo, wo.CreatedBy, checklistJSON,
	).Scan(&wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert work order: %w", err)
	}
	return nil
}

func (r *WorkOrderRepository) FindWorkOrder(ctx context.Context, id string) (*entities.WorkOrder, error) {
	query := `SELECT ` + workOrderFields + `
		FROM work_orders w
		LEFT JOIN equipment e ON w.equipment_id = e.id
		WHERE w.id = $1`
	return scanWorkOrder(r.storage.QueryRow(ctx, query, id))
}

func (r *WorkOrderRepository) ListWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := infradb.ApplyListParams(
		psql.Select("COUNT(*)").From("work_orders w"),
		types.Filter{Filter: filter.Filter},
		workOrderListColumns,
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build work order count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work orders: %w", err)
	}

	if len(filter.Sort) == 0 {
		filter.Sort = map[string]string{"created_at": "desc"}
	}

	builder := infradb.ApplyListParams(
		psql.Select(workOrderFields).
			From("work_orders w").
			LeftJoin("equipment e ON w.equipment_id = e.id"),
		filter,
		workOrderListColumns,
	)
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build work order list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.WorkOrder, 0)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *wo)
	}
	return orders, total, rows.Err()
}

func (r *WorkOrderRepository) UpdateWorkOrder(ctx context.Context, id string, upd dto.UpdateWorkOrderDTO) error {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("work_orders").
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id})

	if upd.Priority != nil {
		builder = builder.Set("priority", *upd.Priority)
	}
	if upd.Title != nil {
		builder = builder.Set("title", *upd.Title)
	}
	if upd.Description != nil {
		builder = builder.Set("description", *upd.Description)
	}
	if upd.EstimatedHours != nil {
		builder = builder.Set("estimated_hours", *upd.EstimatedHours)
	}
	if upd.EstimatedCost != nil {
		builder = builder.Set("estimated_cost", *upd.EstimatedCost)
	}
	if upd.DueDate != nil {
		builder = builder.Set("due_date", *upd.DueDate)
	}
	if upd.ScheduledDate != nil {
		builder = builder.Set("scheduled_date", *upd.ScheduledDate)
	}
	if upd.AssignedTo != nil {
		builder = builder.Set("assigned_to", *upd.AssignedTo)
	}
	if upd.Checklist != nil {
		checklistJSON, err := json.Marshal(upd.Checklist)
		if err != nil {
			return fmt.Errorf("failed to encode checklist: %w", err)
		}
		builder = builder.Set("checklist", checklistJSON)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build work order update: %w", err)
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepository) DeleteWorkOrder(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateStatusInTx performs the conditional status move; the WHERE guard
// on the current status means a concurrent transition loses cleanly
// instead of overwriting.
func (r *WorkOrderRepository) UpdateStatusInTx(ctx context.Context, q Querier, id string, from, to constants.WorkOrderStatus) error {
	tag, err := q.Exec(ctx, `
		UPDATE work_orders
		SET status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to transition work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM work_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to read work order state: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInvalidState
	}
	return nil
}

func (r *WorkOrderRepository) CompleteInTx(ctx context.Context, q Querier, id string, logID string, actualHours, actualCost *float64, checklist []entities.ChecklistItem, completedAt time.Time) error {
	checklistJSON, err := json.Marshal(checklist)
	if err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}

	tag, err := q.Exec(ctx, `
		UPDATE work_orders
		SET status = 'completed',
		    completed_at = $2,
		    completed_maintenance_log_id = $3,
		    actual_hours = $4,
		    actual_cost = $5,
		    checklist = $6,
		    updated_at = $2
		WHERE id = $1 AND status NOT IN ('completed', 'closed')`,
		id, completedAt, logID, actualHours, actualCost, checklistJSON)
	if err != nil {
		return fmt.Errorf("failed to complete work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}

func (r *WorkOrderRepository) CloseWorkOrder(ctx context.Context, id string, now time.Time) error {
	tag, err := r.storage.Exec(ctx, `
		UPDATE work_orders
		SET status = 'closed', closed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'completed'`, id, now)
	if err != nil {
		return fmt.Errorf("failed to close work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.storage.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM work_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to read work order state: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInvalidState
	}
	return nil
}

// CountBlocking counts the work orders that take the equipment out of
// service (in_progress, waiting_parts). Input to the status resolver.
func (r *WorkOrderRepository) CountBlocking(ctx context.Context, equipmentID string) (int, error) {
	var count int
	err := r.storage.QueryRow(ctx, `
		SELECT COUNT(*) FROM work_orders
		WHERE equipment_id = $1 AND status IN ('in_progress', 'waiting_parts')`, equipmentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count blocking work orders: %w", err)
	}
	return count, nil
}

func (r *WorkOrderRepository) CountOpenByEquipment(ctx context.Context) (map[string]int, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT equipment_id::text, COUNT(*)
		FROM work_orders
		WHERE status IN ('open', 'scheduled', 'in_progress', 'waiting_parts')
		GROUP BY equipment_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count open work orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var equipmentID string
		var count int
		if err := rows.Scan(&equipmentID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan work order counts: %w", err)
		}
		counts[equipmentID] = count
	}
	return counts, rows.Err()
}

func (r *WorkOrderRepository) DashboardCounts(ctx context.Context, now time.Time) (*dto.WorkOrderDashboardDTO, error) {
	nextWeek := now.Add(7 * 24 * time.Hour)

	var d dto.WorkOrderDashboardDTO
	err := r.storage.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('open', 'scheduled', 'in_progress') AND due_date < $1),
			COUNT(*) FILTER (WHERE status IN ('open', 'scheduled', 'in_progress') AND due_date >= $1 AND due_date <= $2),
			COUNT(*) FILTER (WHERE type = 'corrective' AND status IN ('open', 'in_progress')),
			COUNT(*) FILTER (WHERE status = 'scheduled')
		FROM work_orders`, now, nextWeek).
		Scan(&d.Overdue, &d.ThisWeek, &d.OpenFaults, &d.Scheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to load work order dashboard: %w", err)
	}
	return &d, nil
}
