package repositories

import (
	"context"
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
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const maintenanceLogFields = `m.id::text, m.equipment_id::text, m.description, m.performed_date, m.performed_by::text,
	m.created_at, m.updated_at, COALESCE(e.name, '')`

var maintenanceLogListColumns = map[string]string{
	"equipment_id":   "m.equipment_id",
	"performed_date": "m.performed_date",
	"created_at":     "m.created_at",
}

type MaintenanceLogRepositoryInterface interface {
	CreateLog(ctx context.Context, log *entities.MaintenanceLog) error
	CreateLogInTx(ctx context.Context, q Querier, log *entities.MaintenanceLog) error
	FindLog(ctx context.Context, id string) (*entities.MaintenanceLog, error)
	ListLogs(ctx context.Context, filter types.Filter) ([]entities.MaintenanceLog, uint64, error)
	ListLogsInRange(ctx context.Context, from, to time.Time) ([]entities.MaintenanceLog, error)
	UpdateLog(ctx context.Context, id string, upd dto.UpdateMaintenanceLogDTO) error
	DeleteLog(ctx context.Context, id string) error
}

type MaintenanceLogRepository struct {
	storage *pgxpool.Pool
}

func NewMaintenanceLogRepository(storage *pgxpool.Pool) MaintenanceLogRepositoryInterface {
	return &MaintenanceLogRepository{storage: storage}
}

func (r *MaintenanceLogRepository) CreateLog(ctx context.Context, log *entities.MaintenanceLog) error {
	return r.CreateLogInTx(ctx, r.storage, log)
}

func (r *MaintenanceLogRepository) CreateLogInTx(ctx context.Context, q Querier, log *entities.MaintenanceLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `
		INSERT INTO maintenance_logs (id, equipment_id, description, performed_date, performed_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := q.QueryRow(ctx, query,
		log.ID, log.EquipmentID, log.Description, log.PerformedDate, log.PerformedBy,
	).Scan(&log.CreatedAt, &log.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert maintenance log: %w", err)
	}
	return nil
}

func (r *MaintenanceLogRepository) FindLog(ctx context.Context, id string) (*entities.MaintenanceLog, error) {
	query := `SELECT ` + maintenanceLogFields + `
		FROM maintenance_logs m
		LEFT JOIN equipment e ON m.equipment_id = e.id
		WHERE m.id = $1`

	var log entities.MaintenanceLog
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&log.ID, &log.EquipmentID, &log.Description, &log.PerformedDate, &log.PerformedBy,
		&log.CreatedAt, &log.UpdatedAt, &log.EquipmentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find maintenance log: %w", err)
	}
	return &log, nil
}

func (r *MaintenanceLogRepository) scanLogs(rows pgx.Rows) ([]entities.MaintenanceLog, error) {
	defer rows.Close()

	logs := make([]entities.MaintenanceLog, 0)
	for rows.Next() {
		var log entities.MaintenanceLog
		err := rows.Scan(
			&log.ID, &log.EquipmentID, &log.Description, &log.PerformedDate, &log.PerformedBy,
			&log.CreatedAt, &log.UpdatedAt, &log.EquipmentName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maintenance log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *MaintenanceLogRepository) ListLogs(ctx context.Context, filter types.Filter) ([]entities.MaintenanceLog, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := infradb.ApplyListParams(
		psql.Select("COUNT(*)").From("maintenance_logs m"),
		types.Filter{Filter: filter.Filter},
		maintenanceLogListColumns,
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build maintenance log count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count maintenance logs: %w", err)
	}

	if len(filter.Sort) == 0 {
		filter.Sort = map[string]string{"performed_date": "desc"}
	}

	builder := infradb.ApplyListParams(
		psql.Select(maintenanceLogFields).
			From("maintenance_logs m").
			LeftJoin("equipment e ON m.equipment_id = e.id"),
		filter,
		maintenanceLogListColumns,
	)
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build maintenance log list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list maintenance logs: %w", err)
	}

	logs, err := r.scanLogs(rows)
	return logs, total, err
}

func (r *MaintenanceLogRepository) ListLogsInRange(ctx context.Context, from, to time.Time) ([]entities.MaintenanceLog, error) {
	query := `SELECT ` + maintenanceLogFields + `
		FROM maintenance_logs m
		LEFT JOIN equipment e ON m.equipment_id = e.id
		WHERE m.performed_date >= $1 AND m.performed_date <= $2
		ORDER BY m.performed_date`

	rows, err := r.storage.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance logs in range: %w", err)
	}
	return r.scanLogs(rows)
}

func (r *MaintenanceLogRepository) UpdateLog(ctx context.Context, id string, upd dto.UpdateMaintenanceLogDTO) error {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("maintenance_logs").
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id})

	if upd.Description != nil {
		builder = builder.Set("description", *upd.Description)
	}
	if upd.PerformedDate != nil {
		builder = builder.Set("performed_date", *upd.PerformedDate)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build maintenance log update: %w", err)
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update maintenance log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceLogRepository) DeleteLog(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM maintenance_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
