package repositories

import (
	"context"
	"errors"
	"fmt"

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

const equipmentFields = `e.id::text, e.name, e.model, e.category_id::text, e.status, e.image_url, e.notes,
	e.created_at, e.updated_at,
	c.id::text, c.name, c.icon, c.color`

var equipmentListColumns = map[string]string{
	"category_id": "e.category_id",
	"status":      "e.status",
	"name":        "e.name",
	"created_at":  "e.created_at",
}

type EquipmentRepositoryInterface interface {
	CreateEquipment(ctx context.Context, eq *entities.Equipment) error
	FindEquipment(ctx context.Context, id string) (*entities.Equipment, error)
	ListEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	UpdateEquipment(ctx context.Context, id string, upd dto.UpdateEquipmentDTO) error
	DeleteEquipment(ctx context.Context, id string) error

	GetStatus(ctx context.Context, id string) (constants.EquipmentStatus, error)
	UpdateStatusCAS(ctx context.Context, id string, expected, target constants.EquipmentStatus) (bool, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var eq entities.Equipment
	var catID, catName, catIcon, catColor *string

	err := row.Scan(
		&eq.ID, &eq.Name, &eq.Model, &eq.CategoryID, &eq.Status, &eq.ImageURL, &eq.Notes,
		&eq.CreatedAt, &eq.UpdatedAt,
		&catID, &catName, &catIcon, &catColor,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan equipment: %w", err)
	}

	if catID != nil {
		cat := &entities.Category{ID: *catID}
		if catName != nil {
			cat.Name = *catName
		}
		if catIcon != nil {
			cat.Icon.SetValid(*catIcon)
		}
		if catColor != nil {
			cat.Color.SetValid(*catColor)
		}
		eq.Category = cat
	}
	return &eq, nil
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, eq *entities.Equipment) error {
	if eq.ID == "" {
		eq.ID = uuid.New().String()
	}
	if eq.Status == "" {
		eq.Status = constants.EquipmentActive
	}

	query := `
		INSERT INTO equipment (id, name, model, category_id, status, image_url, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.storage.QueryRow(ctx, query,
		eq.ID, eq.Name, eq.Model, eq.CategoryID, eq.Status, eq.ImageURL, eq.Notes,
	).Scan(&eq.CreatedAt, &eq.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert equipment: %w", err)
	}
	return nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id string) (*entities.Equipment, error) {
	query := `SELECT ` + equipmentFields + `
		FROM equipment e
		LEFT JOIN categories c ON e.category_id = c.id
		WHERE e.id = $1`
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) ListEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := infradb.ApplyListParams(
		psql.Select("COUNT(*)").From("equipment e"),
		types.Filter{Filter: filter.Filter},
		equipmentListColumns,
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build equipment count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	if len(filter.Sort) == 0 {
		filter.Sort = map[string]string{"name": "asc"}
	}

	builder := infradb.ApplyListParams(
		psql.Select(equipmentFields).
			From("equipment e").
			LeftJoin("categories c ON e.category_id = c.id"),
		filter,
		equipmentListColumns,
	)
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build equipment list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0)
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *eq)
	}
	return items, total, rows.Err()
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, id string, upd dto.UpdateEquipmentDTO) error {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("equipment").
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id})

	if upd.Name != nil {
		builder = builder.Set("name", *upd.Name)
	}
	if upd.Model != nil {
		builder = builder.Set("model", *upd.Model)
	}
	if upd.CategoryID != nil {
		if *upd.CategoryID == "" {
			builder = builder.Set("category_id", nil)
		} else {
			builder = builder.Set("category_id", *upd.CategoryID)
		}
	}
	if upd.Status != nil {
		builder = builder.Set("status", *upd.Status)
	}
	if upd.ImageURL != nil {
		builder = builder.Set("image_url", *upd.ImageURL)
	}
	if upd.Notes != nil {
		builder = builder.Set("notes", *upd.Notes)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build equipment update: %w", err)
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) GetStatus(ctx context.Context, id string) (constants.EquipmentStatus, error) {
	var status constants.EquipmentStatus
	err := r.storage.QueryRow(ctx, `SELECT status FROM equipment WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to read equipment status: %w", err)
	}
	return status, nil
}

// UpdateStatusCAS writes the target status only if the stored value still
// matches what the resolver read, so a concurrent manual edit is never
// blindly overwritten. Returns false when the guard missed.
func (r *EquipmentRepository) UpdateStatusCAS(ctx context.Context, id string, expected, target constants.EquipmentStatus) (bool, error) {
	tag, err := r.storage.Exec(ctx, `
		UPDATE equipment
		SET status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = $2`, id, expected, target)
	if err != nil {
		return false, fmt.Errorf("failed to update equipment status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
