package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

type CategoryRepositoryInterface interface {
	CreateCategory(ctx context.Context, cat *entities.Category) error
	FindCategory(ctx context.Context, id string) (*entities.Category, error)
	ListCategories(ctx context.Context) ([]entities.Category, error)
	UpdateCategory(ctx context.Context, id string, upd dto.UpdateCategoryDTO) error
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryRepository struct {
	storage *pgxpool.Pool
}

func NewCategoryRepository(storage *pgxpool.Pool) CategoryRepositoryInterface {
	return &CategoryRepository{storage: storage}
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, cat *entities.Category) error {
	if cat.ID == "" {
		cat.ID = uuid.New().String()
	}

	query := `
		INSERT INTO categories (id, name, icon, color)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.storage.QueryRow(ctx, query, cat.ID, cat.Name, cat.Icon, cat.Color).Scan(&cat.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindCategory(ctx context.Context, id string) (*entities.Category, error) {
	var cat entities.Category
	err := r.storage.QueryRow(ctx, `
		SELECT id::text, name, icon, color, created_at
		FROM categories
		WHERE id = $1`, id).Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &cat, nil
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]entities.Category, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id::text, name, icon, color, created_at
		FROM categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]entities.Category, 0)
	for rows.Next() {
		var cat entities.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, id string, upd dto.UpdateCategoryDTO) error {
	query := `
		UPDATE categories
		SET name = COALESCE($2, name),
		    icon = COALESCE($3, icon),
		    color = COALESCE($4, color)
		WHERE id = $1`

	tag, err := r.storage.Exec(ctx, query, id, upd.Name, upd.Icon, upd.Color)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
