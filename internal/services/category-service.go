package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
)

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, payload dto.CreateCategoryDTO) (*entities.Category, error)
	FindCategory(ctx context.Context, id string) (*entities.Category, error)
	ListCategories(ctx context.Context) ([]entities.Category, error)
	UpdateCategory(ctx context.Context, id string, payload dto.UpdateCategoryDTO) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	logger       *zap.Logger
}

func NewCategoryService(categoryRepo repositories.CategoryRepositoryInterface, logger *zap.Logger) CategoryServiceInterface {
	return &CategoryService{categoryRepo: categoryRepo, logger: logger}
}

func (s *CategoryService) CreateCategory(ctx context.Context, payload dto.CreateCategoryDTO) (*entities.Category, error) {
	cat := &entities.Category{
		Name:  payload.Name,
		Icon:  null.NewString(payload.Icon, payload.Icon != ""),
		Color: null.NewString(payload.Color, payload.Color != ""),
	}
	if err := s.categoryRepo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) FindCategory(ctx context.Context, id string) (*entities.Category, error) {
	return s.categoryRepo.FindCategory(ctx, id)
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]entities.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id string, payload dto.UpdateCategoryDTO) (*entities.Category, error) {
	if err := s.categoryRepo.UpdateCategory(ctx, id, payload); err != nil {
		return nil, err
	}
	return s.categoryRepo.FindCategory(ctx, id)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.categoryRepo.DeleteCategory(ctx, id)
}
