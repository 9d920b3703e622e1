package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/types"
)

type EquipmentServiceInterface interface {
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	FindEquipment(ctx context.Context, id string) (*entities.Equipment, error)
	ListEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	UpdateEquipment(ctx context.Context, id string, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
	ResolveStatus(ctx context.Context, id string) (constants.EquipmentStatus, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	categoryRepo  repositories.CategoryRepositoryInterface
	resolver      StatusResolverServiceInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	resolver StatusResolverServiceInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		categoryRepo:  categoryRepo,
		resolver:      resolver,
		logger:        logger,
	}
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	if payload.CategoryID != "" {
		if _, err := s.categoryRepo.FindCategory(ctx, payload.CategoryID); err != nil {
			return nil, err
		}
	}

	eq := &entities.Equipment{
		Name:       payload.Name,
		Model:      null.NewString(payload.Model, payload.Model != ""),
		CategoryID: null.NewString(payload.CategoryID, payload.CategoryID != ""),
		Status:     constants.EquipmentStatus(payload.Status),
		ImageURL:   null.NewString(payload.ImageURL, payload.ImageURL != ""),
		Notes:      null.NewString(payload.Notes, payload.Notes != ""),
	}
	if err := s.equipmentRepo.CreateEquipment(ctx, eq); err != nil {
		return nil, err
	}

	s.logger.Info("equipment created", zap.String("equipment_id", eq.ID), zap.String("name", eq.Name))
	return eq, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id string) (*entities.Equipment, error) {
	return s.equipmentRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) ListEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipmentRepo.ListEquipment(ctx, filter)
}

// UpdateEquipment edits the record and then lets the resolver reconcile
// the status: a manual status edit holds only as long as no blocking
// work orders say otherwise.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, id string, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	if payload.CategoryID != nil && *payload.CategoryID != "" {
		if _, err := s.categoryRepo.FindCategory(ctx, *payload.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, id, payload); err != nil {
		return nil, err
	}

	if payload.Status != nil {
		if _, err := s.resolver.Reconcile(ctx, id); err != nil {
			s.logger.Warn("failed to reconcile equipment status after update",
				zap.String("equipment_id", id), zap.Error(err))
		}
	}
	return s.equipmentRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id string) error {
	return s.equipmentRepo.DeleteEquipment(ctx, id)
}

func (s *EquipmentService) ResolveStatus(ctx context.Context, id string) (constants.EquipmentStatus, error) {
	return s.resolver.Resolve(ctx, id)
}
