package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/types"
)

type MaintenanceLogServiceInterface interface {
	CreateLog(ctx context.Context, userID string, payload dto.CreateMaintenanceLogDTO) (*entities.MaintenanceLog, error)
	FindLog(ctx context.Context, id string) (*entities.MaintenanceLog, error)
	ListLogs(ctx context.Context, filter types.Filter) ([]entities.MaintenanceLog, uint64, error)
	UpdateLog(ctx context.Context, id string, payload dto.UpdateMaintenanceLogDTO) (*entities.MaintenanceLog, error)
	DeleteLog(ctx context.Context, id string) error
}

type MaintenanceLogService struct {
	logRepo       repositories.MaintenanceLogRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewMaintenanceLogService(
	logRepo repositories.MaintenanceLogRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) MaintenanceLogServiceInterface {
	return &MaintenanceLogService{
		logRepo:       logRepo,
		equipmentRepo: equipmentRepo,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *MaintenanceLogService) CreateLog(ctx context.Context, userID string, payload dto.CreateMaintenanceLogDTO) (*entities.MaintenanceLog, error) {
	if _, err := s.equipmentRepo.FindEquipment(ctx, payload.EquipmentID); err != nil {
		return nil, err
	}

	performedDate := s.now().UTC()
	if payload.PerformedDate != nil {
		performedDate = *payload.PerformedDate
	}

	log := &entities.MaintenanceLog{
		EquipmentID:   payload.EquipmentID,
		Description:   payload.Description,
		PerformedDate: performedDate,
		PerformedBy:   null.NewString(userID, userID != ""),
	}
	if err := s.logRepo.CreateLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *MaintenanceLogService) FindLog(ctx context.Context, id string) (*entities.MaintenanceLog, error) {
	return s.logRepo.FindLog(ctx, id)
}

func (s *MaintenanceLogService) ListLogs(ctx context.Context, filter types.Filter) ([]entities.MaintenanceLog, uint64, error) {
	return s.logRepo.ListLogs(ctx, filter)
}

func (s *MaintenanceLogService) UpdateLog(ctx context.Context, id string, payload dto.UpdateMaintenanceLogDTO) (*entities.MaintenanceLog, error) {
	if err := s.logRepo.UpdateLog(ctx, id, payload); err != nil {
		return nil, err
	}
	return s.logRepo.FindLog(ctx, id)
}

func (s *MaintenanceLogService) DeleteLog(ctx context.Context, id string) error {
	return s.logRepo.DeleteLog(ctx, id)
}
