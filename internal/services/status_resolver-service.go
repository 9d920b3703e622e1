package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
)

type StatusResolverServiceInterface interface {
	Resolve(ctx context.Context, equipmentID string) (constants.EquipmentStatus, error)
	Reconcile(ctx context.Context, equipmentID string) (constants.EquipmentStatus, error)
}

// StatusResolverService derives the effective equipment status from work
// order state. Blocking work orders force maintenance; an operator-set
// inactive is preserved; everything else is active.
type StatusResolverService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	workOrderRepo repositories.WorkOrderRepositoryInterface
	logger        *zap.Logger
}

func NewStatusResolverService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	logger *zap.Logger,
) StatusResolverServiceInterface {
	return &StatusResolverService{
		equipmentRepo: equipmentRepo,
		workOrderRepo: workOrderRepo,
		logger:        logger,
	}
}

// Resolve computes the status without persisting anything. Errors from
// the stores are surfaced, never papered over with a default.
func (s *StatusResolverService) Resolve(ctx context.Context, equipmentID string) (constants.EquipmentStatus, error) {
	blocking, err := s.workOrderRepo.CountBlocking(ctx, equipmentID)
	if err != nil {
		return "", err
	}
	if blocking > 0 {
		return constants.EquipmentMaintenance, nil
	}

	current, err := s.equipmentRepo.GetStatus(ctx, equipmentID)
	if err != nil {
		return "", err
	}
	if current == constants.EquipmentInactive {
		return constants.EquipmentInactive, nil
	}
	return constants.EquipmentActive, nil
}

// Reconcile resolves and, when the stored status disagrees, writes the
// resolved value guarded by the status it read. A lost guard means a
// concurrent edit won; the caller gets the freshly resolved value either
// way.
func (s *StatusResolverService) Reconcile(ctx context.Context, equipmentID string) (constants.EquipmentStatus, error) {
	blocking, err := s.workOrderRepo.CountBlocking(ctx, equipmentID)
	if err != nil {
		return "", err
	}

	current, err := s.equipmentRepo.GetStatus(ctx, equipmentID)
	if err != nil {
		return "", err
	}

	resolved := constants.EquipmentActive
	if blocking > 0 {
		resolved = constants.EquipmentMaintenance
	} else if current == constants.EquipmentInactive {
		resolved = constants.EquipmentInactive
	}

	if resolved == current {
		return resolved, nil
	}

	updated, err := s.equipmentRepo.UpdateStatusCAS(ctx, equipmentID, current, resolved)
	if err != nil {
		return "", err
	}
	if !updated {
		s.logger.Info("equipment status changed concurrently, skipping reconcile",
			zap.String("equipment_id", equipmentID),
			zap.String("resolved", resolved.String()))
	}
	return resolved, nil
}
