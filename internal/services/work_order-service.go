package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const dashboardCacheTTL = 30 * time.Second

type WorkOrderServiceInterface interface {
	CreateWorkOrder(ctx context.Context, userID string, payload dto.CreateWorkOrderDTO) (*entities.WorkOrder, error)
	FindWorkOrder(ctx context.Context, id string) (*entities.WorkOrder, error)
	ListWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error)
	UpdateWorkOrder(ctx context.Context, id string, payload dto.UpdateWorkOrderDTO) (*entities.WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, id string) error

	Transition(ctx context.Context, id, userID string, payload dto.TransitionWorkOrderDTO) (*entities.WorkOrder, error)
	Complete(ctx context.Context, id, userID string, payload dto.CompleteWorkOrderDTO) (*entities.WorkOrder, error)
	Close(ctx context.Context, id string) (*entities.WorkOrder, error)

	AddComment(ctx context.Context, id, userID string, payload dto.AddWorkOrderCommentDTO) (*entities.WorkOrderComment, error)
	ListComments(ctx context.Context, id string) ([]entities.WorkOrderComment, error)

	Dashboard(ctx context.Context) (*dto.WorkOrderDashboardDTO, error)
	OpenCountsByEquipment(ctx context.Context) (map[string]int, error)
}

type WorkOrderService struct {
	workOrderRepo repositories.WorkOrderRepositoryInterface
	commentRepo   repositories.WorkOrderCommentRepositoryInterface
	logRepo       repositories.MaintenanceLogRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	resolver      StatusResolverServiceInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewWorkOrderService(
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	commentRepo repositories.WorkOrderCommentRepositoryInterface,
	logRepo repositories.MaintenanceLogRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	resolver StatusResolverServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) WorkOrderServiceInterface {
	return &WorkOrderService{
		workOrderRepo: workOrderRepo,
		commentRepo:   commentRepo,
		logRepo:       logRepo,
		equipmentRepo: equipmentRepo,
		cacheRepo:     cacheRepo,
		resolver:      resolver,
		txManager:     txManager,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateWorkOrder opens a work order. The initial status is derived, not
// supplied: a scheduled date puts it in the calendar, otherwise it lands
// in the open backlog.
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, userID string, payload dto.CreateWorkOrderDTO) (*entities.WorkOrder, error) {
	if _, err := s.equipmentRepo.FindEquipment(ctx, payload.EquipmentID); err != nil {
		return nil, err
	}
	if payload.IsRecurring && payload.RecurrenceIntervalDays == nil {
		return nil, apperrors.NewInvalidInputError("recurrence_interval_days is required for recurring work orders")
	}

	status := constants.WorkOrderOpen
	if payload.ScheduledDate != nil && constants.WorkOrderType(payload.Type) == constants.WorkOrderTypeScheduled {
		status = constants.WorkOrderScheduled
	}

	wo := &entities.WorkOrder{
		EquipmentID:   payload.EquipmentID,
		Type:          constants.WorkOrderType(payload.Type),
		Status:        status,
		Priority:      constants.WorkOrderPriority(payload.Priority),
		Title:         payload.Title,
		Description:   null.NewString(payload.Description, payload.Description != ""),
		DueDate:       null.TimeFromPtr(payload.DueDate),
		ScheduledDate: null.TimeFromPtr(payload.ScheduledDate),
		IsRecurring:   payload.IsRecurring,
		AssignedTo:    null.NewString(payload.AssignedTo, payload.AssignedTo != ""),
		CreatedBy:     null.NewString(userID, userID != ""),
		Checklist:     payload.Checklist,
	}
	if payload.EstimatedHours != nil {
		wo.EstimatedHours = null.Float64From(*payload.EstimatedHours)
	}
	if payload.EstimatedCost != nil {
		wo.EstimatedCost = null.Float64From(*payload.EstimatedCost)
	}
	if payload.RecurrenceIntervalDays != nil {
		wo.RecurrenceIntervalDays = null.IntFrom(*payload.RecurrenceIntervalDays)
	}
	if payload.IsRecurring && payload.DueDate != nil {
		wo.NextDueDate = null.TimeFrom(*payload.DueDate)
	}

	if err := s.workOrderRepo.CreateWorkOrder(ctx, wo); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)

	s.logger.Info("work order created",
		zap.String("work_order_id", wo.ID),
		zap.String("equipment_id", wo.EquipmentID),
		zap.String("type", wo.Type.String()))
	return wo, nil
}

func (s *WorkOrderService) FindWorkOrder(ctx context.Context, id string) (*entities.WorkOrder, error) {
	return s.workOrderRepo.FindWorkOrder(ctx, id)
}

func (s *WorkOrderService) ListWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error) {
	return s.workOrderRepo.ListWorkOrders(ctx, filter)
}

// UpdateWorkOrder edits descriptive fields. Status never moves through
// here; that is what Transition, Complete and Close are for.
func (s *WorkOrderService) UpdateWorkOrder(ctx context.Context, id string, payload dto.UpdateWorkOrderDTO) (*entities.WorkOrder, error) {
	current, err := s.workOrderRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidState
	}

	if err := s.workOrderRepo.UpdateWorkOrder(ctx, id, payload); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)
	return s.workOrderRepo.FindWorkOrder(ctx, id)
}

func (s *WorkOrderService) DeleteWorkOrder(ctx context.Context, id string) error {
	wo, err := s.workOrderRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.workOrderRepo.DeleteWorkOrder(ctx, id); err != nil {
		return err
	}
	s.invalidateDashboard(ctx)

	if _, err := s.resolver.Reconcile(ctx, wo.EquipmentID); err != nil {
		s.logger.Warn("failed to reconcile equipment status after delete",
			zap.String("equipment_id", wo.EquipmentID), zap.Error(err))
	}
	return nil
}

// Transition moves the work order between working states, records the
// change as an audit comment in the same transaction, and refreshes the
// equipment status afterwards.
func (s *WorkOrderService) Transition(ctx context.Context, id, userID string, payload dto.TransitionWorkOrderDTO) (*entities.WorkOrder, error) {
	target := constants.WorkOrderStatus(payload.Status)

	wo, err := s.workOrderRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !wo.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidState
	}

	comment := payload.Comment
	if comment == "" {
		comment = "Status changed from " + wo.Status.String() + " to " + target.String()
	}

	err = s.txManager.RunInTransaction(ctx, func(q repositories.Querier) error {
		if err := s.workOrderRepo.UpdateStatusInTx(ctx, q, id, wo.Status, target); err != nil {
			return err
		}
		return s.commentRepo.CreateCommentInTx(ctx, q, &entities.WorkOrderComment{
			WorkOrderID:      id,
			UserID:           null.NewString(userID, userID != ""),
			Comment:          comment,
			StatusChangeFrom: null.StringFrom(wo.Status.String()),
			StatusChangeTo:   null.StringFrom(target.String()),
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)

	if _, err := s.resolver.Reconcile(ctx, wo.EquipmentID); err != nil {
		s.logger.Warn("failed to reconcile equipment status after transition",
			zap.String("equipment_id", wo.EquipmentID), zap.Error(err))
	}
	return s.workOrderRepo.FindWorkOrder(ctx, id)
}

// Complete finishes the work: one transaction writes the maintenance
// log, flips the order to completed and, when the caller supplied a
// comment, records it on the thread. The checklist must be fully
// ticked first. Recurring orders spawn their
// successor after commit; losing the successor loses a reminder, not the
// completed work, so that step is best effort.
func (s *WorkOrderService) Complete(ctx context.Context, id, userID string, payload dto.CompleteWorkOrderDTO) (*entities.WorkOrder, error) {
	wo, err := s.workOrderRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidState
	}

	checklist := wo.Checklist
	if payload.Checklist != nil {
		checklist = payload.Checklist
	}
	if !entities.ChecklistSatisfied(checklist) {
		return nil, apperrors.ErrChecklistIncomplete
	}

	completedAt := s.now().UTC()
	description := "Completed work order: " + wo.Title
	if payload.Comment != "" {
		description += ". " + payload.Comment
	}

	log := &entities.MaintenanceLog{
		EquipmentID:   wo.EquipmentID,
		Description:   description,
		PerformedDate: completedAt,
		PerformedBy:   null.NewString(userID, userID != ""),
	}

	err = s.txManager.RunInTransaction(ctx, func(q repositories.Querier) error {
		if err := s.logRepo.CreateLogInTx(ctx, q, log); err != nil {
			return err
		}
		if err := s.workOrderRepo.CompleteInTx(ctx, q, id, log.ID, payload.ActualHours, payload.ActualCost, checklist, completedAt); err != nil {
			return err
		}
		if payload.Comment == "" {
			return nil
		}
		return s.commentRepo.CreateCommentInTx(ctx, q, &entities.WorkOrderComment{
			WorkOrderID:      id,
			UserID:           null.NewString(userID, userID != ""),
			Comment:          payload.Comment,
			StatusChangeFrom: null.StringFrom(wo.Status.String()),
			StatusChangeTo:   null.StringFrom(constants.WorkOrderCompleted.String()),
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)

	if wo.IsRecurring && wo.RecurrenceIntervalDays.Valid {
		s.spawnSuccessor(ctx, wo, completedAt)
	}

	if _, err := s.resolver.Reconcile(ctx, wo.EquipmentID); err != nil {
		s.logger.Warn("failed to reconcile equipment status after completion",
			zap.String("equipment_id", wo.EquipmentID), zap.Error(err))
	}
	return s.workOrderRepo.FindWorkOrder(ctx, id)
}

// spawnSuccessor creates the next occurrence of a recurring work order,
// due interval days after this completion, with the checklist reset.
func (s *WorkOrderService) spawnSuccessor(ctx context.Context, wo *entities.WorkOrder, completedAt time.Time) {
	nextDue := completedAt.AddDate(0, 0, wo.RecurrenceIntervalDays.Int)

	successor := &entities.WorkOrder{
		EquipmentID:            wo.EquipmentID,
		Type:                   wo.Type,
		Status:                 constants.WorkOrderOpen,
		Priority:               wo.Priority,
		Title:                  wo.Title,
		Description:            wo.Description,
		EstimatedHours:         wo.EstimatedHours,
		EstimatedCost:          wo.EstimatedCost,
		DueDate:                null.TimeFrom(nextDue),
		IsRecurring:            true,
		RecurrenceIntervalDays: wo.RecurrenceIntervalDays,
		NextDueDate:            null.TimeFrom(nextDue),
		AssignedTo:             wo.AssignedTo,
		CreatedBy:              wo.CreatedBy,
		Checklist:              entities.ResetChecklist(wo.Checklist),
	}

	if err := s.workOrderRepo.CreateWorkOrder(ctx, successor); err != nil {
		s.logger.Error("failed to create recurring successor",
			zap.String("work_order_id", wo.ID), zap.Error(err))
		return
	}
	s.logger.Info("recurring work order scheduled",
		zap.String("predecessor_id", wo.ID),
		zap.String("work_order_id", successor.ID),
		zap.Time("due_date", nextDue))
}

// Close archives a completed work order.
func (s *WorkOrderService) Close(ctx context.Context, id string) (*entities.WorkOrder, error) {
	if err := s.workOrderRepo.CloseWorkOrder(ctx, id, s.now().UTC()); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)
	return s.workOrderRepo.FindWorkOrder(ctx, id)
}

func (s *WorkOrderService) AddComment(ctx context.Context, id, userID string, payload dto.AddWorkOrderCommentDTO) (*entities.WorkOrderComment, error) {
	if _, err := s.workOrderRepo.FindWorkOrder(ctx, id); err != nil {
		return nil, err
	}

	comment := &entities.WorkOrderComment{
		WorkOrderID: id,
		UserID:      null.NewString(userID, userID != ""),
		Comment:     payload.Comment,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *WorkOrderService) ListComments(ctx context.Context, id string) ([]entities.WorkOrderComment, error) {
	if _, err := s.workOrderRepo.FindWorkOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.commentRepo.ListComments(ctx, id)
}

// Dashboard serves the headline counters, cached briefly in Redis since
// every client polls them.
func (s *WorkOrderService) Dashboard(ctx context.Context) (*dto.WorkOrderDashboardDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, constants.CacheKeyWorkOrderDashboard); err == nil && cached != "" {
		var d dto.WorkOrderDashboardDTO
		if err := json.Unmarshal([]byte(cached), &d); err == nil {
			return &d, nil
		}
	}

	d, err := s.workOrderRepo.DashboardCounts(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(d); err == nil {
		if err := s.cacheRepo.Set(ctx, constants.CacheKeyWorkOrderDashboard, encoded, dashboardCacheTTL); err != nil {
			s.logger.Warn("failed to cache work order dashboard", zap.Error(err))
		}
	}
	return d, nil
}

// OpenCountsByEquipment feeds the fleet overview badge: how many
// non-terminal work orders each piece of equipment carries.
func (s *WorkOrderService) OpenCountsByEquipment(ctx context.Context) (map[string]int, error) {
	return s.workOrderRepo.CountOpenByEquipment(ctx)
}

func (s *WorkOrderService) invalidateDashboard(ctx context.Context) {
	if err := s.cacheRepo.Del(ctx, constants.CacheKeyWorkOrderDashboard); err != nil {
		s.logger.Warn("failed to invalidate work order dashboard cache", zap.Error(err))
	}
}
