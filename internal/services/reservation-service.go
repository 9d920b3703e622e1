package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
)

type ReservationServiceInterface interface {
	CheckAvailability(ctx context.Context, query dto.AvailabilityQueryDTO) (*dto.AvailabilityResultDTO, error)
	CreateReservation(ctx context.Context, userID string, payload dto.CreateReservationDTO) (*entities.Reservation, error)
	CompleteReservation(ctx context.Context, id string) (*entities.Reservation, error)
	CancelReservation(ctx context.Context, id string) (*entities.Reservation, error)
	AutoExpire(ctx context.Context) (int64, error)
	FindReservation(ctx context.Context, id string) (*entities.Reservation, error)
	ListMyReservations(ctx context.Context, userID string) ([]entities.Reservation, error)
	ListActiveReservations(ctx context.Context) ([]entities.Reservation, error)
	ActiveReservationForEquipment(ctx context.Context, equipmentID string) (*entities.Reservation, error)
}

type ReservationService struct {
	reservationRepo repositories.ReservationRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	txManager       repositories.TxManagerInterface
	logger          *zap.Logger
	now             func() time.Time
}

func NewReservationService(
	reservationRepo repositories.ReservationRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) ReservationServiceInterface {
	return &ReservationService{
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		txManager:       txManager,
		logger:          logger,
		now:             time.Now,
	}
}

func validateWindow(start time.Time, end *time.Time) error {
	if end != nil && !end.After(start) {
		return apperrors.NewInvalidInputError("end_time must be after start_time")
	}
	return nil
}

func conflictDTO(conflict *entities.Reservation) *dto.ReservationConflictDTO {
	return &dto.ReservationConflictDTO{
		ReservationID: conflict.ID,
		HolderName:    conflict.HolderName,
		StartTime:     conflict.StartTime,
		EndTime:       conflict.EndTimePtr(),
	}
}

// CheckAvailability answers whether the window is free and, when it is
// not, which reservation is in the way. The answer is advisory: creation
// re-checks inside a transaction.
func (s *ReservationService) CheckAvailability(ctx context.Context, query dto.AvailabilityQueryDTO) (*dto.AvailabilityResultDTO, error) {
	if err := validateWindow(query.StartTime, query.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.equipmentRepo.FindEquipment(ctx, query.EquipmentID); err != nil {
		return nil, err
	}

	conflict, err := s.reservationRepo.FindConflict(ctx, query.EquipmentID, query.StartTime, query.EndTime)
	if err != nil {
		return nil, err
	}
	if conflict == nil {
		return &dto.AvailabilityResultDTO{Available: true}, nil
	}
	return &dto.AvailabilityResultDTO{Available: false, Conflict: conflictDTO(conflict)}, nil
}

// CreateReservation inserts the reservation atomically: an advisory lock
// on the equipment serialises writers, and the conflict check runs again
// under the lock so two overlapping requests can never both commit.
func (s *ReservationService) CreateReservation(ctx context.Context, userID string, payload dto.CreateReservationDTO) (*entities.Reservation, error) {
	if err := validateWindow(payload.StartTime, payload.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.equipmentRepo.FindEquipment(ctx, payload.EquipmentID); err != nil {
		return nil, err
	}

	res := &entities.Reservation{
		EquipmentID: payload.EquipmentID,
		UserID:      userID,
		StartTime:   payload.StartTime,
		EndTime:     null.TimeFromPtr(payload.EndTime),
		Notes:       null.NewString(payload.Notes, payload.Notes != ""),
	}

	err := s.txManager.RunInTransaction(ctx, func(q repositories.Querier) error {
		if err := s.reservationRepo.LockEquipmentInTx(ctx, q, payload.EquipmentID); err != nil {
			return err
		}
		conflict, err := s.reservationRepo.FindConflictInTx(ctx, q, payload.EquipmentID, payload.StartTime, payload.EndTime)
		if err != nil {
			return err
		}
		if conflict != nil {
			return apperrors.ErrConflict
		}
		return s.reservationRepo.CreateInTx(ctx, q, res)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("equipment_id", res.EquipmentID),
		zap.String("user_id", userID))
	return res, nil
}

// CompleteReservation returns the equipment early: the window is
// truncated to now and the reservation becomes terminal.
func (s *ReservationService) CompleteReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	if err := s.reservationRepo.CompleteReservation(ctx, id, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.reservationRepo.FindReservation(ctx, id)
}

// CancelReservation voids a reservation that has not started yet.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	if err := s.reservationRepo.CancelReservation(ctx, id, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.reservationRepo.FindReservation(ctx, id)
}

// AutoExpire completes every active reservation whose end time has
// passed. Safe to run from multiple processes; the status guard in the
// update makes overlapping runs idempotent.
func (s *ReservationService) AutoExpire(ctx context.Context) (int64, error) {
	expired, err := s.reservationRepo.ExpireDueReservations(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.logger.Info("expired overdue reservations", zap.Int64("count", expired))
	}
	return expired, nil
}

func (s *ReservationService) FindReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	return s.reservationRepo.FindReservation(ctx, id)
}

func (s *ReservationService) ListMyReservations(ctx context.Context, userID string) ([]entities.Reservation, error) {
	return s.reservationRepo.ListByUser(ctx, userID)
}

func (s *ReservationService) ListActiveReservations(ctx context.Context) ([]entities.Reservation, error) {
	return s.reservationRepo.ListActive(ctx)
}

func (s *ReservationService) ActiveReservationForEquipment(ctx context.Context, equipmentID string) (*entities.Reservation, error) {
	return s.reservationRepo.FindActiveForEquipment(ctx, equipmentID)
}
