package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

func newReservationFixture(t *testing.T) (*ReservationService, *fakeReservationRepo, *fakeEquipmentRepo) {
	t.Helper()
	resRepo := newFakeReservationRepo()
	eqRepo := newFakeEquipmentRepo()
	svc := NewReservationService(resRepo, eqRepo, &fakeTxManager{}, zap.NewNop()).(*ReservationService)
	return svc, resRepo, eqRepo
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("free equipment is available", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		result, err := svc.CheckAvailability(ctx, dto.AvailabilityQueryDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(4 * time.Hour)),
		})
		require.NoError(t, err)
		assert.True(t, result.Available)
		assert.Nil(t, result.Conflict)
	})

	t.Run("overlap reports the conflicting reservation", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		existing, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(4 * time.Hour)),
		})
		require.NoError(t, err)

		result, err := svc.CheckAvailability(ctx, dto.AvailabilityQueryDTO{
			EquipmentID: eq.ID,
			StartTime:   base.Add(2 * time.Hour),
			EndTime:     utils.TimePtr(base.Add(6 * time.Hour)),
		})
		require.NoError(t, err)
		assert.False(t, result.Available)
		require.NotNil(t, result.Conflict)
		assert.Equal(t, existing.ID, result.Conflict.ReservationID)
	})

	t.Run("open-ended reservation blocks everything after its start", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		_, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
		})
		require.NoError(t, err)

		result, err := svc.CheckAvailability(ctx, dto.AvailabilityQueryDTO{
			EquipmentID: eq.ID,
			StartTime:   base.AddDate(0, 1, 0),
			EndTime:     utils.TimePtr(base.AddDate(0, 1, 1)),
		})
		require.NoError(t, err)
		assert.False(t, result.Available)
	})

	t.Run("adjacent but touching windows still conflict", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		end := base.Add(4 * time.Hour)
		_, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     &end,
		})
		require.NoError(t, err)

		// New window starts exactly at the old end: the bounds are
		// inclusive, so this overlaps.
		result, err := svc.CheckAvailability(ctx, dto.AvailabilityQueryDTO{
			EquipmentID: eq.ID,
			StartTime:   end,
			EndTime:     utils.TimePtr(end.Add(time.Hour)),
		})
		require.NoError(t, err)
		assert.False(t, result.Available)
	})

	t.Run("unknown equipment is not found", func(t *testing.T) {
		svc, _, _ := newReservationFixture(t)
		_, err := svc.CheckAvailability(ctx, dto.AvailabilityQueryDTO{
			EquipmentID: "missing",
			StartTime:   base,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		_, err := svc.CheckAvailability(ctx, dto.AvailabilityQueryDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(-time.Hour)),
		})
		var invalid *apperrors.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("create succeeds on free window", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		res, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(2 * time.Hour)),
			Notes:       "spring plowing",
		})
		require.NoError(t, err)
		assert.Equal(t, constants.ReservationActive, res.Status)
		assert.Equal(t, "user-1", res.UserID)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("overlapping create is a conflict", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		_, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(4 * time.Hour)),
		})
		require.NoError(t, err)

		_, err = svc.CreateReservation(ctx, "user-2", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base.Add(time.Hour),
			EndTime:     utils.TimePtr(base.Add(2 * time.Hour)),
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("cancelled reservation does not block", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)
		svc.now = func() time.Time { return base.Add(-time.Hour) }

		first, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(4 * time.Hour)),
		})
		require.NoError(t, err)

		_, err = svc.CancelReservation(ctx, first.ID)
		require.NoError(t, err)

		_, err = svc.CreateReservation(ctx, "user-2", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(4 * time.Hour)),
		})
		assert.NoError(t, err)
	})
}

func TestReservationLifecycle(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("complete truncates the window to now", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		res, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(8 * time.Hour)),
		})
		require.NoError(t, err)

		completedAt := base.Add(3 * time.Hour)
		svc.now = func() time.Time { return completedAt }

		completed, err := svc.CompleteReservation(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, constants.ReservationCompleted, completed.Status)
		require.True(t, completed.EndTime.Valid)
		assert.True(t, completed.EndTime.Time.Equal(completedAt))
	})

	t.Run("completing twice fails", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)
		svc.now = func() time.Time { return base.Add(time.Hour) }

		res, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
		})
		require.NoError(t, err)

		_, err = svc.CompleteReservation(ctx, res.ID)
		require.NoError(t, err)

		_, err = svc.CompleteReservation(ctx, res.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("completing before the start is rejected", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)
		svc.now = func() time.Time { return base.Add(-24 * time.Hour) }

		res, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(4 * time.Hour)),
		})
		require.NoError(t, err)

		// A reservation that has not started holds no equipment to
		// return; the way out is Cancel.
		_, err = svc.CompleteReservation(ctx, res.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)

		found, err := svc.FindReservation(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, constants.ReservationActive, found.Status)
	})

	t.Run("cancel after start is rejected", func(t *testing.T) {
		svc, _, eqRepo := newReservationFixture(t)
		eq := eqRepo.add(constants.EquipmentActive)

		res, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
			EquipmentID: eq.ID,
			StartTime:   base,
			EndTime:     utils.TimePtr(base.Add(4 * time.Hour)),
		})
		require.NoError(t, err)

		svc.now = func() time.Time { return base.Add(time.Hour) }
		_, err = svc.CancelReservation(ctx, res.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestAutoExpire(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	svc, _, eqRepo := newReservationFixture(t)
	eqA := eqRepo.add(constants.EquipmentActive)
	eqB := eqRepo.add(constants.EquipmentActive)
	eqC := eqRepo.add(constants.EquipmentActive)

	// Due, open-ended, and still running.
	_, err := svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
		EquipmentID: eqA.ID, StartTime: base, EndTime: utils.TimePtr(base.Add(time.Hour)),
	})
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
		EquipmentID: eqB.ID, StartTime: base,
	})
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, "user-1", dto.CreateReservationDTO{
		EquipmentID: eqC.ID, StartTime: base, EndTime: utils.TimePtr(base.Add(24 * time.Hour)),
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(2 * time.Hour) }

	expired, err := svc.AutoExpire(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	// Second run finds nothing new.
	expired, err = svc.AutoExpire(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired)

	active, err := svc.ListActiveReservations(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
