package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type ReservationController struct {
	service services.ReservationServiceInterface
	logger  *zap.Logger
}

func NewReservationController(service services.ReservationServiceInterface, logger *zap.Logger) *ReservationController {
	return &ReservationController{service: service, logger: logger}
}

func (c *ReservationController) CheckAvailability(ctx echo.Context) error {
	var query dto.AvailabilityQueryDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.CheckAvailability(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Availability checked successfully", http.StatusOK)
}

func (c *ReservationController) Create(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateReservationDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.service.CreateReservation(ctx.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Reservation created successfully", http.StatusCreated)
}

func (c *ReservationController) Find(ctx echo.Context) error {
	res, err := c.service.FindReservation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Reservation retrieved successfully", http.StatusOK)
}

func (c *ReservationController) Complete(ctx echo.Context) error {
	res, err := c.service.CompleteReservation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Reservation completed successfully", http.StatusOK)
}

func (c *ReservationController) Cancel(ctx echo.Context) error {
	res, err := c.service.CancelReservation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Reservation cancelled successfully", http.StatusOK)
}

func (c *ReservationController) ListMine(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reservations, err := c.service.ListMyReservations(ctx.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reservations, "Reservations retrieved successfully", http.StatusOK)
}

func (c *ReservationController) ListActive(ctx echo.Context) error {
	reservations, err := c.service.ListActiveReservations(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reservations, "Active reservations retrieved successfully", http.StatusOK)
}

// ActiveForEquipment reports who currently holds a piece of equipment.
func (c *ReservationController) ActiveForEquipment(ctx echo.Context) error {
	res, err := c.service.ActiveReservationForEquipment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Active reservation retrieved successfully", http.StatusOK)
}
