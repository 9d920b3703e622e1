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

type MaintenanceLogController struct {
	service services.MaintenanceLogServiceInterface
	logger  *zap.Logger
}

func NewMaintenanceLogController(service services.MaintenanceLogServiceInterface, logger *zap.Logger) *MaintenanceLogController {
	return &MaintenanceLogController{service: service, logger: logger}
}

func (c *MaintenanceLogController) Create(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateMaintenanceLogDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	log, err := c.service.CreateLog(ctx.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, log, "Maintenance log created successfully", http.StatusCreated)
}

func (c *MaintenanceLogController) Find(ctx echo.Context) error {
	log, err := c.service.FindLog(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, log, "Maintenance log retrieved successfully", http.StatusOK)
}

func (c *MaintenanceLogController) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	logs, total, err := c.service.ListLogs(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, logs, "Maintenance logs retrieved successfully", http.StatusOK, total)
}

func (c *MaintenanceLogController) Update(ctx echo.Context) error {
	var payload dto.UpdateMaintenanceLogDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	log, err := c.service.UpdateLog(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, log, "Maintenance log updated successfully", http.StatusOK)
}

func (c *MaintenanceLogController) Delete(ctx echo.Context) error {
	if err := c.service.DeleteLog(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Maintenance log deleted successfully", http.StatusOK)
}
