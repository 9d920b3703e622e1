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

type WorkOrderController struct {
	service services.WorkOrderServiceInterface
	logger  *zap.Logger
}

func NewWorkOrderController(service services.WorkOrderServiceInterface, logger *zap.Logger) *WorkOrderController {
	return &WorkOrderController{service: service, logger: logger}
}

func (c *WorkOrderController) Create(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateWorkOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.service.CreateWorkOrder(ctx.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Work order created successfully", http.StatusCreated)
}

func (c *WorkOrderController) Find(ctx echo.Context) error {
	wo, err := c.service.FindWorkOrder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Work order retrieved successfully", http.StatusOK)
}

func (c *WorkOrderController) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	orders, total, err := c.service.ListWorkOrders(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, orders, "Work orders retrieved successfully", http.StatusOK, total)
}

func (c *WorkOrderController) Update(ctx echo.Context) error {
	var payload dto.UpdateWorkOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.service.UpdateWorkOrder(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Work order updated successfully", http.StatusOK)
}

func (c *WorkOrderController) Delete(ctx echo.Context) error {
	if err := c.service.DeleteWorkOrder(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Work order deleted successfully", http.StatusOK)
}

func (c *WorkOrderController) Transition(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.TransitionWorkOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.service.Transition(ctx.Request().Context(), ctx.Param("id"), userID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Work order transitioned successfully", http.StatusOK)
}

func (c *WorkOrderController) Complete(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CompleteWorkOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.service.Complete(ctx.Request().Context(), ctx.Param("id"), userID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Work order completed successfully", http.StatusOK)
}

func (c *WorkOrderController) Close(ctx echo.Context) error {
	wo, err := c.service.Close(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Work order closed successfully", http.StatusOK)
}

func (c *WorkOrderController) AddComment(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AddWorkOrderCommentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	comment, err := c.service.AddComment(ctx.Request().Context(), ctx.Param("id"), userID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, comment, "Comment added successfully", http.StatusCreated)
}

func (c *WorkOrderController) ListComments(ctx echo.Context) error {
	comments, err := c.service.ListComments(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, comments, "Comments retrieved successfully", http.StatusOK)
}

func (c *WorkOrderController) OpenCounts(ctx echo.Context) error {
	counts, err := c.service.OpenCountsByEquipment(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, counts, "Open work order counts retrieved successfully", http.StatusOK)
}

func (c *WorkOrderController) Dashboard(ctx echo.Context) error {
	d, err := c.service.Dashboard(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, d, "Dashboard retrieved successfully", http.StatusOK)
}
