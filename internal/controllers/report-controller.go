package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type ReportController struct {
	service services.ReportServiceInterface
	logger  *zap.Logger
}

func NewReportController(service services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{service: service, logger: logger}
}

// MaintenanceHistory streams an xlsx export of maintenance logs between
// ?from=YYYY-MM-DD and ?to=YYYY-MM-DD, defaulting to the last 90 days.
func (c *ReportController) MaintenanceHistory(ctx echo.Context) error {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -90)
	to := now

	if fromStr := ctx.QueryParam("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("invalid from date: %s", fromStr), c.logger)
		}
		from = parsed
	}
	if toStr := ctx.QueryParam("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("invalid to date: %s", toStr), c.logger)
		}
		// Inclusive end of day.
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	file, err := c.service.ExportMaintenanceHistory(ctx.Request().Context(), from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filename := fmt.Sprintf("maintenance-history-%s.xlsx", now.Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)

	if err := file.Write(ctx.Response().Writer); err != nil {
		c.logger.Error("failed to stream report", zap.Error(err))
		return err
	}
	return nil
}
