package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
)

type ReportServiceInterface interface {
	ExportMaintenanceHistory(ctx context.Context, from, to time.Time) (*excelize.File, error)
}

type ReportService struct {
	logRepo repositories.MaintenanceLogRepositoryInterface
	logger  *zap.Logger
}

func NewReportService(logRepo repositories.MaintenanceLogRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{logRepo: logRepo, logger: logger}
}

// ExportMaintenanceHistory renders the maintenance logs in [from, to]
// as a spreadsheet, one row per log.
func (s *ReportService) ExportMaintenanceHistory(ctx context.Context, from, to time.Time) (*excelize.File, error) {
	if !to.After(from) {
		return nil, apperrors.NewInvalidInputError("report range end must be after start")
	}

	logs, err := s.logRepo.ListLogsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Maintenance History"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Equipment", "Description", "Performed By"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "D1", headerStyle)
	}

	for i, log := range logs {
		row := i + 2
		performedBy := ""
		if log.PerformedBy.Valid {
			performedBy = log.PerformedBy.String
		}
		values := []interface{}{
			log.PerformedDate.Format("2006-01-02"),
			log.EquipmentName,
			log.Description,
			performedBy,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "C", 40)
	_ = f.SetColWidth(sheet, "D", "D", 24)

	s.logger.Info("maintenance history exported",
		zap.Time("from", from), zap.Time("to", to), zap.Int("rows", len(logs)))
	return f, nil
}
