package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/CoursePlatform-F25/course-service/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportApplications renders the admin review queue as a spreadsheet.
// Filters apply the same way as the list endpoint; the export is not
// paginated.
func (s *reportService) ExportApplications(ctx context.Context, filters repositories.ApplicationFilters) (*excelize.File, error) {
	filters.Limit = 0
	filters.Offset = 0

	applications, total, err := s.repo.Application().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for export: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Applications"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{
		"ID", "Applicant", "Email", "Phone", "Status",
		"Submitted At", "Reviewed At", "Reviewed By",
		"Expertise", "Rejection Reason",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", lastCell, headerStyle)
	}

	const timeLayout = "2006-01-02 15:04"
	for i, application := range applications {
		row := i + 2

		reviewedAt := ""
		if application.ReviewedAt != nil {
			reviewedAt = application.ReviewedAt.Format(timeLayout)
		}
		reviewedBy := ""
		if application.ReviewedBy != nil {
			reviewedBy = *application.ReviewedBy
		}
		phone := ""
		if application.PhoneNumber != nil {
			phone = *application.PhoneNumber
		}
		reason := ""
		if application.RejectionReason != nil {
			reason = *application.RejectionReason
		}

		values := []interface{}{
			application.ID,
			application.User.DisplayName(),
			application.User.Email,
			phone,
			string(application.Status),
			application.SubmittedAt.Format(timeLayout),
			reviewedAt,
			reviewedBy,
			application.Expertise,
			reason,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("Applications exported", "count", len(applications), "total", total)
	return f, nil
}
