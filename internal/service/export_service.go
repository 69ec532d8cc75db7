package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/michalwarchol/slash-api/internal/dto"
)

// ExportService renders the educator dashboard as a downloadable XLSX
// workbook, one sheet per top-10 list.
type ExportService interface {
	ExportEducatorStats(ctx context.Context, educatorID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	stats  StatisticsService
	logger *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(stats StatisticsService, logger *zap.Logger) ExportService {
	return &exportService{stats: stats, logger: logger}
}

// ExportEducatorStats builds the workbook and returns it with a suggested
// file name.
func (s *exportService) ExportEducatorStats(ctx context.Context, educatorID string) (*bytes.Buffer, string, error) {
	stats, err := s.stats.GetEducatorStats(ctx, educatorID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("create style: %w", err)
	}

	const likedSheet = "Most liked courses"
	f.SetSheetName("Sheet1", likedSheet)
	writeHeader(f, likedSheet, header, []string{"#", "Course", "Category", "Likes"})
	for i, course := range stats.MostLikedCourses {
		row := i + 2
		f.SetCellValue(likedSheet, cell("A", row), i+1)
		f.SetCellValue(likedSheet, cell("B", row), course.Name)
		f.SetCellValue(likedSheet, cell("C", row), categoryName(course.CourseResponse))
		f.SetCellValue(likedSheet, cell("D", row), course.Likes)
	}

	const popularSheet = "Most popular courses"
	if _, err := f.NewSheet(popularSheet); err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	writeHeader(f, popularSheet, header, []string{"#", "Course", "Category", "Views"})
	for i, course := range stats.MostPopularCourses {
		row := i + 2
		f.SetCellValue(popularSheet, cell("A", row), i+1)
		f.SetCellValue(popularSheet, cell("B", row), course.Name)
		f.SetCellValue(popularSheet, cell("C", row), categoryName(course.CourseResponse))
		f.SetCellValue(popularSheet, cell("D", row), course.Views)
	}

	const videosSheet = "Most viewed videos"
	if _, err := f.NewSheet(videosSheet); err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	writeHeader(f, videosSheet, header, []string{"#", "Video", "Duration (s)", "Views"})
	for i, video := range stats.MostViewedVideos {
		row := i + 2
		f.SetCellValue(videosSheet, cell("A", row), i+1)
		f.SetCellValue(videosSheet, cell("B", row), video.Name)
		f.SetCellValue(videosSheet, cell("C", row), video.Duration)
		f.SetCellValue(videosSheet, cell("D", row), video.Views)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write workbook failed", zap.String("educator_id", educatorID), zap.Error(err))
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	name := fmt.Sprintf("statistics-%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, name, nil
}

func writeHeader(f *excelize.File, sheet string, style int, titles []string) {
	for i, title := range titles {
		col := string(rune('A' + i))
		f.SetCellValue(sheet, cell(col, 1), title)
		f.SetCellStyle(sheet, cell(col, 1), cell(col, 1), style)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func categoryName(course dto.CourseResponse) string {
	if course.Type != nil {
		return course.Type.Name
	}
	return ""
}
