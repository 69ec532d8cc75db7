package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/internal/service"
	"github.com/michalwarchol/slash-api/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatisticsHandler serves the dashboards, the recommendation feed and the
// watch-progress endpoints.
type StatisticsHandler struct {
	statsSvc  service.StatisticsService
	exportSvc service.ExportService
}

// NewStatisticsHandler creates the StatisticsHandler.
func NewStatisticsHandler(statsSvc service.StatisticsService, exportSvc service.ExportService) *StatisticsHandler {
	return &StatisticsHandler{statsSvc: statsSvc, exportSvc: exportSvc}
}

// ────────────────────── dashboards ──────────────────────

// Get returns the dashboard matching the caller's role.
// GET /api/v1/statistics
func (h *StatisticsHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var (
		stats any
		err   error
	)
	if role == model.RoleEducator {
		stats, err = h.statsSvc.GetEducatorStats(c.Request.Context(), userID)
	} else {
		stats, err = h.statsSvc.GetStudentStats(c.Request.Context(), userID)
	}
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// Export streams the educator dashboard as an XLSX workbook.
// GET /api/v1/statistics/export
func (h *StatisticsHandler) Export(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, name, err := h.exportSvc.ExportEducatorStats(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ────────────────────── recommendations ──────────────────────

// Recommended returns the personalized course feed.
// GET /api/v1/statistics/recommended
func (h *StatisticsHandler) Recommended(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	result, err := h.statsSvc.GetRecommended(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ────────────────────── progress ──────────────────────

// ListProgress lists the caller's watch-progress records.
// GET /api/v1/statistics/progress
func (h *StatisticsHandler) ListProgress(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ProgressListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	result, err := h.statsSvc.ListProgress(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// CreateProgress starts tracking a course through one of its videos.
// POST /api/v1/statistics/progress
func (h *StatisticsHandler) CreateProgress(c *gin.Context) {
	h.recordProgress(c, false)
}

// UpdateProgress advances the caller's progress on a course.
// PUT /api/v1/statistics/progress
func (h *StatisticsHandler) UpdateProgress(c *gin.Context) {
	h.recordProgress(c, true)
}

func (h *StatisticsHandler) recordProgress(c *gin.Context, isUpdate bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var input dto.ProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.statsSvc.RecordProgress(c.Request.Context(), userID, &input, isUpdate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoNotFound):
			response.NotFound(c, 14001, "video not found")
		case errors.Is(err, service.ErrProgressNotFound):
			response.NotFound(c, 15001, "progress not found")
		default:
			response.InternalError(c)
		}
		return
	}

	if isUpdate {
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}

// GetCourseProgress returns the caller's progress on one course.
// GET /api/v1/statistics/progress/:courseId
func (h *StatisticsHandler) GetCourseProgress(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	progress, err := h.statsSvc.GetCourseProgress(c.Request.Context(), userID, c.Param("courseId"))
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			response.NotFound(c, 15001, "progress not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, progress)
}
