package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/service"
	"github.com/michalwarchol/slash-api/pkg/response"
)

const maxMaterialSize = 50 << 20 // 50 MiB

// CourseHandler serves the course catalog endpoints.
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler creates the CourseHandler.
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// ────────────────────── catalog ──────────────────────

// ListTypes returns the localized course taxonomy.
// GET /api/v1/courses/types?lang=pl|en
func (h *CourseHandler) ListTypes(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")
	if lang != "pl" && lang != "en" {
		response.BadRequest(c, 10001, "lang must be pl or en")
		return
	}

	types, err := h.courseSvc.ListTypes(c.Request.Context(), lang)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, types)
}

// Search lists courses matching a name query.
// GET /api/v1/courses?search=&lang=&page=&perPage=
func (h *CourseHandler) Search(c *gin.Context) {
	var req dto.CourseSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	result, err := h.courseSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Best lists the most liked courses of a category.
// GET /api/v1/courses/best?category=&page=&perPage=
func (h *CourseHandler) Best(c *gin.Context) {
	var req dto.BestCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "category is required")
		return
	}

	result, err := h.courseSvc.BestByCategory(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListByCreator lists an educator's courses with video and like counts.
// GET /api/v1/courses/creator?creatorId=&orderBy=&order=&page=&perPage=
func (h *CourseHandler) ListByCreator(c *gin.Context) {
	var req dto.CreatorCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}
	if req.CreatorID == "" {
		response.BadRequest(c, 10001, "creatorId is required")
		return
	}

	result, err := h.courseSvc.ListByCreator(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Get returns a course without its videos.
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courseSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "course not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, course)
}

// GetFull returns a course with videos, materials and the like count.
// GET /api/v1/courses/:id/full
func (h *CourseHandler) GetFull(c *gin.Context) {
	course, err := h.courseSvc.GetFull(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "course not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, course)
}

// ────────────────────── mutations ──────────────────────

// Create creates a course owned by the caller.
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.courseSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEducator):
			response.Forbidden(c, 10003, "educator role required")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, "user not found")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// Update edits a course the caller owns.
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.writeOwnedCourseError(c, err)
		return
	}
	response.OK(c, course)
}

// Delete removes a course the caller owns.
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeOwnedCourseError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── likes ──────────────────────

// Like toggles the caller's like on a course.
// POST /api/v1/courses/:id/like
func (h *CourseHandler) Like(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	if err := h.courseSvc.Like(c.Request.Context(), userID, c.Param("id"), req.IsLike); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "course not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// UserStatistics reports the caller's relation to a course.
// GET /api/v1/courses/:id/statistics
func (h *CourseHandler) UserStatistics(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	stats, err := h.courseSvc.GetUserStatistics(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "course not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// ────────────────────── materials ──────────────────────

// UploadMaterial attaches a downloadable file to a course the caller owns.
// POST /api/v1/courses/:id/materials
func (h *CourseHandler) UploadMaterial(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "material file is required")
		return
	}
	if file.Size > maxMaterialSize {
		response.BadRequest(c, 13002, "material exceeds the 50 MiB limit")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer src.Close()

	material, err := h.courseSvc.UploadMaterial(c.Request.Context(), userID, c.Param("id"), &service.MaterialUpload{
		Name:        file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		h.writeOwnedCourseError(c, err)
		return
	}
	response.Created(c, material)
}

// DeleteMaterial removes a material from a course the caller owns.
// DELETE /api/v1/materials/:id
func (h *CourseHandler) DeleteMaterial(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.courseSvc.DeleteMaterial(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			response.NotFound(c, 13003, "material not found")
		case errors.Is(err, service.ErrNotCourseOwner):
			response.Forbidden(c, 10003, "not the course owner")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

func (h *CourseHandler) writeOwnedCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 13001, "course not found")
	case errors.Is(err, service.ErrNotCourseOwner):
		response.Forbidden(c, 10003, "not the course owner")
	default:
		response.InternalError(c)
	}
}
