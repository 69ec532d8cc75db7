package handler

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/service"
	"github.com/michalwarchol/slash-api/pkg/response"
)

// VideoHandler serves the course video endpoints.
type VideoHandler struct {
	videoSvc service.VideoService
}

// NewVideoHandler creates the VideoHandler.
func NewVideoHandler(videoSvc service.VideoService) *VideoHandler {
	return &VideoHandler{videoSvc: videoSvc}
}

// ────────────────────── CRUD ──────────────────────

// Create uploads a video with its thumbnail to a course the caller owns.
// POST /api/v1/courses/:id/videos (multipart)
func (h *VideoHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var input dto.VideoInput
	if err := c.ShouldBind(&input); err != nil {
		response.BadRequest(c, 10001, "invalid form fields")
		return
	}

	duration, err := strconv.Atoi(c.PostForm("duration"))
	if err != nil || duration < 0 {
		response.BadRequest(c, 10001, "duration must be a non-negative integer")
		return
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		response.BadRequest(c, 10001, "video file is required")
		return
	}
	thumbFile, err := c.FormFile("thumbnail")
	if err != nil {
		response.BadRequest(c, 10001, "thumbnail file is required")
		return
	}

	video, err := videoFile.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer video.Close()

	thumb, err := thumbFile.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer thumb.Close()

	result, err := h.videoSvc.Create(c.Request.Context(), userID, c.Param("id"), &input, &service.VideoUpload{
		Video:        video,
		VideoExt:     strings.ToLower(filepath.Ext(videoFile.Filename)),
		Thumbnail:    thumb,
		ThumbnailExt: strings.ToLower(filepath.Ext(thumbFile.Filename)),
		Duration:     duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 13001, "course not found")
		case errors.Is(err, service.ErrNotCourseOwner):
			response.Forbidden(c, 10003, "not the course owner")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// GetFull returns a video with its course, neighbours and average rating.
// GET /api/v1/videos/:id
func (h *VideoHandler) GetFull(c *gin.Context) {
	video, err := h.videoSvc.GetFull(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, 14001, "video not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, video)
}

// Update edits a video's name and description.
// PUT /api/v1/videos/:id
func (h *VideoHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var input dto.VideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	video, err := h.videoSvc.Update(c.Request.Context(), userID, c.Param("id"), &input)
	if err != nil {
		h.writeOwnedVideoError(c, err)
		return
	}
	response.OK(c, video)
}

// Delete removes a video and its stored objects.
// DELETE /api/v1/videos/:id
func (h *VideoHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.videoSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeOwnedVideoError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── engagement ──────────────────────

// IncreaseViews bumps the view counter.
// POST /api/v1/videos/:id/views
func (h *VideoHandler) IncreaseViews(c *gin.Context) {
	if err := h.videoSvc.IncreaseViews(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, 14001, "video not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Rate sets the caller's 1-5 rating.
// PUT /api/v1/videos/:id/rating
func (h *VideoHandler) Rate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "rating must be between 1 and 5")
		return
	}

	if err := h.videoSvc.Rate(c.Request.Context(), userID, c.Param("id"), req.Rating); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, 14001, "video not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// GetRating returns the caller's stored rating, null when absent.
// GET /api/v1/videos/:id/rating
func (h *VideoHandler) GetRating(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rating, err := h.videoSvc.GetRating(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, rating)
}

// ────────────────────── comments ──────────────────────

// Comment creates a comment, or edits one when commentId is set.
// POST /api/v1/videos/:id/comments
func (h *VideoHandler) Comment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "text is required")
		return
	}

	comment, err := h.videoSvc.Comment(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoNotFound):
			response.NotFound(c, 14001, "video not found")
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFound(c, 14002, "comment not found")
		case errors.Is(err, service.ErrNotCommentAuthor):
			response.Forbidden(c, 10003, "not the comment author")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, comment)
}

// ListComments lists a video's comments.
// GET /api/v1/videos/:id/comments
func (h *VideoHandler) ListComments(c *gin.Context) {
	var req dto.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	result, err := h.videoSvc.ListComments(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, 14001, "video not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

func (h *VideoHandler) writeOwnedVideoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, 14001, "video not found")
	case errors.Is(err, service.ErrNotCourseOwner):
		response.Forbidden(c, 10003, "not the course owner")
	default:
		response.InternalError(c)
	}
}
