package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/service"
	"github.com/michalwarchol/slash-api/pkg/response"
)

const maxAvatarSize = 5 << 20 // 5 MiB

// UserHandler serves the user profile endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates the UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Get returns a user's public profile.
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	resp, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Me returns the caller's own profile.
// GET /api/v1/auth/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.userSvc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// UpdateMe edits the caller's profile.
// PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	resp, err := h.userSvc.Update(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// UploadAvatar replaces the caller's avatar image.
// PUT /api/v1/users/me/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, 10001, "avatar file is required")
		return
	}
	if file.Size > maxAvatarSize {
		response.BadRequest(c, 12002, "avatar exceeds the 5 MiB limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		response.BadRequest(c, 12003, "unsupported avatar format")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer src.Close()

	resp, err := h.userSvc.UploadAvatar(c.Request.Context(), userID, ext, src)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}
