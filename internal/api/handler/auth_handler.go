package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/service"
	"github.com/michalwarchol/slash-api/pkg/jwt"
	"github.com/michalwarchol/slash-api/pkg/response"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates the AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register creates an account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Activate verifies the mailed activation code.
// POST /api/v1/auth/activate
func (h *AuthHandler) Activate(c *gin.Context) {
	var req dto.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	if err := h.authSvc.Activate(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11001, "user not found")
		case errors.Is(err, service.ErrInvalidAuthCode):
			response.BadRequest(c, 11002, "invalid or expired code")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// Login authenticates and issues a token pair.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, 11003, "invalid email or password")
		case errors.Is(err, service.ErrAccountNotVerified):
			response.Forbidden(c, 11004, "account not verified")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Refresh exchanges a refresh token for a new pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, 11005, "invalid or revoked token")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout revokes the presented access token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// RequestPasswordChange mails a password-change code.
// POST /api/v1/auth/request-password-change
func (h *AuthHandler) RequestPasswordChange(c *gin.Context) {
	var req dto.RequestPasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	if err := h.authSvc.RequestPasswordChange(c.Request.Context(), &req); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ChangePassword sets a new password using a mailed code.
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11001, "user not found")
		case errors.Is(err, service.ErrInvalidAuthCode):
			response.BadRequest(c, 11002, "invalid or expired code")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
