package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/resumeforge/resumeforge/internal/application"
	"github.com/resumeforge/resumeforge/internal/application/workspace"
	"github.com/resumeforge/resumeforge/pkg/helpers"
	"github.com/resumeforge/resumeforge/pkg/response"
	"github.com/resumeforge/resumeforge/pkg/validation"
)

type UserHandler struct {
	Service    *application.UserService
	Workspaces *workspace.Manager
	Cookies    *helpers.Manager
	Logger     *logrus.Logger
}

func NewUserHandler(svc *application.UserService, ws *workspace.Manager, cookies *helpers.Manager, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Service: svc, Workspaces: ws, Cookies: cookies, Logger: logger}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	u, err := h.Service.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "Email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error[any](c, http.StatusInternalServerError, "signup failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"user_id": u.ID,
		"email":   u.Email,
		"name":    u.Name,
	}, "User created successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	res, pair, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "Login successful", nil)
}

func (h *UserHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, userID, err := h.Service.Refresh(c.Request.Context(), token)
	if err != nil {
		h.Cookies.Clear(c)
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"user_id": userID}, "Token refreshed", nil)
}

// Logout drops the session, flushes and closes the user's workspace, and
// clears the auth cookies. Pending edits are persisted best-effort before
// the workspace detaches.
func (h *UserHandler) Logout(c *gin.Context) {
	userID := c.GetString("userID")
	h.Service.Logout(c.Request.Context(), userID)
	h.Workspaces.Release(c.Request.Context(), userID)
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Logged out", nil)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Service.GetProfile(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user_id":    u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt,
	}, "OK", nil)
}
