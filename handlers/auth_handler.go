package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tea-techniques-api/helper"
	"tea-techniques-api/middleware"
	"tea-techniques-api/models"
	"tea-techniques-api/services"
)

type AuthHandler struct {
	authService services.AuthService
	secretKey   string
	secureCooky bool
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, secretKey string, secureCookies bool, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, secretKey: secretKey, secureCooky: secureCookies, Helper: h}
}

// CSRF issues a signed token for the double-submit check. Always 200.
func (h *AuthHandler) CSRF(c *gin.Context) {
	token, err := middleware.IssueCSRFToken(h.secretKey)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.SetCookie(middleware.CSRFCookie, token, 24*3600, "/", "", h.secureCooky, false)
	h.Helper.SendData(c, http.StatusOK, gin.H{"csrfToken": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendError(c, models.NewFieldError("non_field_errors", "malformed request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		h.Helper.SendError(c, &models.APIError{
			StatusCode: http.StatusBadRequest,
			ErrorType:  "ValidationError",
			Detail:     "Please provide both username and password",
		})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, token, 14*24*3600, "/", "", h.secureCooky, true)
	h.Helper.SendData(c, http.StatusOK, gin.H{"user": models.NewAuthUser(user)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookie)
	if err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.Helper.SendError(c, err)
			return
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCooky, true)
	h.Helper.SendData(c, http.StatusOK, gin.H{"detail": "Successfully logged out"})
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Helper.SendError(c, models.NewPermissionDenied("Authentication credentials were not provided."))
		return
	}
	h.Helper.SendData(c, http.StatusOK, models.NewAuthUser(user))
}

// Status reports authentication state. Always 200.
func (h *AuthHandler) Status(c *gin.Context) {
	if user, ok := middleware.CurrentUser(c); ok {
		h.Helper.SendData(c, http.StatusOK, gin.H{
			"isAuthenticated": true,
			"user":            models.NewAuthUser(user),
		})
		return
	}
	h.Helper.SendData(c, http.StatusOK, gin.H{"isAuthenticated": false})
}
