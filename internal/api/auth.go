package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tapfolio/backend/internal/service"
	"github.com/tapfolio/backend/internal/types"
)

// AuthHandler serves sign-up, sign-in and the password reset flow.
type AuthHandler struct {
	auth          *service.AuthService
	email         service.EmailSender
	publicBaseURL string
}

func NewAuthHandler(auth *service.AuthService, email service.EmailSender, publicBaseURL string) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		email:         email,
		publicBaseURL: publicBaseURL,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/reset-password", h.RequestPasswordReset)
		auth.POST("/reset-password/confirm", h.ConfirmPasswordReset)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, _, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	c.JSON(http.StatusCreated, types.AuthResponse{Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{Token: token})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req types.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start password reset"})
		return
	}

	if err == nil {
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", h.publicBaseURL, token)
		if mailErr := h.email.SendPasswordReset(req.Email, resetURL); mailErr != nil {
			log.Printf("[AuthHandler] Failed to send reset email to %s: %v", req.Email, mailErr)
		}
	}

	// Same response whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset email has been sent"})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req types.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrResetTokenExpired) || errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "reset token is invalid or has expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
