package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invitation-canvas-editor/auth"
	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/logger"
)

// Handler handles HTTP requests for users
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type FormLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type FormRegister struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *Handler) Register(c *gin.Context) {
	var form FormRegister
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user := &domain.User{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     domain.RoleUser,
		IsActive: true,
	}

	if err := h.service.Register(c.Request.Context(), user); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.ToProfile()})
}

func (h *Handler) Login(c *gin.Context) {
	var form FormLogin
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user, err := h.service.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		c.Error(err)
		return
	}

	accessToken, err := auth.GenerateJWT(user.ID, user.TokenVersion)
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"user":         user.ToProfile(),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		logger.Warnf("logout user %d: %v", userID, err)
	}
	c.Status(http.StatusNoContent)
}

// GetProfile returns the {id, email, role} identity of the caller.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.Error(errors.Unauthorized("user not found", nil))
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ToProfile())
}
