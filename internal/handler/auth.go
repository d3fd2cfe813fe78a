package handler

import (
	"errors"
	"net/http"

	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid body"})
		return
	}
	u, err := h.users.Create(c.Request.Context(), req.Email, req.Name, req.Password, model.RoleUser)
	if err != nil {
		if errors.Is(err, errs.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": errs.ErrEmailTaken.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid body"})
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": errs.ErrBadCredentials.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to authenticate"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Me returns the user record for the user_id query parameter. The system has
// no token auth; the persisted client session re-validates itself here.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "user_id is required"})
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": errs.ErrUserNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, u)
}
