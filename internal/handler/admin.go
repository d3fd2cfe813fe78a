package handler

import (
	"errors"
	"net/http"

	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/service"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin   *service.AdminService
	users   *service.UserService
	tickets *service.TicketService
}

func NewAdminHandler(admin *service.AdminService, users *service.UserService, tickets *service.TicketService) *AdminHandler {
	return &AdminHandler{admin: admin, users: users, tickets: tickets}
}

// verifyAdmin checks that the user_id query parameter names an admin. The
// client fails fast on role before calling, but the backend does not rely on
// that.
func (h *AdminHandler) verifyAdmin(c *gin.Context) bool {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "user_id is required"})
		return false
	}
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"detail": errs.ErrForbidden.Error()})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load user"})
		return false
	}
	if u.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": errs.ErrForbidden.Error()})
		return false
	}
	return true
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	if !h.verifyAdmin(c) {
		return
	}
	stats, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Users(c *gin.Context) {
	if !h.verifyAdmin(c) {
		return
	}
	limit, offset := pagination(c)
	users, err := h.users.ListWithStats(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UserTickets(c *gin.Context) {
	if !h.verifyAdmin(c) {
		return
	}
	items, err := h.tickets.List(c.Request.Context(), c.Param("id"), 0, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type rateMessageRequest struct {
	MessageID    string `json:"message_id" binding:"required,uuid"`
	TicketID     string `json:"ticket_id" binding:"omitempty,uuid"`
	Rating       *int   `json:"rating,omitempty"`
	IsHelpful    *bool  `json:"is_helpful,omitempty"`
	FeedbackText string `json:"feedback_text,omitempty"`
}

func (h *AdminHandler) RateMessage(c *gin.Context) {
	if !h.verifyAdmin(c) {
		return
	}
	var req rateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid body"})
		return
	}
	rating := &model.MessageRating{
		MessageID:    req.MessageID,
		TicketID:     req.TicketID,
		Rating:       req.Rating,
		IsHelpful:    req.IsHelpful,
		FeedbackText: req.FeedbackText,
	}
	if err := h.admin.RateMessage(c.Request.Context(), rating); err != nil {
		if errors.Is(err, errs.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": errs.ErrMessageNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to store rating"})
		return
	}
	c.JSON(http.StatusCreated, rating)
}
