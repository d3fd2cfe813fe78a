package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/kafka"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/service"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	svc      *service.TicketService
	producer kafka.EventProducer
}

func NewTicketHandler(svc *service.TicketService, producer kafka.EventProducer) *TicketHandler {
	return &TicketHandler{svc: svc, producer: producer}
}

type createTicketRequest struct {
	UserID      string `json:"user_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid body"})
		return
	}
	ticket := &model.Ticket{
		UserID:      req.UserID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := h.svc.Create(c.Request.Context(), ticket); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create ticket"})
		return
	}
	h.produceAsync("ticket.created", ticket)
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.svc.GetWithMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": errs.ErrTicketNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load ticket"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.svc.List(c.Request.Context(), c.Query("user_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type updateTicketRequest struct {
	Title       *string `json:"title,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Update applies a PATCH with partial semantics: only fields present in the
// body are written, so a status change never touches title/category/description.
func (h *TicketHandler) Update(c *gin.Context) {
	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid body"})
		return
	}
	changes := make(map[string]interface{})
	if req.Title != nil {
		changes["title"] = *req.Title
	}
	if req.Category != nil {
		changes["category"] = *req.Category
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Status != nil {
		if !model.ValidStatus(model.TicketStatus(*req.Status)) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid status: must be 'open', 'in_progress', 'resolved' or 'closed'"})
			return
		}
		changes["status"] = *req.Status
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "no changes"})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": errs.ErrTicketNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update ticket"})
		return
	}
	h.produceAsync("ticket.updated", t)
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Fire-and-forget: событие должно уйти даже при отмене запроса, но с таймаутом.
func (h *TicketHandler) produceAsync(event string, t *model.Ticket) {
	if h.producer == nil {
		return
	}
	payload := map[string]interface{}{
		"ticket_id": t.ID,
		"user_id":   t.UserID,
		"title":     t.Title,
		"category":  t.Category,
		"status":    string(t.Status),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.producer.ProduceEvent(ctx, event, payload)
	}()
}

func pagination(c *gin.Context) (limit, offset int) {
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
