package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/autana/helpdesk/internal/bot"
	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/kafka"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/service"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc      *service.MessageService
	tickets  *service.TicketService
	producer kafka.EventProducer

	// responder, если задан, генерирует автоматический ответ на каждое
	// не-бот сообщение (BOT_AUTO_REPLY).
	responder bot.Responder
	botName   string
}

func NewMessageHandler(svc *service.MessageService, tickets *service.TicketService, producer kafka.EventProducer) *MessageHandler {
	return &MessageHandler{svc: svc, tickets: tickets, producer: producer}
}

// EnableAutoReply turns on server-side bot replies through the given responder.
func (h *MessageHandler) EnableAutoReply(r bot.Responder, botName string) {
	h.responder = r
	h.botName = botName
}

func (h *MessageHandler) List(c *gin.Context) {
	msgs, err := h.svc.ListByTicket(c.Request.Context(), c.Param("ticket_id"))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": errs.ErrTicketNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

type createMessageRequest struct {
	TicketID   string `json:"ticket_id" binding:"required,uuid"`
	Content    string `json:"content" binding:"required"`
	IsBot      bool   `json:"is_bot"`
	SenderName string `json:"sender_name"`
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid body"})
		return
	}
	msg := &model.Message{
		TicketID:   req.TicketID,
		Content:    req.Content,
		IsBot:      req.IsBot,
		SenderName: req.SenderName,
	}
	if err := h.svc.Create(c.Request.Context(), msg); err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": errs.ErrTicketNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create message"})
		return
	}
	h.produceAsync(msg)
	if h.responder != nil && !msg.IsBot {
		h.autoReply(c.Request.Context(), msg)
	}
	c.JSON(http.StatusCreated, msg)
}

// autoReply generates and stores a bot reply to a human message. A failed
// reply is logged and dropped; the user's message has already been persisted.
func (h *MessageHandler) autoReply(ctx context.Context, trigger *model.Message) {
	ticket, err := h.tickets.GetByID(ctx, trigger.TicketID)
	if err != nil {
		log.Printf("bot: load ticket %s: %v", trigger.TicketID, err)
		return
	}
	history, err := h.svc.ListByTicket(ctx, trigger.TicketID)
	if err != nil {
		log.Printf("bot: load history %s: %v", trigger.TicketID, err)
		return
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		if m.ID != trigger.ID {
			lines = append(lines, m.Content)
		}
	}
	reply, err := h.responder.GenerateResponse(ctx, bot.TicketContext{
		TicketID:    ticket.ID,
		Category:    ticket.Category,
		Description: ticket.Description,
		UserMessage: trigger.Content,
		History:     lines,
	})
	if err != nil {
		log.Printf("bot: generate response: %v", err)
		return
	}
	botMsg := &model.Message{
		TicketID:   trigger.TicketID,
		Content:    reply,
		IsBot:      true,
		SenderName: h.botName,
	}
	if err := h.svc.Create(ctx, botMsg); err != nil {
		log.Printf("bot: store reply: %v", err)
		return
	}
	h.produceAsync(botMsg)
}

func (h *MessageHandler) produceAsync(m *model.Message) {
	if h.producer == nil {
		return
	}
	payload := map[string]interface{}{
		"message_id": m.ID,
		"ticket_id":  m.TicketID,
		"is_bot":     m.IsBot,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.producer.ProduceEvent(ctx, "message.created", payload)
	}()
}
