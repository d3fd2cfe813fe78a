package service

import (
	"context"
	"errors"

	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/model"
	"gorm.io/gorm"
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// ListByTicket returns a ticket's messages ordered by creation time ascending.
func (s *MessageService) ListByTicket(ctx context.Context, ticketID string) ([]model.Message, error) {
	if err := s.ticketExists(ctx, ticketID); err != nil {
		return nil, err
	}
	var msgs []model.Message
	if err := s.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// Create appends a message to a ticket's conversation. The parent ticket must
// exist; confirmed messages are never mutated or reordered afterwards.
func (s *MessageService) Create(ctx context.Context, m *model.Message) error {
	if err := s.ticketExists(ctx, m.TicketID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *MessageService) ticketExists(ctx context.Context, ticketID string) error {
	var t model.Ticket
	if err := s.db.WithContext(ctx).Select("id").First(&t, "id = ?", ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrTicketNotFound
		}
		return err
	}
	return nil
}
