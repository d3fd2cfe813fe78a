package service

import (
	"context"
	"errors"

	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/model"
	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) Dashboard(ctx context.Context) (*model.AdminDashboardStats, error) {
	var out model.AdminDashboardStats
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Message{}).Count(&out.TotalMessages).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Message{}).Where("is_bot = ?", true).Count(&out.BotMessages).Error; err != nil {
		return nil, err
	}
	stats, err := NewTicketService(s.db).Stats(ctx, "")
	if err != nil {
		return nil, err
	}
	out.Tickets = *stats
	out.TotalTickets = stats.Total
	return &out, nil
}

// RateMessage records an admin's evaluation of a bot message.
func (s *AdminService) RateMessage(ctx context.Context, r *model.MessageRating) error {
	var m model.Message
	if err := s.db.WithContext(ctx).Select("id, ticket_id").First(&m, "id = ?", r.MessageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrMessageNotFound
		}
		return err
	}
	if r.TicketID == "" {
		r.TicketID = m.TicketID
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return err
	}
	// The caller responds with r; hand back the stored row, not the request echo.
	return s.db.WithContext(ctx).First(r, "id = ?", r.ID).Error
}
