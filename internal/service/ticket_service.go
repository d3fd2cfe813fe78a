package service

import (
	"context"
	"errors"

	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/model"
	"gorm.io/gorm"
)

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

func (s *TicketService) Create(ctx context.Context, t *model.Ticket) error {
	t.Status = model.TicketStatusOpen
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *TicketService) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetWithMessages loads a ticket together with its conversation, messages
// ordered by creation time ascending.
func (s *TicketService) GetWithMessages(ctx context.Context, id string) (*model.TicketWithMessages, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var msgs []model.Message
	if err := s.db.WithContext(ctx).
		Where("ticket_id = ?", id).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return &model.TicketWithMessages{Ticket: *t, Messages: msgs}, nil
}

// List returns tickets newest first, optionally scoped to one user.
func (s *TicketService) List(ctx context.Context, userID string, limit, offset int) ([]model.Ticket, error) {
	var items []model.Ticket
	tx := s.db.WithContext(ctx).Model(&model.Ticket{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if err := tx.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial update. Only keys present in changes are written;
// user_id is never accepted as a change.
func (s *TicketService) Update(ctx context.Context, id string, changes map[string]interface{}) (*model.Ticket, error) {
	delete(changes, "user_id")
	var t model.Ticket
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&t).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TicketService) Stats(ctx context.Context, userID string) (*model.TicketStats, error) {
	scoped := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&model.Ticket{})
		if userID != "" {
			tx = tx.Where("user_id = ?", userID)
		}
		return tx
	}
	var stats model.TicketStats
	if err := scoped().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	counts := []struct {
		status model.TicketStatus
		dst    *int64
	}{
		{model.TicketStatusOpen, &stats.Open},
		{model.TicketStatusInProgress, &stats.InProgress},
		{model.TicketStatusResolved, &stats.Resolved},
		{model.TicketStatusClosed, &stats.Closed},
	}
	for _, c := range counts {
		if err := scoped().Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}
