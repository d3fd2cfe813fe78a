package service

import (
	"context"
	"errors"

	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Create registers a new user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, email, name, password string, role model.Role) (*model.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errs.ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, errs.ErrBadCredentials
	}
	return &u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListWithStats returns all users with their ticket counts, newest first.
func (s *UserService) ListWithStats(ctx context.Context, limit, offset int) ([]model.UserWithStats, error) {
	var users []model.User
	tx := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]model.UserWithStats, 0, len(users))
	for _, u := range users {
		var total, open int64
		if err := s.db.WithContext(ctx).Model(&model.Ticket{}).Where("user_id = ?", u.ID).Count(&total).Error; err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(&model.Ticket{}).
			Where("user_id = ? AND status = ?", u.ID, model.TicketStatusOpen).Count(&open).Error; err != nil {
			return nil, err
		}
		out = append(out, model.UserWithStats{User: u, TicketCount: total, OpenTickets: open})
	}
	return out, nil
}
