package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports whether s is one of the four ticket statuses.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(32);not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

type Ticket struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string       `gorm:"type:uuid;index;not null" json:"user_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Category    string       `gorm:"type:varchar(100);not null" json:"category"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Status      TicketStatus `gorm:"type:varchar(50);index;not null;default:open" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TicketStatusOpen
	}
	return nil
}

type Message struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	TicketID   string    `gorm:"type:uuid;index;not null" json:"ticket_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsBot      bool      `gorm:"not null;default:false" json:"is_bot"`
	SenderName string    `gorm:"type:varchar(255)" json:"sender_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MessageRating is an admin's evaluation of one bot message.
type MessageRating struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID    string    `gorm:"type:uuid;index;not null" json:"message_id"`
	TicketID     string    `gorm:"type:uuid;index;not null" json:"ticket_id"`
	Rating       *int      `json:"rating,omitempty"`
	IsHelpful    *bool     `json:"is_helpful,omitempty"`
	FeedbackText string    `gorm:"type:text" json:"feedback_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *MessageRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TicketWithMessages is the GET /tickets/{id} response: the ticket plus its
// conversation ordered by creation time.
type TicketWithMessages struct {
	Ticket
	Messages []Message `json:"messages"`
}

type TicketStats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}

type UserWithStats struct {
	User
	TicketCount int64 `json:"ticket_count"`
	OpenTickets int64 `json:"open_tickets"`
}

type AdminDashboardStats struct {
	TotalUsers    int64       `json:"total_users"`
	TotalTickets  int64       `json:"total_tickets"`
	TotalMessages int64       `json:"total_messages"`
	BotMessages   int64       `json:"bot_messages"`
	Tickets       TicketStats `json:"tickets"`
}
